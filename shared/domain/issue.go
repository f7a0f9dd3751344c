package domain

import (
	"slices"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/errors"
)

type IssueStatus string

const (
	IssueOpen     IssueStatus = "open"
	IssueSeconded IssueStatus = "seconded"
	IssueClosed   IssueStatus = "closed"
)

// to iterate thru layers: handler -> service -> storage
type IssueCreationData struct {
	DashboardId     DashboardId
	Subject         IssueSubject
	Description     IssueDescription
	DescriptionHTML string
	SubmittedBy     UserId
}

type Issue struct {
	Id              IssueId          `json:"id"`
	DashboardId     DashboardId      `json:"dashboard_id"`
	Subject         IssueSubject     `json:"subject"`
	Description     IssueDescription `json:"description"`
	DescriptionHTML string           `json:"description_html"`
	SubmittedBy     UserId           `json:"submitted_by_user_id"`
	Seconds         []UserId         `json:"seconds"`
	Status          IssueStatus      `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       *time.Time       `json:"deleted_at,omitempty"`
}

func (i *Issue) IsDeleted() bool {
	return i.DeletedAt != nil
}

func (i *Issue) SecondedBy(user UserId) bool {
	return slices.Contains(i.Seconds, user)
}

// StatusAfterSeconds is the status the issue should have once it carries n
// seconds. Seconded and closed never move back to open.
func (i *Issue) StatusAfterSeconds(n, threshold int) IssueStatus {
	if i.Status == IssueOpen && n >= threshold {
		return IssueSeconded
	}
	return i.Status
}

// Clone returns a copy that shares no slices or pointers with i.
func (i Issue) Clone() Issue {
	c := i
	c.Seconds = slices.Clone(i.Seconds)
	if c.Seconds == nil {
		c.Seconds = []UserId{}
	}
	if i.DeletedAt != nil {
		t := *i.DeletedAt
		c.DeletedAt = &t
	}
	return c
}

// CheckSecond reports why user may not second the issue, or nil if they may.
// Ids are compared as domain.Id values, never through their text form.
func (i *Issue) CheckSecond(user UserId) error {
	switch {
	case i.IsDeleted():
		return errors.NotFound("Issue not found")
	case i.Status == IssueClosed:
		return errors.IssueClosed()
	case i.SubmittedBy == user:
		return errors.SelfSecond()
	case i.SecondedBy(user):
		return errors.DuplicateSecond()
	}
	return nil
}
