package utils

import (
	"unicode/utf8"

	"github.com/feedbackhub/feedbackhub/shared/errors"
)

const (
	MaxSubjectLen       = 200
	MaxDescriptionLen   = 10_000
	MaxDashboardNameLen = 100
	MaxTeamNameLen      = 100
)

// inputs are expected to be trimmed by the caller
func checkLen(field, value string, limit int) error {
	if len(value) == 0 {
		return errors.Validation(field + " is required")
	}
	if utf8.RuneCountInString(value) > limit {
		return errors.Validation(field + " is too long")
	}
	return nil
}

type IssueValidator struct{}

func (v *IssueValidator) Subject(subject string) error {
	return checkLen("Subject", subject, MaxSubjectLen)
}

func (v *IssueValidator) Description(description string) error {
	return checkLen("Description", description, MaxDescriptionLen)
}

type DashboardValidator struct{}

func (v *DashboardValidator) Name(name string) error {
	return checkLen("Name", name, MaxDashboardNameLen)
}

func (v *DashboardValidator) Team(team string) error {
	return checkLen("Team", team, MaxTeamNameLen)
}
