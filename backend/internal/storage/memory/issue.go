package memory

import (
	"context"
	"sort"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
)

func (s *Storage) CreateIssue(_ context.Context, data domain.IssueCreationData) (domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dashboards[data.DashboardId]; !ok {
		return domain.Issue{}, errors.NotFound("Dashboard not found")
	}

	now := s.now()
	issue := &domain.Issue{
		Id:              s.nextIssueId,
		DashboardId:     data.DashboardId,
		Subject:         data.Subject,
		Description:     data.Description,
		DescriptionHTML: data.DescriptionHTML,
		SubmittedBy:     data.SubmittedBy,
		Seconds:         []domain.UserId{},
		Status:          domain.IssueOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.nextIssueId++
	s.issues[issue.Id] = issue
	return issue.Clone(), nil
}

// live returns the stored issue unless it is missing or soft-deleted.
// Callers must hold s.mu.
func (s *Storage) live(id domain.IssueId) (*domain.Issue, error) {
	issue, ok := s.issues[id]
	if !ok || issue.IsDeleted() {
		return nil, errors.NotFound("Issue not found")
	}
	return issue, nil
}

func (s *Storage) GetIssue(_ context.Context, id domain.IssueId) (domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, err := s.live(id)
	if err != nil {
		return domain.Issue{}, err
	}
	return issue.Clone(), nil
}

func (s *Storage) ListIssues(_ context.Context, dashboardId *domain.DashboardId) ([]domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Issue, 0)
	for _, issue := range s.issues {
		if issue.IsDeleted() {
			continue
		}
		if dashboardId != nil && issue.DashboardId != *dashboardId {
			continue
		}
		out = append(out, issue.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Id < out[j].Id
	})
	return out, nil
}

// AddSecond re-checks the seconding rules under the write lock, appends user
// and promotes the status once threshold seconds are reached.
func (s *Storage) AddSecond(_ context.Context, id domain.IssueId, user domain.UserId, threshold int) (domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.live(id)
	if err != nil {
		return domain.Issue{}, err
	}
	if err := issue.CheckSecond(user); err != nil {
		return domain.Issue{}, err
	}

	issue.Seconds = append(issue.Seconds, user)
	issue.Status = issue.StatusAfterSeconds(len(issue.Seconds), threshold)
	issue.UpdatedAt = s.now()
	return issue.Clone(), nil
}

func (s *Storage) CloseIssue(_ context.Context, id domain.IssueId) (domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.live(id)
	if err != nil {
		return domain.Issue{}, err
	}
	if issue.Status != domain.IssueClosed {
		issue.Status = domain.IssueClosed
		issue.UpdatedAt = s.now()
	}
	return issue.Clone(), nil
}

func (s *Storage) SoftDeleteIssue(_ context.Context, id domain.IssueId, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.live(id)
	if err != nil {
		return err
	}
	issue.DeletedAt = &at
	issue.UpdatedAt = at
	return nil
}
