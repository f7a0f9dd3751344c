package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/config"
	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/logger"
)

type IssueService interface {
	Create(ctx context.Context, actor domain.User, data domain.IssueCreationData) (domain.Issue, error)
	Get(ctx context.Context, actor domain.User, id domain.IssueId) (domain.Issue, error)
	List(ctx context.Context, actor domain.User, dashboardId *domain.DashboardId) ([]domain.Issue, error)
	Second(ctx context.Context, actor domain.User, id domain.IssueId) (domain.Issue, error)
	Close(ctx context.Context, actor domain.User, id domain.IssueId) (domain.Issue, error)
	Delete(ctx context.Context, actor domain.User, id domain.IssueId) error
}

type IssueStorage interface {
	GetDashboard(ctx context.Context, id domain.DashboardId) (domain.Dashboard, error)
	CreateIssue(ctx context.Context, data domain.IssueCreationData) (domain.Issue, error)
	GetIssue(ctx context.Context, id domain.IssueId) (domain.Issue, error)
	ListIssues(ctx context.Context, dashboardId *domain.DashboardId) ([]domain.Issue, error)
	// AddSecond must re-check the seconding rules atomically with the write.
	AddSecond(ctx context.Context, id domain.IssueId, user domain.UserId, threshold int) (domain.Issue, error)
	CloseIssue(ctx context.Context, id domain.IssueId) (domain.Issue, error)
	SoftDeleteIssue(ctx context.Context, id domain.IssueId, at time.Time) error
}

type IssueValidator interface {
	Subject(subject string) error
	Description(description string) error
}

type TextRenderer interface {
	Render(text string) (string, error)
}

type IssueConfig struct {
	SecondThreshold int
	LockTimeout     time.Duration
	CreatorRoles    []domain.Role
}

func NewIssueConfig(cfg *config.Public) IssueConfig {
	roles := make([]domain.Role, 0, len(cfg.IssueCreatorRoles))
	for _, r := range cfg.IssueCreatorRoles {
		if role, ok := domain.ParseRole(r); ok {
			roles = append(roles, role)
		}
	}
	return IssueConfig{
		SecondThreshold: cfg.SecondThreshold,
		LockTimeout:     cfg.SecondLockTimeout,
		CreatorRoles:    roles,
	}
}

type Issue struct {
	storage   IssueStorage
	validator IssueValidator
	renderer  TextRenderer
	cfg       IssueConfig
	locks     *keyedMutex
	now       func() time.Time
}

func NewIssue(storage IssueStorage, validator IssueValidator, renderer TextRenderer, cfg IssueConfig) *Issue {
	if cfg.SecondThreshold < 1 {
		cfg.SecondThreshold = 1
	}
	return &Issue{
		storage:   storage,
		validator: validator,
		renderer:  renderer,
		cfg:       cfg,
		locks:     newKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Issue) Create(ctx context.Context, actor domain.User, data domain.IssueCreationData) (domain.Issue, error) {
	if !slices.Contains(s.cfg.CreatorRoles, actor.Role) {
		return domain.Issue{}, errors.Authorization("Your role may not create issues")
	}

	data.Subject = strings.TrimSpace(data.Subject)
	data.Description = strings.TrimSpace(data.Description)
	if err := s.validator.Subject(data.Subject); err != nil {
		return domain.Issue{}, err
	}
	if err := s.validator.Description(data.Description); err != nil {
		return domain.Issue{}, err
	}

	if _, err := s.storage.GetDashboard(ctx, data.DashboardId); err != nil {
		if errors.IsNotFound(err) {
			return domain.Issue{}, errors.Validation("Dashboard does not exist")
		}
		return domain.Issue{}, err
	}

	html, err := s.renderer.Render(data.Description)
	if err != nil {
		logger.Log.Error("failed to render issue description", "error", err)
		return domain.Issue{}, err
	}
	data.DescriptionHTML = html
	data.SubmittedBy = actor.Id

	issue, err := s.storage.CreateIssue(ctx, data)
	if err != nil {
		return domain.Issue{}, err
	}
	issuesCreatedTotal.Inc()
	logger.Log.Info("issue created",
		"issue_id", issue.Id,
		"dashboard_id", issue.DashboardId,
		"user_id", actor.Id)
	return issue, nil
}

func (s *Issue) Get(ctx context.Context, _ domain.User, id domain.IssueId) (domain.Issue, error) {
	return s.storage.GetIssue(ctx, id)
}

func (s *Issue) List(ctx context.Context, _ domain.User, dashboardId *domain.DashboardId) ([]domain.Issue, error) {
	return s.storage.ListIssues(ctx, dashboardId)
}

// Second records actor's endorsement. Checks run in order: missing, closed,
// self, duplicate.
func (s *Issue) Second(ctx context.Context, actor domain.User, id domain.IssueId) (issue domain.Issue, err error) {
	defer func() { issueSecondsTotal.WithLabelValues(secondResult(err)).Inc() }()

	unlock, err := s.locks.Lock(ctx, id, s.cfg.LockTimeout)
	if err != nil {
		logger.Log.Warn("issue lock wait failed", "issue_id", id, "user_id", actor.Id)
		return domain.Issue{}, err
	}
	defer unlock()

	current, err := s.storage.GetIssue(ctx, id)
	if err != nil {
		return domain.Issue{}, err
	}
	if err := current.CheckSecond(actor.Id); err != nil {
		return domain.Issue{}, err
	}

	issue, err = s.storage.AddSecond(ctx, id, actor.Id, s.cfg.SecondThreshold)
	if err != nil {
		return domain.Issue{}, err
	}

	logger.Log.Info("issue seconded",
		"issue_id", id,
		"user_id", actor.Id,
		"seconds", len(issue.Seconds))
	if issue.Status != current.Status {
		logger.Log.Info("issue status changed",
			"issue_id", id,
			"from", current.Status,
			"to", issue.Status)
	}
	return issue, nil
}

func (s *Issue) Close(ctx context.Context, actor domain.User, id domain.IssueId) (domain.Issue, error) {
	if !actor.IsAdmin() {
		return domain.Issue{}, errors.Authorization("Access denied. Only for admin")
	}

	unlock, err := s.locks.Lock(ctx, id, s.cfg.LockTimeout)
	if err != nil {
		return domain.Issue{}, err
	}
	defer unlock()

	issue, err := s.storage.CloseIssue(ctx, id)
	if err != nil {
		return domain.Issue{}, err
	}
	logger.Log.Info("issue closed", "issue_id", id, "user_id", actor.Id)
	return issue, nil
}

// Delete soft-deletes the issue. Only its submitter or an admin may do it.
func (s *Issue) Delete(ctx context.Context, actor domain.User, id domain.IssueId) error {
	unlock, err := s.locks.Lock(ctx, id, s.cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	issue, err := s.storage.GetIssue(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && issue.SubmittedBy != actor.Id {
		return errors.Authorization("Only the submitter or an admin may delete this issue")
	}

	if err := s.storage.SoftDeleteIssue(ctx, id, s.now()); err != nil {
		return err
	}
	logger.Log.Info("issue deleted", "issue_id", id, "user_id", actor.Id)
	return nil
}
