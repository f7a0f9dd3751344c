// Package memory is the in-process store. Every read returns a deep copy so
// callers can never mutate stored state behind the lock.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/config"
	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/logger"
)

type Storage struct {
	mu sync.RWMutex

	users        map[domain.UserId]domain.User
	usersByEmail map[domain.Email]domain.UserId
	dashboards   map[domain.DashboardId]domain.Dashboard
	issues       map[domain.IssueId]*domain.Issue

	nextDashboardId domain.Id
	nextIssueId     domain.Id

	now func() time.Time
}

func New() *Storage {
	return &Storage{
		users:           make(map[domain.UserId]domain.User),
		usersByEmail:    make(map[domain.Email]domain.UserId),
		dashboards:      make(map[domain.DashboardId]domain.Dashboard),
		issues:          make(map[domain.IssueId]*domain.Issue),
		nextDashboardId: 1,
		nextIssueId:     1,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Seed loads provisioned users and dashboards, keeping their ids.
func (s *Storage) Seed(_ context.Context, seed *config.Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range seed.Users {
		role, _ := domain.ParseRole(u.Role)
		id := domain.UserId(u.Id)
		email := strings.ToLower(u.Email)
		s.users[id] = domain.User{Id: id, Email: email, Role: role, PassHash: u.PasswordHash}
		s.usersByEmail[email] = id
	}
	for _, d := range seed.Dashboards {
		id := domain.DashboardId(d.Id)
		s.dashboards[id] = domain.Dashboard{Id: id, Name: d.Name, Team: d.Team, CreatedAt: s.now()}
		s.nextDashboardId = max(s.nextDashboardId, id+1)
	}

	logger.Log.Info("memory store seeded", "users", len(seed.Users), "dashboards", len(seed.Dashboards))
	return nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Cleanup() error {
	return nil
}
