package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/config"
	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixed clock advancing one second per call, so created_at ordering is deterministic
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	require.NoError(t, s.Seed(context.Background(), &config.Seed{
		Users: []config.SeedUser{
			{Id: 1, Email: "Admin@Example.com", PasswordHash: "h1", Role: "admin"},
			{Id: 2, Email: "alice@example.com", PasswordHash: "h2", Role: "business"},
			{Id: 3, Email: "bob@example.com", PasswordHash: "h3", Role: "business"},
		},
		Dashboards: []config.SeedDashboard{
			{Id: 10, Name: "Payments", Team: "Core"},
			{Id: 11, Name: "Onboarding", Team: "Growth"},
		},
	}))
	return s
}

func mustCreateIssue(t *testing.T, s *Storage, dashboard domain.DashboardId, by domain.UserId) domain.Issue {
	t.Helper()
	issue, err := s.CreateIssue(context.Background(), domain.IssueCreationData{
		DashboardId: dashboard,
		Subject:     "Checkout is slow",
		Description: "Takes 10s",
		SubmittedBy: by,
	})
	require.NoError(t, err)
	return issue
}

func TestSeed(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u, err := s.User(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserId(1), u.Id)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, "h1", u.PassHash)

	_, err = s.User(ctx, "nobody@example.com")
	assert.True(t, errors.IsNotFound(err))

	d, err := s.CreateDashboard(ctx, domain.DashboardCreationData{Name: "New", Team: "Core"})
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardId(12), d.Id, "ids continue after seeded ones")
}

func TestDashboards(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	list, err := s.ListDashboards(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.DashboardId(10), list[0].Id)
	assert.Equal(t, domain.DashboardId(11), list[1].Id)

	d, err := s.GetDashboard(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", d.Name)

	_, err = s.GetDashboard(ctx, 99)
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateIssue(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	issue := mustCreateIssue(t, s, 10, 2)
	assert.Equal(t, domain.IssueId(1), issue.Id)
	assert.Equal(t, domain.IssueOpen, issue.Status)
	assert.Empty(t, issue.Seconds)
	assert.NotNil(t, issue.Seconds)
	assert.Nil(t, issue.DeletedAt)

	_, err := s.CreateIssue(ctx, domain.IssueCreationData{DashboardId: 99, SubmittedBy: 2})
	assert.True(t, errors.IsNotFound(err))
}

func TestGetIssueReturnsCopy(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	created := mustCreateIssue(t, s, 10, 2)
	_, err := s.AddSecond(ctx, created.Id, 3, 5)
	require.NoError(t, err)

	got, err := s.GetIssue(ctx, created.Id)
	require.NoError(t, err)
	got.Seconds[0] = 99

	again, err := s.GetIssue(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserId{3}, again.Seconds)
}

func TestListIssues(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	a := mustCreateIssue(t, s, 10, 2)
	b := mustCreateIssue(t, s, 11, 2)
	c := mustCreateIssue(t, s, 10, 3)
	require.NoError(t, s.SoftDeleteIssue(ctx, c.Id, time.Now()))

	all, err := s.ListIssues(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.Id, all[0].Id)
	assert.Equal(t, b.Id, all[1].Id)

	dash := domain.DashboardId(10)
	filtered, err := s.ListIssues(ctx, &dash)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.Id, filtered[0].Id)

	empty := domain.DashboardId(99)
	none, err := s.ListIssues(ctx, &empty)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAddSecond(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes at threshold", func(t *testing.T) {
		s := newTestStorage(t)
		issue := mustCreateIssue(t, s, 10, 2)

		got, err := s.AddSecond(ctx, issue.Id, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.IssueOpen, got.Status)

		got, err = s.AddSecond(ctx, issue.Id, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.IssueSeconded, got.Status)
		assert.Equal(t, []domain.UserId{3, 1}, got.Seconds)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("rejections", func(t *testing.T) {
		s := newTestStorage(t)
		issue := mustCreateIssue(t, s, 10, 2)

		_, err := s.AddSecond(ctx, issue.Id, 2, 1)
		assert.True(t, errors.IsKind(err, errors.KindSelfSecond))

		_, err = s.AddSecond(ctx, issue.Id, 3, 1)
		require.NoError(t, err)
		_, err = s.AddSecond(ctx, issue.Id, 3, 1)
		assert.True(t, errors.IsKind(err, errors.KindDuplicateSecond))

		_, err = s.CloseIssue(ctx, issue.Id)
		require.NoError(t, err)
		_, err = s.AddSecond(ctx, issue.Id, 1, 1)
		assert.True(t, errors.IsKind(err, errors.KindIssueClosed))

		_, err = s.AddSecond(ctx, 404, 1, 1)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("failed attempts leave the issue unchanged", func(t *testing.T) {
		s := newTestStorage(t)
		issue := mustCreateIssue(t, s, 10, 2)

		_, err := s.AddSecond(ctx, issue.Id, 2, 1)
		require.Error(t, err)

		got, err := s.GetIssue(ctx, issue.Id)
		require.NoError(t, err)
		assert.Empty(t, got.Seconds)
		assert.Equal(t, issue.UpdatedAt, got.UpdatedAt)
	})
}

func TestAddSecondConcurrent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	issue := mustCreateIssue(t, s, 10, 2)

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddSecond(ctx, issue.Id, 3, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	got, err := s.GetIssue(ctx, issue.Id)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserId{3}, got.Seconds)
}

func TestSoftDeleteIssue(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	issue := mustCreateIssue(t, s, 10, 2)

	require.NoError(t, s.SoftDeleteIssue(ctx, issue.Id, time.Now()))

	_, err := s.GetIssue(ctx, issue.Id)
	assert.True(t, errors.IsNotFound(err))

	err = s.SoftDeleteIssue(ctx, issue.Id, time.Now())
	assert.True(t, errors.IsNotFound(err), "second delete sees nothing to delete")

	_, err = s.AddSecond(ctx, issue.Id, 3, 1)
	assert.True(t, errors.IsNotFound(err))

	_, err = s.CloseIssue(ctx, issue.Id)
	assert.True(t, errors.IsNotFound(err))

	stored := s.issues[issue.Id]
	require.NotNil(t, stored, "soft delete keeps the record")
	assert.NotNil(t, stored.DeletedAt)
}

func TestDashboardProgress(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	mustCreateIssue(t, s, 10, 2)
	seconded := mustCreateIssue(t, s, 10, 2)
	closed := mustCreateIssue(t, s, 10, 2)
	deleted := mustCreateIssue(t, s, 10, 2)

	_, err := s.AddSecond(ctx, seconded.Id, 3, 1)
	require.NoError(t, err)
	_, err = s.CloseIssue(ctx, closed.Id)
	require.NoError(t, err)
	require.NoError(t, s.SoftDeleteIssue(ctx, deleted.Id, time.Now()))

	progress, err := s.DashboardProgress(ctx)
	require.NoError(t, err)
	require.Len(t, progress, 2)

	assert.Equal(t, domain.DashboardProgress{
		Id: 10, Name: "Payments", Team: "Core",
		TotalIssues: 3, OpenIssues: 1, SecondedIssues: 1, ClosedIssues: 1,
	}, progress[0])
	assert.Equal(t, domain.DashboardProgress{Id: 11, Name: "Onboarding", Team: "Growth"}, progress[1])
}
