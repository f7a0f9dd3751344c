package memory

import (
	"context"
	"sort"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
)

func (s *Storage) CreateDashboard(_ context.Context, data domain.DashboardCreationData) (domain.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := domain.Dashboard{
		Id:        s.nextDashboardId,
		Name:      data.Name,
		Team:      data.Team,
		CreatedAt: s.now(),
	}
	s.nextDashboardId++
	s.dashboards[d.Id] = d
	return d, nil
}

func (s *Storage) GetDashboard(_ context.Context, id domain.DashboardId) (domain.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dashboards[id]
	if !ok {
		return domain.Dashboard{}, errors.NotFound("Dashboard not found")
	}
	return d, nil
}

func (s *Storage) ListDashboards(_ context.Context) ([]domain.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Dashboard, 0, len(s.dashboards))
	for _, d := range s.dashboards {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

// DashboardProgress counts live issues per dashboard. Dashboards without
// issues are included with zero counts.
func (s *Storage) DashboardProgress(_ context.Context) ([]domain.DashboardProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byId := make(map[domain.DashboardId]*domain.DashboardProgress, len(s.dashboards))
	out := make([]*domain.DashboardProgress, 0, len(s.dashboards))
	for _, d := range s.dashboards {
		p := &domain.DashboardProgress{Id: d.Id, Name: d.Name, Team: d.Team}
		byId[d.Id] = p
		out = append(out, p)
	}
	for _, issue := range s.issues {
		if issue.IsDeleted() {
			continue
		}
		if p, ok := byId[issue.DashboardId]; ok {
			p.Count(issue.Status)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	result := make([]domain.DashboardProgress, len(out))
	for i, p := range out {
		result[i] = *p
	}
	return result, nil
}
