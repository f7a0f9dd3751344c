package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	internal_errors "github.com/feedbackhub/feedbackhub/shared/errors"
)

func (s *Storage) CreateDashboard(ctx context.Context, data domain.DashboardCreationData) (domain.Dashboard, error) {
	d := domain.Dashboard{Name: data.Name, Team: data.Team}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO dashboards (name, team) VALUES ($1, $2) RETURNING id, created_at",
		data.Name, data.Team,
	).Scan(&d.Id, &d.CreatedAt)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("failed to insert dashboard: %w", err)
	}
	return d, nil
}

func (s *Storage) GetDashboard(ctx context.Context, id domain.DashboardId) (domain.Dashboard, error) {
	var d domain.Dashboard
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, team, created_at FROM dashboards WHERE id = $1", id,
	).Scan(&d.Id, &d.Name, &d.Team, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dashboard{}, internal_errors.NotFound("Dashboard not found")
		}
		return domain.Dashboard{}, fmt.Errorf("failed to query dashboard: %w", err)
	}
	return d, nil
}

func (s *Storage) ListDashboards(ctx context.Context) ([]domain.Dashboard, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, team, created_at FROM dashboards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboards: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Dashboard, 0)
	for rows.Next() {
		var d domain.Dashboard
		if err := rows.Scan(&d.Id, &d.Name, &d.Team, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboards: %w", err)
	}
	return out, nil
}

// DashboardProgress counts live issues per dashboard in a single pass.
func (s *Storage) DashboardProgress(ctx context.Context) ([]domain.DashboardProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			d.id, d.name, d.team,
			COUNT(i.id),
			COUNT(i.id) FILTER (WHERE i.status = 'open'),
			COUNT(i.id) FILTER (WHERE i.status = 'seconded'),
			COUNT(i.id) FILTER (WHERE i.status = 'closed')
		FROM dashboards d
		LEFT JOIN issues i ON i.dashboard_id = d.id AND i.deleted_at IS NULL
		GROUP BY d.id
		ORDER BY d.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard progress: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DashboardProgress, 0)
	for rows.Next() {
		var p domain.DashboardProgress
		if err := rows.Scan(&p.Id, &p.Name, &p.Team,
			&p.TotalIssues, &p.OpenIssues, &p.SecondedIssues, &p.ClosedIssues); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboard progress: %w", err)
	}
	return out, nil
}
