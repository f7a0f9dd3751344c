package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	internal_errors "github.com/feedbackhub/feedbackhub/shared/errors"
	shared_pg "github.com/feedbackhub/feedbackhub/shared/storage/pg"
	"github.com/lib/pq"
)

const issueColumns = `
	i.id, i.dashboard_id, i.subject, i.description, i.description_html,
	i.submitted_by, i.status, i.created_at, i.updated_at, i.deleted_at,
	COALESCE((SELECT array_agg(s.user_id ORDER BY s.seq) FROM issue_seconds s WHERE s.issue_id = i.id), '{}')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (domain.Issue, error) {
	var (
		issue   domain.Issue
		deleted sql.NullTime
		seconds pq.Int64Array
	)
	err := row.Scan(
		&issue.Id, &issue.DashboardId, &issue.Subject, &issue.Description, &issue.DescriptionHTML,
		&issue.SubmittedBy, &issue.Status, &issue.CreatedAt, &issue.UpdatedAt, &deleted,
		&seconds,
	)
	if err != nil {
		return domain.Issue{}, err
	}
	if deleted.Valid {
		t := deleted.Time
		issue.DeletedAt = &t
	}
	issue.Seconds = make([]domain.UserId, len(seconds))
	for i, id := range seconds {
		issue.Seconds[i] = domain.UserId(id)
	}
	return issue, nil
}

// liveIssue loads a non-deleted issue through q.
func liveIssue(ctx context.Context, q shared_pg.Querier, id domain.IssueId) (domain.Issue, error) {
	issue, err := scanIssue(q.QueryRowContext(ctx,
		"SELECT "+issueColumns+" FROM issues i WHERE i.id = $1 AND i.deleted_at IS NULL", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Issue{}, internal_errors.NotFound("Issue not found")
		}
		return domain.Issue{}, fmt.Errorf("failed to query issue: %w", err)
	}
	return issue, nil
}

// lockIssue takes the row lock for the rest of tx. Deleted rows count as missing.
func lockIssue(ctx context.Context, tx *sql.Tx, id domain.IssueId) error {
	var locked domain.IssueId
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM issues WHERE id = $1 AND deleted_at IS NULL FOR UPDATE", id,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Issue not found")
		}
		return fmt.Errorf("failed to lock issue: %w", err)
	}
	return nil
}

func (s *Storage) CreateIssue(ctx context.Context, data domain.IssueCreationData) (domain.Issue, error) {
	var issue domain.Issue
	err := shared_pg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM dashboards WHERE id = $1)", data.DashboardId,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to validate dashboard: %w", err)
		}
		if !exists {
			return internal_errors.NotFound("Dashboard not found")
		}

		var id domain.IssueId
		err = tx.QueryRowContext(ctx, `
			INSERT INTO issues (dashboard_id, subject, description, description_html, submitted_by)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			data.DashboardId, data.Subject, data.Description, data.DescriptionHTML, data.SubmittedBy,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}

		issue, err = liveIssue(ctx, tx, id)
		return err
	})
	return issue, err
}

func (s *Storage) GetIssue(ctx context.Context, id domain.IssueId) (domain.Issue, error) {
	return liveIssue(ctx, s.db, id)
}

func (s *Storage) ListIssues(ctx context.Context, dashboardId *domain.DashboardId) ([]domain.Issue, error) {
	var filter sql.NullInt64
	if dashboardId != nil {
		filter = sql.NullInt64{Int64: int64(*dashboardId), Valid: true}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+issueColumns+`
		FROM issues i
		WHERE i.deleted_at IS NULL AND ($1::BIGINT IS NULL OR i.dashboard_id = $1)
		ORDER BY i.created_at, i.id`, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		out = append(out, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}
	return out, nil
}

// AddSecond locks the issue row, re-checks the seconding rules and records
// the second. The primary key on issue_seconds rejects any duplicate that
// slips past the check from another instance.
func (s *Storage) AddSecond(ctx context.Context, id domain.IssueId, user domain.UserId, threshold int) (domain.Issue, error) {
	var issue domain.Issue
	err := shared_pg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockIssue(ctx, tx, id); err != nil {
			return err
		}
		current, err := liveIssue(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := current.CheckSecond(user); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO issue_seconds (issue_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			id, user,
		)
		if err != nil {
			return fmt.Errorf("failed to insert second: %w", err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for second: %w", err)
		}
		if inserted == 0 {
			return internal_errors.DuplicateSecond()
		}

		status := current.StatusAfterSeconds(len(current.Seconds)+1, threshold)
		_, err = tx.ExecContext(ctx,
			"UPDATE issues SET status = $2, updated_at = clock_timestamp() WHERE id = $1",
			id, status,
		)
		if err != nil {
			return fmt.Errorf("failed to update issue status: %w", err)
		}

		issue, err = liveIssue(ctx, tx, id)
		return err
	})
	return issue, err
}

func (s *Storage) CloseIssue(ctx context.Context, id domain.IssueId) (domain.Issue, error) {
	var issue domain.Issue
	err := shared_pg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockIssue(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE issues SET status = 'closed', updated_at = clock_timestamp()
			WHERE id = $1 AND status <> 'closed'`, id)
		if err != nil {
			return fmt.Errorf("failed to close issue: %w", err)
		}
		issue, err = liveIssue(ctx, tx, id)
		return err
	})
	return issue, err
}

func (s *Storage) SoftDeleteIssue(ctx context.Context, id domain.IssueId, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE issues SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL",
		id, at,
	)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for issue deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("Issue not found")
	}
	return nil
}
