package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/feedbackhub/feedbackhub/shared/config"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	shared_pg "github.com/feedbackhub/feedbackhub/shared/storage/pg"
)

//go:embed migrations/init.sql
var initSQL string

type Storage struct {
	db *sql.DB
}

// New connects to postgres and brings the schema up to date.
func New(ctx context.Context, pgCfg config.Pg) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", pgCfg.Host, "dbname", pgCfg.Dbname)
	db, err := shared_pg.Connect(ctx, pgCfg, shared_pg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")

	s := &Storage{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Seed upserts provisioned users and dashboards with their configured ids and
// moves the id sequences past them.
func (s *Storage) Seed(ctx context.Context, seed *config.Seed) error {
	err := shared_pg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, u := range seed.Users {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO users (id, email, password_hash, role)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE
				SET email = EXCLUDED.email, password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
				u.Id, strings.ToLower(u.Email), u.PasswordHash, strings.ToLower(u.Role),
			)
			if err != nil {
				return fmt.Errorf("failed to seed user %d: %w", u.Id, err)
			}
		}
		for _, d := range seed.Dashboards {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO dashboards (id, name, team)
				VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, team = EXCLUDED.team`,
				d.Id, d.Name, d.Team,
			)
			if err != nil {
				return fmt.Errorf("failed to seed dashboard %d: %w", d.Id, err)
			}
		}
		for _, table := range []string{"users", "dashboards"} {
			_, err := tx.ExecContext(ctx, fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`,
				table,
			))
			if err != nil {
				return fmt.Errorf("failed to advance %s sequence: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("postgres store seeded", "users", len(seed.Users), "dashboards", len(seed.Dashboards))
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}
