package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/feedbackhub/feedbackhub/backend/internal/handler"
	"github.com/feedbackhub/feedbackhub/backend/internal/markdown"
	"github.com/feedbackhub/feedbackhub/backend/internal/service"
	"github.com/feedbackhub/feedbackhub/backend/internal/storage/memory"
	"github.com/feedbackhub/feedbackhub/backend/internal/storage/pg"
	"github.com/feedbackhub/feedbackhub/backend/internal/utils"
	"github.com/feedbackhub/feedbackhub/shared/config"
	"github.com/feedbackhub/feedbackhub/shared/jwt"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	mw "github.com/feedbackhub/feedbackhub/shared/middleware"
	"github.com/feedbackhub/feedbackhub/shared/revocation"
)

const revocationSweepInterval = time.Minute

// Storage is everything the services need from a backing store, plus the
// lifecycle hooks setup drives.
type Storage interface {
	service.IssueStorage
	service.DashboardStorage
	service.AuthStorage
	Seed(ctx context.Context, seed *config.Seed) error
	Ping(ctx context.Context) error
	Cleanup() error
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Jwt            *jwt.Jwt
	Revocation     revocation.Store

	closers []func() error
}

func newStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Public.Storage {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StoragePostgres:
		return pg.New(ctx, *cfg.Private.Pg)
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Public.Storage)
}

func newRevocation(ctx context.Context, cfg *config.Config) (revocation.Store, func() error, error) {
	if cfg.Private.RedisURL == "" {
		store := revocation.NewMemoryStore()
		store.StartBackgroundSweep(ctx, revocationSweepInterval)
		return store, func() error { return nil }, nil
	}
	store, err := revocation.NewRedisStore(cfg.Private.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return store, store.Close, nil
}

// SetupDependencies initializes all dependencies required for the application.
// Background goroutines stop when ctx is cancelled.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Config: cfg, Storage: storage, closers: []func() error{storage.Cleanup}}

	seed, err := config.LoadSeed(cfg.Public.SeedFile)
	if err != nil {
		deps.Close()
		return nil, err
	}
	if err := storage.Seed(ctx, seed); err != nil {
		deps.Close()
		return nil, fmt.Errorf("seed storage: %w", err)
	}

	revoked, closeRevoked, err := newRevocation(ctx, cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Revocation = revoked
	deps.closers = append(deps.closers, closeRevoked)

	deps.Jwt = jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, deps.Jwt, revoked)
	issue := service.NewIssue(storage, &utils.IssueValidator{}, markdown.New(), service.NewIssueConfig(&cfg.Public))
	dashboard := service.NewDashboard(storage, &utils.DashboardValidator{}, cfg.Public.SortLocale)

	deps.Handler = handler.New(auth, issue, dashboard, storage, cfg)
	deps.AuthMiddleware = mw.NewAuth(deps.Jwt, revoked)

	logger.Log.Info("dependencies ready",
		"storage", cfg.Public.Storage,
		"seed_users", len(seed.Users),
		"seed_dashboards", len(seed.Dashboards),
		"redis_revocation", cfg.Private.RedisURL != "")
	return deps, nil
}

// Close releases storage and revocation resources in reverse order.
func (d *Dependencies) Close() error {
	var firstErr error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.closers = nil
	return firstErr
}
