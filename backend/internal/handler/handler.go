package handler

import (
	"context"

	"github.com/feedbackhub/feedbackhub/backend/internal/service"
	"github.com/feedbackhub/feedbackhub/shared/config"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth      service.AuthService
	issue     service.IssueService
	dashboard service.DashboardService
	health    HealthChecker
	cfg       *config.Config
}

func New(auth service.AuthService, issue service.IssueService, dashboard service.DashboardService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		auth:      auth,
		issue:     issue,
		dashboard: dashboard,
		health:    health,
		cfg:       cfg,
	}
}
