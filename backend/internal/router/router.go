package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/feedbackhub/feedbackhub/backend/internal/setup"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	mw "github.com/feedbackhub/feedbackhub/shared/middleware"
	"github.com/feedbackhub/feedbackhub/shared/middleware/metrics"
	rl "github.com/feedbackhub/feedbackhub/shared/middleware/ratelimiter"
	"github.com/feedbackhub/feedbackhub/shared/utils"
)

const limiterCleanupInterval = 10 * time.Minute

// New creates the chi router with all the routes. Idle rate limiter buckets
// are swept until ctx is cancelled.
// IMPORTANT! ratelimiters set with .Use limit request for all endpoints combined in that group
func New(ctx context.Context, deps *setup.Dependencies) *chi.Mux {
	cfg := deps.Config
	h := deps.Handler
	authMw := deps.AuthMiddleware

	loginByIP := rl.New(5, 10, time.Hour)
	loginGlobal := rl.Rps100()
	perUser := rl.Rps100()
	createByUser := rl.Rps10()
	mw.StartCleanup(ctx, limiterCleanupInterval, loginByIP, loginGlobal, perUser, createByUser)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.Public.SecureCookies))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorAndStatusCode(w, errors.NotFound("Route not found"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Handle("/metrics", metrics.Handler())

		r.Route("/auth", func(r chi.Router) {
			r.With(
				mw.RateLimit(loginByIP, mw.GetIP),
				mw.GlobalRateLimit(loginGlobal),
			).Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)
			})
		})

		// logged-in users; admins bypass the limiters
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Use(mw.RateLimit(perUser, mw.GetUserIDFromContext))

			r.Route("/issues", func(r chi.Router) {
				r.With(mw.RateLimit(createByUser, mw.GetUserIDFromContext)).Post("/", h.CreateIssue)
				r.Get("/", h.ListIssues)
				r.Get("/{id}", h.GetIssue)
				r.Post("/{id}/second", h.SecondIssue)
				r.Delete("/{id}", h.DeleteIssue)
				r.With(authMw.AdminOnly()).Post("/{id}/close", h.CloseIssue)
			})

			r.Route("/dashboards", func(r chi.Router) {
				r.Get("/", h.ListDashboards)
				r.With(authMw.AdminOnly()).Post("/", h.CreateDashboard)
				r.With(authMw.AdminOnly()).Get("/progress", h.GetDashboardProgress)
				r.Get("/{id}", h.GetDashboard)
			})
		})
	})

	return r
}
