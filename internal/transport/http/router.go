package http

import (
	"context"
	"net/http"

	"github.com/classroom-accounts/internal/config"
	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/transport/http/handler"
	appmiddleware "github.com/classroom-accounts/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// background work of the rate limiter.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.DenyAll
	if deps.Verifier != nil {
		authMw = appmiddleware.Auth(deps.Verifier)
	}

	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustedProxies...)

	healthH := handler.NewHealthHandler(deps.Readiness, deps.Logger)
	accountH := handler.NewAccountHandler(deps.Accounts, deps.Logger)
	pwH := handler.NewPasswordRecoveryHandler(deps.Accounts, deps.Logger)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/roles", handler.ListRoles)
		r.With(sensitiveRL.Limit).Post("/accounts", accountH.Register)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)

		// ── Admin routes ─────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Get("/accounts", accountH.List)
			r.Get("/accounts/by-username/{username}", accountH.GetByUsername)
			r.Get("/accounts/{id}", accountH.Get)
			r.Put("/accounts/{id}/status", accountH.SetStatus)
		})
	})

	return r
}
