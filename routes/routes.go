package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upb/event-admin-api/app"
	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	if cfg.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	gate := deps.Gate

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", deps.AuthHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Post("/auth/logout", deps.AuthHandler.HandleLogout)
		})

		// /me always reflects the stored account; /session only the token
		r.With(gate.Require(middleware.ModeResolved)).Get("/me", deps.IdentityHandler.HandleMe)
		r.With(gate.Require(middleware.ModeClaim)).Get("/session", deps.IdentityHandler.HandleSession)

		// Account administration checks the stored role and status, not the token's
		r.Route("/accounts", func(r chi.Router) {
			r.Use(gate.Require(middleware.ModeResolved))
			r.Use(gate.RequireRole("admin"))
			r.Post("/", deps.AccountHandler.HandleCreateAccount)
			r.Patch("/{id}/role", deps.AccountHandler.HandleUpdateRole)
			r.Patch("/{id}/status", deps.AccountHandler.HandleUpdateStatus)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
