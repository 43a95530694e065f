package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recordsunit/records-backend/internal/auth"
	"github.com/recordsunit/records-backend/internal/config"
	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/transport/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Records       *RecordHandler
	Requests      *RequestHandler
	Notifications *NotificationHandler
	Activity      *ActivityHandler
	Events        *EventsHandler
	Health        *HealthHandler
}

// NewRouter assembles the middleware chain and all routes.
//
// Route protection: /health and /metrics are open, /api/v1/auth/register
// and /login are open, everything else requires a bearer token. Record
// mutations, request decisions and the activity trail are admin only.
func NewRouter(cfg *config.Config, logger *slog.Logger, jwt *auth.JWTManager, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", h.Health.Health)
	r.Get("/health/live", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwt))

			r.Get("/auth/me", h.Auth.Me)

			r.Get("/records", h.Records.List)
			r.Get("/records/{id}", h.Records.Get)

			r.Post("/requests", h.Requests.Create)
			r.Get("/requests/my", h.Requests.Mine)
			r.Get("/requests/{id}", h.Requests.Get)

			r.Get("/notifications", h.Notifications.List)
			r.Post("/notifications/read-all", h.Notifications.MarkAllRead)
			r.Post("/notifications/{id}/read", h.Notifications.MarkRead)

			r.Get("/events", h.Events.Stream)

			// Admin only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Post("/records", h.Records.Create)
				r.Put("/records/{id}", h.Records.Update)
				r.Delete("/records/{id}", h.Records.Delete)

				r.Get("/requests", h.Requests.List)
				r.Post("/requests/{id}/decide", h.Requests.Decide)
				r.Post("/requests/{id}/return", h.Requests.Return)

				r.Get("/activity", h.Activity.List)
			})
		})
	})

	return r
}
