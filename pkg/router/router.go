package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-crm/pkg/auth"
	"github.com/tendant/simple-crm/pkg/authz"
	"github.com/tendant/simple-crm/pkg/client"
	"github.com/tendant/simple-crm/pkg/controller"
	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/supplier"
	"github.com/tendant/simple-crm/pkg/telemetry"
	"github.com/tendant/simple-crm/pkg/user"
)

// APIPrefix is where every feature route is mounted
const APIPrefix = "/api/v1"

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	AuthHandle     *auth.Handle
	UserHandle     *user.Handle
	RoleHandle     *role.Handle
	ClientHandle   *client.Handle
	SupplierHandle *supplier.Handle

	Gate    *authz.Gate
	JWTAuth *jwtauth.JWTAuth

	// RateLimit wraps the sign-in routes. Nil disables limiting.
	RateLimit func(http.Handler) http.Handler

	// Metrics records per-route request counts. Nil is a no-op.
	Metrics *telemetry.Metrics
	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler

	// Ready reports whether the store can serve requests. Nil means always ready.
	Ready func(ctx context.Context) error
}

// New builds the root router with the standard middleware stack and every route mounted
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(telemetry.HTTPMetrics(cfg.Metrics))
	r.Use(controller.Recoverer)

	SetupRoutes(r, cfg)
	return r
}

// SetupRoutes mounts the health, metrics and API routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	router.Get("/readyz", readyHandler(cfg.Ready))
	if cfg.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	limit := cfg.RateLimit
	if limit == nil {
		limit = passThrough
	}
	gate := cfg.Gate

	router.Route(APIPrefix, func(r chi.Router) {
		// Public sign-in routes
		r.Mount("/auth", auth.Handler(cfg.AuthHandle, limit))

		r.Group(func(r chi.Router) {
			r.Use(authz.Authenticate(cfg.JWTAuth))

			r.With(gate.Authenticated()).Get("/me", cfg.UserHandle.Me)
			r.With(gate.Authenticated()).Get("/permissions", cfg.RoleHandle.Permissions)

			r.Mount("/users", user.Handler(cfg.UserHandle, gate.RequireAll(role.ManageUsers)))
			r.Mount("/roles", role.Handler(cfg.RoleHandle,
				gate.RequireAny(role.ManageRoles, role.ManageUsers),
				gate.RequireAll(role.ManageRoles),
			))
			r.Mount("/clients", client.Handler(cfg.ClientHandle,
				gate.RequireAny(role.ManageClients, role.ViewReports),
				gate.RequireAll(role.ManageClients),
			))
			r.Mount("/suppliers", supplier.Handler(cfg.SupplierHandle,
				gate.RequireAny(role.ManageSuppliers, role.ViewReports),
				gate.RequireAll(role.ManageSuppliers),
			))
		})
	})
}

func readyHandler(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				slog.Error("Readiness check failed", "err", err)
				render.Status(r, http.StatusServiceUnavailable)
				render.PlainText(w, r, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	}
}

func passThrough(next http.Handler) http.Handler {
	return next
}
