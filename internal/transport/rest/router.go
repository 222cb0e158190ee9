package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/auth"
	"github.com/hendrawanp/pos-management/internal/transport/middleware"
	"github.com/hendrawanp/pos-management/internal/transport/swagger"
	"github.com/hendrawanp/pos-management/internal/user"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps carries everything the route table needs. Constructed once at
// startup and passed in explicitly; no package-level singletons.
type RouterDeps struct {
	Config         *internal.Config
	DB             *sql.DB
	AuthHandler    *auth.Handler
	RBAC           *auth.RBACAuthorization
	TenantResolver middleware.TenantResolver
	UserHandler    *user.Handler
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)

	router.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))

	if deps.Config.Observability.Metrics.Enabled {
		router.Use(middleware.Metrics)
		router.Handle(deps.Config.Observability.Metrics.Path, promhttp.Handler())
	}

	// OpenAPI spec and Swagger UI at the root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public auth routes. Tenant identity comes from the X-Tenant-ID
		// header here; authenticated routes derive it from token claims.
		r.Route("/auth", func(sr chi.Router) {
			sr.Use(middleware.ResolveTenant(deps.TenantResolver, deps.Logger))
			sr.Post("/login", deps.AuthHandler.Login)
			sr.Post("/forgot-password", deps.AuthHandler.ForgotPassword)
			sr.Post("/reset-password", deps.AuthHandler.ResetPassword)
		})

		// Refresh and logout read the refresh cookie; no tenant header needed.
		r.Post("/auth/refresh-token", deps.AuthHandler.RefreshToken)
		r.Post("/auth/logout", deps.AuthHandler.Logout)

		// Tenant-scoped routes: authenticate, then assert tenant resolution.
		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)
			pr.Use(middleware.EnsureTenantContext(deps.Logger))

			pr.Get("/users/me", deps.UserHandler.GetCurrentUser)

			pr.Group(func(ar chi.Router) {
				ar.Use(deps.RBAC.RequirePermissions("user:read"))
				ar.Get("/users", deps.UserHandler.ListUsers)
			})
		})
	})
}
