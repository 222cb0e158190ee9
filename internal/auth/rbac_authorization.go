package auth

import (
	"log/slog"
	"net/http"

	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/transport"
)

// RBACAuthorization builds per-route guards checked after AuthMiddleware.
// Invoking a guard without a preceding authenticated context is a wiring bug
// and surfaces as an internal error, not an authorization failure.
type RBACAuthorization struct {
	base   *transport.BaseHandler
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger, production bool) *RBACAuthorization {
	base := transport.NewBaseHandler(logger)
	base.Production = production
	return &RBACAuthorization{
		base:   base,
		logger: logger,
	}
}

// RequirePermissions passes only when the effective permission set covers
// every listed key (AND semantics).
func (ra *RBACAuthorization) RequirePermissions(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.base.WriteAppError(w, internal.ErrMissingAuthContext)
				return
			}

			if !user.HasAllPermissions(required) {
				ra.logger.Warn("access denied: missing permissions",
					"user_id", user.ID,
					"tenant_id", user.TenantID,
					"required_permissions", required,
					"missing_permissions", user.MissingPermissions(required))
				authzDenialsTotal.Inc()
				ra.base.WriteAppError(w, internal.ErrInsufficientPermissions)
				return
			}

			ra.logger.Debug("permission check passed",
				"user_id", user.ID,
				"tenant_id", user.TenantID,
				"required_permissions", required)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole passes when the user holds at least one of the listed roles
// (OR semantics).
func (ra *RBACAuthorization) RequireAnyRole(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.base.WriteAppError(w, internal.ErrMissingAuthContext)
				return
			}

			if !user.HasAnyRole(required) {
				ra.logger.Warn("access denied: missing role",
					"user_id", user.ID,
					"tenant_id", user.TenantID,
					"required_roles", required,
					"user_roles", user.Roles)
				authzDenialsTotal.Inc()
				ra.base.WriteAppError(w, internal.ErrMissingRole)
				return
			}

			ra.logger.Debug("role check passed",
				"user_id", user.ID,
				"tenant_id", user.TenantID,
				"required_roles", required)
			next.ServeHTTP(w, r)
		})
	}
}
