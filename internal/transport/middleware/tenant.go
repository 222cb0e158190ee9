package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/transport"
)

// TenantResolver maps a tenant slug from the X-Tenant-ID header to a tenant
// ID. Used on the public auth routes where no access token exists yet.
type TenantResolver interface {
	ResolveSlug(ctx context.Context, slug string) (int64, error)
}

// ResolveTenant establishes tenant identity for unauthenticated routes.
// Authenticated routes get their tenant from the access-token claims instead.
func ResolveTenant(resolver TenantResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := strings.TrimSpace(r.Header.Get("X-Tenant-ID"))
			if slug == "" {
				base.WriteAppError(w, internal.ErrUnknownTenant)
				return
			}

			tenantID, err := resolver.ResolveSlug(r.Context(), slug)
			if err != nil {
				logger.Warn("tenant resolution failed", "slug", slug, "error", err)
				base.WriteAppError(w, internal.ErrUnknownTenant)
				return
			}

			ctx := internal.ContextWithTenantID(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnsureTenantContext asserts tenant identity was already established. It
// should be structurally impossible to reach a tenant-scoped route without
// it, so absence is treated as a wiring bug and answered with 500.
func EnsureTenantContext(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := internal.TenantIDFromContext(r.Context()); !ok {
				base.WriteAppError(w, internal.ErrMissingTenantContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
