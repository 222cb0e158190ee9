package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	contextTenantKey ctxKey = "tenantID"
)

// TenantIDFromContext reports the tenant established by the tenant middleware.
func TenantIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	if tenantID, ok := ctx.Value(contextTenantKey).(int64); ok {
		return tenantID, true
	}
	return 0, false
}

// GetTenantID returns the resolved tenant or a programming error. Reaching a
// tenant-scoped handler without tenant resolution is a wiring bug, never a
// client condition.
func GetTenantID(ctx context.Context) (int64, error) {
	tenantID, ok := TenantIDFromContext(ctx)
	if !ok {
		return 0, ErrMissingTenantContext
	}
	return tenantID, nil
}

func ContextWithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, contextTenantKey, tenantID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
