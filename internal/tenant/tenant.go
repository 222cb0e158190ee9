package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tenantdm "github.com/hendrawanp/pos-management/internal/core/datamodel/tenant"
)

type RepositoryAPI interface {
	GetBySlug(ctx context.Context, slug string) (*tenantdm.Tenant, error)
}

// Resolver maps the tenant slug presented on public auth routes to a tenant
// ID. Inactive tenants resolve to nothing.
type Resolver struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewResolver(repo RepositoryAPI, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

func (r *Resolver) ResolveSlug(ctx context.Context, slug string) (int64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(slug))
	if cleaned == "" {
		return 0, fmt.Errorf("resolve tenant: empty slug")
	}

	t, err := r.repo.GetBySlug(ctx, cleaned)
	if err != nil {
		return 0, fmt.Errorf("resolve tenant %q: %w", cleaned, err)
	}
	if !t.IsActive {
		return 0, fmt.Errorf("resolve tenant %q: inactive", cleaned)
	}

	return t.ID, nil
}
