package postgres

import (
	"context"

	tenantdm "github.com/hendrawanp/pos-management/internal/core/datamodel/tenant"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*tenantdm.Tenant, error) {
	var t tenantdm.Tenant
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
