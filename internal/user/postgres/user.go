package postgres

import (
	"context"

	userdm "github.com/hendrawanp/pos-management/internal/core/datamodel/user"
	"github.com/hendrawanp/pos-management/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, tenantID, userID int64) (*user.User, error) {
	var row userdm.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("id = ? AND tenant_id = ?", userID, tenantID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return toView(&row), nil
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID int64) ([]*user.User, error) {
	var rows []userdm.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("tenant_id = ?", tenantID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		users = append(users, toView(&rows[i]))
	}
	return users, nil
}

func toView(row *userdm.User) *user.User {
	roles := make([]string, 0, len(row.Roles))
	for _, role := range row.Roles {
		roles = append(roles, role.Name)
	}
	return &user.User{
		ID:        row.ID,
		TenantID:  row.TenantID,
		Email:     row.Email,
		Name:      row.Name,
		IsActive:  row.IsActive,
		Roles:     roles,
		CreatedAt: row.CreatedAt,
	}
}
