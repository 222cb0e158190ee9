package postgres

import (
	"context"
	"time"

	tokendm "github.com/hendrawanp/pos-management/internal/core/datamodel/token"
	userdm "github.com/hendrawanp/pos-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// UserRepository loads users with the role/permission/location graph in one
// eager query; the projection to an effective permission set happens
// in-memory so it stays unit-testable without a database.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Locations")
}

// GetUserForLogin does not filter on is_active: the service checks the flag
// itself so inactive accounts are logged distinctly while the client sees
// the same credentials error.
func (r *UserRepository) GetUserForLogin(ctx context.Context, tenantID int64, email string) (*userdm.User, error) {
	var u userdm.User
	err := r.withGraph(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserWithAccess requires the tenant embedded in the token to match the
// user's row. A moved user or forged tenant claim finds nothing.
func (r *UserRepository) GetUserWithAccess(ctx context.Context, userID, tenantID int64) (*userdm.User, error) {
	var u userdm.User
	err := r.withGraph(ctx).
		Where("id = ? AND tenant_id = ? AND is_active = ?", userID, tenantID, true).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID int64) (*userdm.User, error) {
	var u userdm.User
	err := r.withGraph(ctx).
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&userdm.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}

// TokenRepository persists refresh and password-reset tokens. Revocation is a
// conditional update on revoked_at IS NULL; the rows-affected count tells the
// caller whether it won the transition, which keeps rotation exactly-once
// under concurrent reuse of the same token.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) CreateRefreshToken(ctx context.Context, record *tokendm.RefreshToken) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *TokenRepository) GetRefreshTokenByID(ctx context.Context, id string) (*tokendm.RefreshToken, error) {
	var record tokendm.RefreshToken
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, id string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&tokendm.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *TokenRepository) RevokeAllRefreshTokensForUser(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&tokendm.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error
}

// CreatePasswordResetToken enforces the single-active-token policy: prior
// unused tokens for the user are dropped in the same transaction.
func (r *TokenRepository) CreatePasswordResetToken(ctx context.Context, record *tokendm.PasswordResetToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND used_at IS NULL", record.UserID).
			Delete(&tokendm.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}

func (r *TokenRepository) GetPasswordResetTokenByID(ctx context.Context, id string) (*tokendm.PasswordResetToken, error) {
	var record tokendm.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TokenRepository) MarkPasswordResetTokenUsed(ctx context.Context, id string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&tokendm.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
