package token

import "time"

// RefreshToken stores only the hash of the secret. The ID is half of the
// composite credential "<id>.<secret>" handed to clients, so validation is a
// primary-key lookup plus one hash comparison.
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;column:id"`
	UserID    int64      `gorm:"column:user_id;index;not null"`
	TokenHash string     `gorm:"column:token_hash;not null"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	IPAddress string     `gorm:"column:ip_address"`
	UserAgent string     `gorm:"column:user_agent"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Active reports whether the token is still usable at the given instant.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// PasswordResetToken is single-use: UsedAt is set exactly once on a
// successful reset. Requesting a new token deletes prior unused ones.
type PasswordResetToken struct {
	ID        string     `gorm:"primaryKey;column:id"`
	UserID    int64      `gorm:"column:user_id;index;not null"`
	TokenHash string     `gorm:"column:token_hash;not null"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
