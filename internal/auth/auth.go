package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	tokendm "github.com/hendrawanp/pos-management/internal/core/datamodel/token"
	userdm "github.com/hendrawanp/pos-management/internal/core/datamodel/user"
)

// WildcardLocation in AllowedLocationIDs means the user may act on every
// location in the tenant.
const WildcardLocation = "*"

// Claims carried by the access token. Verification is stateless; the user row
// is loaded downstream by the authentication middleware.
type Claims struct {
	UserID   int64 `json:"user_id"`
	TenantID int64 `json:"tenant_id"`
	jwt.RegisteredClaims
}

// AuthenticatedUser is the per-request identity attached to the context by
// the authentication middleware. Permissions and locations are recomputed on
// every request from the freshly loaded user graph.
type AuthenticatedUser struct {
	ID                 int64    `json:"id"`
	TenantID           int64    `json:"tenant_id"`
	Email              string   `json:"email"`
	Name               string   `json:"name"`
	Roles              []string `json:"roles"`
	Permissions        []string `json:"permissions"`
	AllowedLocationIDs []string `json:"allowed_location_ids"`
}

func (u *AuthenticatedUser) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAllPermissions is the superset check used by RequirePermissions: every
// required key must be present.
func (u *AuthenticatedUser) HasAllPermissions(required []string) bool {
	for _, req := range required {
		if !u.HasPermission(req) {
			return false
		}
	}
	return true
}

// MissingPermissions returns the delta logged on authorization denial.
func (u *AuthenticatedUser) MissingPermissions(required []string) []string {
	var missing []string
	for _, req := range required {
		if !u.HasPermission(req) {
			missing = append(missing, req)
		}
	}
	return missing
}

func (u *AuthenticatedUser) HasAnyRole(required []string) bool {
	for _, role := range u.Roles {
		for _, req := range required {
			if role == req {
				return true
			}
		}
	}
	return false
}

func (u *AuthenticatedUser) CanAccessLocation(locationID string) bool {
	for _, id := range u.AllowedLocationIDs {
		if id == WildcardLocation || id == locationID {
			return true
		}
	}
	return false
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

type LoginResult struct {
	User   *AuthenticatedUser `json:"user"`
	Tokens AuthTokens         `json:"-"`
}

// TokenGenerator signs and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, tenantID int64) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// ServiceAPI is the surface the HTTP handler and middleware depend on.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO, tenantID int64, ipAddress, userAgent string) (*LoginResult, error)
	Refresh(ctx context.Context, compositeToken, ipAddress, userAgent string) (*AuthTokens, error)
	Logout(ctx context.Context, compositeToken string)
	ForgotPassword(ctx context.Context, tenantID int64, email string)
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetAuthenticatedUser(ctx context.Context, userID, tenantID int64) (*AuthenticatedUser, error)
}

// RepositoryAPI loads users with their role/permission/location graph.
type RepositoryAPI interface {
	GetUserForLogin(ctx context.Context, tenantID int64, email string) (*userdm.User, error)
	GetUserWithAccess(ctx context.Context, userID, tenantID int64) (*userdm.User, error)
	GetUserByID(ctx context.Context, userID int64) (*userdm.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// TokenRepositoryAPI persists refresh and password-reset tokens. The revoke
// operations are conditional writes reporting whether this caller won the
// transition, which makes rotation exactly-once under concurrent reuse.
type TokenRepositoryAPI interface {
	CreateRefreshToken(ctx context.Context, record *tokendm.RefreshToken) error
	GetRefreshTokenByID(ctx context.Context, id string) (*tokendm.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, at time.Time) (bool, error)
	RevokeAllRefreshTokensForUser(ctx context.Context, userID int64, at time.Time) error

	CreatePasswordResetToken(ctx context.Context, record *tokendm.PasswordResetToken) error
	GetPasswordResetTokenByID(ctx context.Context, id string) (*tokendm.PasswordResetToken, error)
	MarkPasswordResetTokenUsed(ctx context.Context, id string, at time.Time) (bool, error)
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*AuthenticatedUser, bool) {
	u, ok := ctx.Value(ContextUserKey).(*AuthenticatedUser)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
