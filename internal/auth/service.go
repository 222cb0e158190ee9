package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/core/datamodel/token"
	"github.com/hendrawanp/pos-management/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// compositeSeparator joins the refresh-token record ID and the raw secret.
// The ID half makes validation a primary-key lookup plus one hash compare;
// there is deliberately no fallback scan over all stored hashes.
const compositeSeparator = "."

// Service implements the authentication pipeline: login, refresh-token
// rotation, logout, password reset.
type Service struct {
	users      RepositoryAPI
	tokens     TokenRepositoryAPI
	tokenGen   TokenGenerator
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewService(users RepositoryAPI, tokens TokenRepositoryAPI, tokenGen TokenGenerator, bus *events.EventBus, logger *slog.Logger, bcryptCost int, refreshTTL, resetTTL time.Duration) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if refreshTTL <= 0 {
		refreshTTL = internal.DefaultRefreshTokenTTL
	}
	if resetTTL <= 0 {
		resetTTL = internal.DefaultResetTokenTTL
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		tokenGen:   tokenGen,
		bus:        bus,
		logger:     logger,
		bcryptCost: bcryptCost,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// Authenticate validates credentials and mints the initial token pair.
// Unknown user, wrong password and inactive account all surface the same
// unauthorized error so login responses never enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO, tenantID int64, ipAddress, userAgent string) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetUserForLogin(ctx, tenantID, dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "tenant_id", tenantID, "error", err)
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "tenant_id", tenantID, "user_id", u.ID)
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		s.logger.Warn("login failed: inactive user", "tenant_id", tenantID, "user_id", u.ID)
		loginsTotal.WithLabelValues("inactive").Inc()
		return nil, internal.ErrUserInactive
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(u.ID, u.TenantID)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}

	refreshToken, err := s.issueRefreshToken(ctx, u.ID, ipAddress, userAgent)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}

	loginsTotal.WithLabelValues("success").Inc()
	s.bus.Publish(ctx, events.NewUserLoggedInEvent(u.ID, u.TenantID, ipAddress))

	return &LoginResult{
		User: BuildAuthenticatedUser(u),
		Tokens: AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

// issueRefreshToken persists a hashed secret and returns the composite
// credential "<recordID>.<rawSecret>".
func (s *Service) issueRefreshToken(ctx context.Context, userID int64, ipAddress, userAgent string) (string, error) {
	secret, err := GenerateSecureToken(DefaultTokenBytes)
	if err != nil {
		return "", err
	}

	record := &token.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: HashToken(secret),
		ExpiresAt: time.Now().Add(s.refreshTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := s.tokens.CreateRefreshToken(ctx, record); err != nil {
		return "", err
	}

	return record.ID + compositeSeparator + secret, nil
}

// validateRefreshToken resolves a composite token to its stored record. Each
// failure mode is logged distinctly but the caller always sees the same
// generic unauthorized error.
func (s *Service) validateRefreshToken(ctx context.Context, compositeToken, ipAddress string) (*token.RefreshToken, error) {
	parts := strings.Split(compositeToken, compositeSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		s.logger.Warn("refresh token rejected: invalid format")
		return nil, internal.ErrInvalidRefreshToken
	}
	recordID, secret := parts[0], parts[1]

	record, err := s.tokens.GetRefreshTokenByID(ctx, recordID)
	if err != nil {
		s.logger.Warn("refresh token rejected: record not found", "token_id", recordID, "error", err)
		return nil, internal.ErrInvalidRefreshToken
	}

	if record.RevokedAt != nil {
		// Reuse of a rotated or logged-out token is the replay signal.
		s.logger.Warn("refresh token rejected: revoked (possible replay)",
			"token_id", record.ID, "user_id", record.UserID, "revoked_at", record.RevokedAt)
		replaysTotal.Inc()
		s.bus.Publish(ctx, events.NewTokenReplayDetectedEvent(record.ID, record.UserID, ipAddress))
		return nil, internal.ErrInvalidRefreshToken
	}

	if !time.Now().Before(record.ExpiresAt) {
		s.logger.Warn("refresh token rejected: expired", "token_id", record.ID, "user_id", record.UserID)
		return nil, internal.ErrInvalidRefreshToken
	}

	if !CompareToken(secret, record.TokenHash) {
		s.logger.Warn("refresh token rejected: secret mismatch", "token_id", record.ID, "user_id", record.UserID)
		return nil, internal.ErrInvalidRefreshToken
	}

	return record, nil
}

// Refresh rotates a refresh token: the old record is revoked before the
// replacement is issued, so a replay arriving after the rotation always sees
// the revoked state. The revocation is a conditional write; if another
// rotation of the same token won the race, this one fails without issuing a
// second valid successor.
func (s *Service) Refresh(ctx context.Context, compositeToken, ipAddress, userAgent string) (*AuthTokens, error) {
	record, err := s.validateRefreshToken(ctx, compositeToken, ipAddress)
	if err != nil {
		rotationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	won, err := s.tokens.RevokeRefreshToken(ctx, record.ID, time.Now())
	if err != nil {
		rotationsTotal.WithLabelValues("error").Inc()
		return nil, internal.NewInternalError("failed to revoke refresh token", err)
	}
	if !won {
		s.logger.Warn("refresh token rotation lost race", "token_id", record.ID, "user_id", record.UserID)
		rotationsTotal.WithLabelValues("rejected").Inc()
		return nil, internal.ErrInvalidRefreshToken
	}

	// From here on the old token is gone. Failures below force a re-login
	// rather than leaving a valid-but-orphaned credential behind.
	u, err := s.users.GetUserByID(ctx, record.UserID)
	if err != nil {
		s.logger.Warn("refresh rejected: user lookup after revocation", "user_id", record.UserID, "error", err)
		rotationsTotal.WithLabelValues("rejected").Inc()
		return nil, internal.ErrInvalidRefreshToken
	}
	if !u.IsActive {
		s.logger.Warn("refresh rejected: inactive user", "user_id", u.ID)
		rotationsTotal.WithLabelValues("rejected").Inc()
		return nil, internal.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(u.ID, u.TenantID)
	if err != nil {
		rotationsTotal.WithLabelValues("error").Inc()
		return nil, internal.NewInternalError("failed to issue access token", err)
	}

	newRefreshToken, err := s.issueRefreshToken(ctx, u.ID, ipAddress, userAgent)
	if err != nil {
		rotationsTotal.WithLabelValues("error").Inc()
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}

	rotationsTotal.WithLabelValues("success").Inc()

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token. It never reports failure:
// client-side credential clearing must always appear to succeed, even for a
// token that is already invalid, expired or missing.
func (s *Service) Logout(ctx context.Context, compositeToken string) {
	if compositeToken == "" {
		return
	}

	record, err := s.validateRefreshToken(ctx, compositeToken, "")
	if err != nil {
		s.logger.Debug("logout with invalid refresh token", "error", err)
		return
	}

	if _, err := s.tokens.RevokeRefreshToken(ctx, record.ID, time.Now()); err != nil {
		s.logger.Error("logout failed to revoke refresh token", "token_id", record.ID, "error", err)
	}
}

// ForgotPassword creates a single-use reset token and hands it to the mail
// subscriber. The caller always gets the same generic outcome whether or not
// the email exists, so the endpoint cannot be used for account enumeration.
func (s *Service) ForgotPassword(ctx context.Context, tenantID int64, email string) {
	u, err := s.users.GetUserForLogin(ctx, tenantID, email)
	if err != nil {
		s.logger.Info("forgot-password for unknown email", "tenant_id", tenantID)
		return
	}
	if !u.IsActive {
		s.logger.Info("forgot-password for inactive user", "tenant_id", tenantID, "user_id", u.ID)
		return
	}

	secret, err := GenerateSecureToken(DefaultTokenBytes)
	if err != nil {
		s.logger.Error("forgot-password token generation failed", "user_id", u.ID, "error", err)
		return
	}

	record := &token.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: HashToken(secret),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}

	// Creating a new token drops any prior unused ones for the user.
	if err := s.tokens.CreatePasswordResetToken(ctx, record); err != nil {
		s.logger.Error("forgot-password token persistence failed", "user_id", u.ID, "error", err)
		return
	}

	rawToken := record.ID + compositeSeparator + secret
	s.bus.Publish(ctx, events.NewPasswordResetRequestedEvent(u.ID, u.Email, u.Name, rawToken))
}

// ResetPassword consumes a reset token, updates the password and revokes
// every outstanding refresh token for the user.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	parts := strings.Split(dto.Token, compositeSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		s.logger.Warn("reset token rejected: invalid format")
		return internal.ErrInvalidResetToken
	}
	recordID, secret := parts[0], parts[1]

	record, err := s.tokens.GetPasswordResetTokenByID(ctx, recordID)
	if err != nil {
		s.logger.Warn("reset token rejected: record not found", "token_id", recordID, "error", err)
		return internal.ErrInvalidResetToken
	}

	now := time.Now()
	if !record.Usable(now) {
		s.logger.Warn("reset token rejected: used or expired", "token_id", record.ID, "user_id", record.UserID)
		return internal.ErrInvalidResetToken
	}

	if !CompareToken(secret, record.TokenHash) {
		s.logger.Warn("reset token rejected: secret mismatch", "token_id", record.ID, "user_id", record.UserID)
		return internal.ErrInvalidResetToken
	}

	used, err := s.tokens.MarkPasswordResetTokenUsed(ctx, record.ID, now)
	if err != nil {
		return internal.NewInternalError("failed to consume reset token", err)
	}
	if !used {
		s.logger.Warn("reset token rejected: concurrent use", "token_id", record.ID)
		return internal.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, record.UserID, string(hash)); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	// A reset invalidates every session the old password may have opened.
	if err := s.tokens.RevokeAllRefreshTokensForUser(ctx, record.UserID, now); err != nil {
		return internal.NewInternalError("failed to revoke refresh tokens", err)
	}

	s.bus.Publish(ctx, events.NewPasswordResetCompletedEvent(record.UserID))
	return nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateAccessToken(tokenString)
}

// GetAuthenticatedUser loads the user by the (userID, tenantID) pair from the
// token claims. A tenant mismatch or inactive account simply finds no row and
// fails closed.
func (s *Service) GetAuthenticatedUser(ctx context.Context, userID, tenantID int64) (*AuthenticatedUser, error) {
	u, err := s.users.GetUserWithAccess(ctx, userID, tenantID)
	if err != nil {
		s.logger.Warn("authenticated user load failed", "user_id", userID, "tenant_id", tenantID, "error", err)
		return nil, internal.ErrAuthFailed
	}
	return BuildAuthenticatedUser(u), nil
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
