package auth

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/transport"
	"github.com/hendrawanp/pos-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI

	cookieName    string
	cookieMaxAge  time.Duration
	secureCookies bool
}

func NewHandler(svc ServiceAPI, cookieName string, cookieMaxAge time.Duration, secureCookies bool) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	base := transport.NewBaseHandler(lg)
	base.Production = secureCookies
	return &Handler{
		BaseHandler:   base,
		Service:       svc,
		cookieName:    cookieName,
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

type loginResponse struct {
	User        *AuthenticatedUser `json:"user"`
	AccessToken string             `json:"access_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenantID, err := internal.GetTenantID(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto, tenantID, clientIP(r), r.UserAgent())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken)
	h.WriteJSON(w, http.StatusOK, loginResponse{
		User:        result.User,
		AccessToken: result.Tokens.AccessToken,
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil || cookie.Value == "" {
		h.WriteAppError(w, internal.ErrInvalidRefreshToken)
		return
	}

	tokens, err := h.Service.Refresh(r.Context(), cookie.Value, clientIP(r), r.UserAgent())
	if err != nil {
		h.clearRefreshCookie(w)
		h.WriteAppError(w, err)
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)
	h.WriteJSON(w, http.StatusOK, refreshResponse{AccessToken: tokens.AccessToken})
}

// Logout always succeeds from the client's point of view; the cookie is
// cleared even when the presented token is invalid or missing.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		h.Service.Logout(r.Context(), cookie.Value)
	}

	h.clearRefreshCookie(w)
	h.WriteJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// ForgotPassword returns the same generic response whether or not the email
// matches an account.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	tenantID, err := internal.GetTenantID(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.Service.ForgotPassword(r.Context(), tenantID, dto.Email)
	h.WriteJSON(w, http.StatusOK, messageResponse{Message: "if the email exists, a reset link has been sent"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, messageResponse{Message: "password has been reset"})
}

// AuthMiddleware is the per-request gate: it verifies the bearer token, loads
// the user with roles, permissions and location grants, and attaches the
// authenticated context plus tenant ID for downstream handlers.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.ExtractTokenFromHeader(r)
		if tokenString == "" {
			h.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(tokenString)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}

		// The tenant embedded in the token must still match the user row;
		// the lookup fails closed on any mismatch or inactive account.
		user, err := h.Service.GetAuthenticatedUser(r.Context(), claims.UserID, claims.TenantID)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}

		h.Logger.Debug("request authenticated", "user_id", user.ID, "tenant_id", user.TenantID)

		ctx := ContextWithUser(r.Context(), user)
		ctx = internal.ContextWithTenantID(ctx, user.TenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
