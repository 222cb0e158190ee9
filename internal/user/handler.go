package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/auth"
	"github.com/hendrawanp/pos-management/internal/transport"
	"github.com/hendrawanp/pos-management/pkg/logger"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, tenantID, userID int64) (*User, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me. The middleware already computed the
// effective permissions and locations; they are echoed back alongside the
// stored profile.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteAppError(w, internal.ErrMissingAuthContext)
		return
	}

	u, err := h.Service.GetByID(r.Context(), authUser.TenantID, authUser.ID)
	if err != nil {
		h.Logger.Error("failed to load current user", "user_id", authUser.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, Profile{
		User:               *u,
		Permissions:        authUser.Permissions,
		AllowedLocationIDs: authUser.AllowedLocationIDs,
	})
}

// ListUsers handles GET /users, guarded by the user:read permission.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, err := internal.GetTenantID(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	users, err := h.Service.ListByTenant(r.Context(), tenantID)
	if err != nil {
		h.Logger.Error("failed to list users", "tenant_id", tenantID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
