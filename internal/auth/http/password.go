package http

import (
	"errors"
	"net/http"

	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// PasswordHandler serves PUT /v1/auth/password. The caller must be
// authenticated and must present their current password; success replaces
// the hash and revokes every other session, leaving only the calling one.
type PasswordHandler struct {
	AuthService *service.AuthService
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var req passwordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.Error(w, http.StatusBadRequest, "current_password and new_password are required")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		httpx.Error(w, http.StatusBadRequest, "password is too short")
		return
	}

	err := h.AuthService.ChangePassword(ctx, id.UserID, id.SessionID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.Error(w, http.StatusForbidden, "current password is incorrect")
		case errors.Is(err, service.ErrInvalidToken):
			httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		default:
			log.Error("password change failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
