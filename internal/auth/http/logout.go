package http

import (
	"errors"
	"net/http"

	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. The caller must be
// authenticated; the refresh token in the body names the session to
// revoke. A token that no longer matches an active session, including one
// already logged out, fails with 401.
type LogoutHandler struct {
	AuthService *service.AuthService
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var req logoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpx.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	if err := h.AuthService.Logout(ctx, id.UserID, req.RefreshToken); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		default:
			log.Error("logout failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
