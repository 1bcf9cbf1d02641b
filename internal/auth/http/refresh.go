package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh. The Authorization header
// carries the access token, which may be expired; the body carries the
// refresh token proving possession of the session. Success rotates the
// session and returns a fresh pair.
type RefreshHandler struct {
	AuthService *service.AuthService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	accessToken := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpx.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	result, err := h.AuthService.Refresh(ctx, accessToken, req.RefreshToken, clientMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		case errors.Is(err, service.ErrAccountInactive):
			httpx.Error(w, http.StatusForbidden, "account is not verified")
		default:
			log.Error("refresh failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}
