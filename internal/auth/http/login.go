package http

import (
	"errors"
	"net/http"

	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login. A valid email/password pair
// yields the token pair; an unknown email and a wrong password produce
// the identical 401.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.AuthService.Login(ctx, req.Email, req.Password, clientMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrAccountInactive):
			httpx.Error(w, http.StatusForbidden, "account is not verified")
		default:
			log.Error("login failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}
