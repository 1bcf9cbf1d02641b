package http

import (
	"errors"
	"net/http"

	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// VerifyEmailHandler serves GET /v1/auth/verify-email?token=... and
// activates the account the token names. Re-verifying an already-active
// account succeeds again, so a double-clicked email link is harmless.
type VerifyEmailHandler struct {
	RegistrationService *service.RegistrationService
}

func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.RegistrationService.VerifyEmail(ctx, token); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		default:
			log.Error("email verification failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}
