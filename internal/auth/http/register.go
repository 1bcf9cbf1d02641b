package http

import (
	"errors"
	"net/http"

	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register. New accounts start
// inactive until the verification token comes back through the
// verify-email endpoint. Mail delivery is owned by an upstream service;
// the verification token rides back in the response for it to send.
type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
	Message           string `json:"message"`
}

const minPasswordLength = 8

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		httpx.Error(w, http.StatusBadRequest, "password is too short")
		return
	}

	user, token, err := h.RegistrationService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.Error(w, http.StatusConflict, "email is already registered")
		default:
			log.Error("registration failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		UserID:            user.ID,
		Email:             user.Email,
		VerificationToken: token,
		Message:           "verification required",
	})
}
