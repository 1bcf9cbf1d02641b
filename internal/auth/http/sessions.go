package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/pkg/httpx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// SessionsHandler serves the session-management endpoints: listing the
// caller's active sessions and revoking one by id. Both operate strictly
// on the authenticated user's own sessions.
type SessionsHandler struct {
	AuthService  *service.AuthService
	SessionStore *service.SessionStore
}

type sessionInfo struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	IP         string     `json:"ip,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	DeviceName string     `json:"device_name,omitempty"`
	Current    bool       `json:"current"`
}

// HandleList serves GET /v1/auth/sessions.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	sessions, err := h.SessionStore.ListActiveForUser(ctx, id.UserID)
	if err != nil {
		log.Error("session listing failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]sessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionInfo(s, id.SessionID))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

// HandleRevoke serves DELETE /v1/auth/sessions/{id}.
func (h *SessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		httpx.Error(w, http.StatusBadRequest, "session id is required")
		return
	}

	if err := h.AuthService.RevokeOwnSession(ctx, id.UserID, sessionID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.Error(w, http.StatusForbidden, "session belongs to another user")
		case errors.Is(err, service.ErrInvalidToken):
			httpx.Error(w, http.StatusNotFound, "session not found")
		default:
			log.Error("session revocation failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "session revoked"})
}

func toSessionInfo(s domain.Session, currentID string) sessionInfo {
	return sessionInfo{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
		LastSeenAt: s.LastSeenAt,
		IP:         s.IP,
		UserAgent:  s.UserAgent,
		DeviceName: s.DeviceName,
		Current:    s.ID == currentID,
	}
}
