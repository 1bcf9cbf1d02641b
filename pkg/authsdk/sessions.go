package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListSessions returns the caller's active sessions, newest first. The
// one backing this Session is flagged Current.
func (s *Session) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	var out struct {
		Sessions []SessionInfo `json:"sessions"`
	}
	if err := s.doAuthed(ctx, http.MethodGet, "/v1/auth/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// RevokeSession revokes one of the caller's sessions by id. Revoking a
// session owned by another user fails with 403.
func (s *Session) RevokeSession(ctx context.Context, sessionID string) error {
	path := "/v1/auth/sessions/" + url.PathEscape(sessionID)
	return s.doAuthed(ctx, http.MethodDelete, path, nil, nil)
}
