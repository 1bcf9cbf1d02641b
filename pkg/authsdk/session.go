package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Session is an authenticated session. Authenticated calls retry once
// after a transparent refresh when the access token has gone stale, so
// callers never juggle tokens themselves.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	user         UserInfo
	accessToken  string
	refreshToken string
}

func newSession(client *SDKClient, tok TokenResponse) *Session {
	return &Session{
		client:       client,
		user:         tok.User,
		accessToken:  tok.AccessToken,
		refreshToken: tok.RefreshToken,
	}
}

// User returns the identity this session was issued for.
func (s *Session) User() UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Refresh rotates the token pair. The server revokes the old session and
// issues a replacement; the stale pair stops working immediately.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken == "" {
		return fmt.Errorf("authsdk: no refresh token available")
	}

	var out TokenResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", s.accessToken, map[string]string{
		"refresh_token": s.refreshToken,
	}, &out)
	if err != nil {
		return err
	}

	s.user = out.User
	s.accessToken = out.AccessToken
	s.refreshToken = out.RefreshToken
	return nil
}

// Logout revokes this session server-side. The token pair is dead
// afterwards; a second Logout fails with 401.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	accessToken, refreshToken := s.accessToken, s.refreshToken
	s.mu.RUnlock()

	return s.client.doJSON(ctx, http.MethodPost, "/v1/auth/logout", accessToken, map[string]string{
		"refresh_token": refreshToken,
	}, nil)
}

// ChangePassword replaces the account password, gated on the current
// one. Every other session is revoked server-side; this session remains
// usable.
func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.doAuthed(ctx, http.MethodPut, "/v1/auth/password", map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}, nil)
}

// doAuthed performs an authenticated request, retrying once through a
// refresh when the access token is rejected.
func (s *Session) doAuthed(ctx context.Context, method, path string, in, out any) error {
	err := s.client.doJSON(ctx, method, path, s.AccessToken(), in, out)
	if !IsUnauthorized(err) {
		return err
	}

	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		return err // surface the original 401, refresh failing means the session is dead
	}
	return s.client.doJSON(ctx, method, path, s.AccessToken(), in, out)
}
