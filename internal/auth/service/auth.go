package service

import (
	"context"
	"errors"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/internal/auth/store"
	"github.com/lakeridgehq/sessiond/pkg/cryptox"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// AuthService orchestrates the credential flows: password verification,
// session creation, access-token issuance, rotation, and revocation.
type AuthService struct {
	Store       store.Store
	Sessions    *SessionStore
	AccessCodec *jwtx.Codec
	Issuer      string
	AccessTTL   time.Duration
}

// Login authenticates an email/password pair and, on success, creates a
// fresh session and issues the token pair.
//
// Failure ordering matters: an unknown email and a wrong password both
// come back as ErrInvalidCredentials, while a correct password on an
// unverified account is ErrAccountInactive. Credentials are always checked
// before the active flag so the inactive message never leaks whether a
// guessed password was right for some other account.
func (s *AuthService) Login(ctx context.Context, email, password string, meta domain.ClientMeta) (*domain.LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Resolve the account. Emails are stored normalized, so the lookup
	// must normalize too or a mixed-case login would never match.
	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify the password.
	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		l.Info("login failed: wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	// 3. Reject accounts that have not completed verification.
	if !user.Active {
		l.Info("login rejected: account inactive", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	// 4. Create the session; the raw refresh token is born here.
	sess, refreshRaw, err := s.Sessions.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	// 5. Issue the access token bound to the new session.
	accessToken, err := s.signAccess(user.ID, sess.ID, now)
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", "user_id", user.ID, "session_id", sess.ID)

	return &domain.LoginResult{
		User: domain.UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshRaw,
		Message:      "login successful",
	}, nil
}

// Refresh exchanges a live refresh token for a new session and token pair.
// The presented access token may be expired; its signature establishes
// which user and session are refreshing, and the refresh token proves the
// caller actually holds the session's secret. The old session is revoked
// with reason "rotated" and linked to its replacement.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshRaw string, meta domain.ClientMeta) (*domain.LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Recover the claimed identity from the (possibly expired) access token.
	claims, err := s.AccessCodec.VerifyAllowExpired(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sub, err := jwtx.ParseSubject(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 2. Prove possession: the refresh token must match an active session
	// owned by the claimed user, and it must be the session the access
	// token was bound to.
	sess, err := s.Sessions.FindByOwnerAndToken(ctx, sub.UserID, refreshRaw)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.ID != sub.SessionID {
		return nil, ErrInvalidToken
	}

	// 3. The account must still be active.
	user, err := s.Store.Users().GetUserByID(ctx, sub.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}

	// 4. Rotate: new session in, old session revoked and linked, atomically.
	next, newRefreshRaw, err := s.Sessions.Rotate(ctx, *sess, meta)
	if err != nil {
		return nil, err
	}

	// 5. Issue a fresh access token bound to the replacement session.
	newAccessToken, err := s.signAccess(user.ID, next.ID, now)
	if err != nil {
		return nil, err
	}

	l.Info("session rotated", "user_id", user.ID, "old_session_id", sess.ID, "session_id", next.ID)

	return &domain.LoginResult{
		User: domain.UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		AccessToken:  newAccessToken,
		TokenType:    "Bearer",
		RefreshToken: newRefreshRaw,
		Message:      "token refreshed",
	}, nil
}

// Logout revokes the session matching the presented refresh token. The
// userID comes from the caller's verified bearer token. A token that no
// longer matches an active session, including one already logged out,
// fails with ErrInvalidToken.
func (s *AuthService) Logout(ctx context.Context, userID, refreshRaw string) error {
	sess, err := s.Sessions.FindByOwnerAndToken(ctx, userID, refreshRaw)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrInvalidToken
	}

	if err := s.Sessions.Revoke(ctx, sess.ID, RevokeReasonLogout); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("logout", "user_id", userID, "session_id", sess.ID)
	return nil
}

// RevokeOwnSession revokes one of the caller's sessions by id, for the
// session-management listing. Acting on someone else's session is
// ErrForbidden; an unknown id is ErrInvalidToken.
func (s *AuthService) RevokeOwnSession(ctx context.Context, userID, sessionID string) error {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if sess.UserID != userID {
		return ErrForbidden
	}

	return s.Sessions.Revoke(ctx, sess.ID, RevokeReasonRevoked)
}

// ChangePassword verifies the caller's current password, replaces the
// stored hash, and revokes every other active session so refresh tokens
// issued under the old password die with it. The calling session stays
// alive. A wrong current password is ErrInvalidCredentials.
func (s *AuthService) ChangePassword(ctx context.Context, userID, sessionID, currentPassword, newPassword string) error {
	l := slogx.FromContext(ctx)

	// 1. Resolve the account.
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	// 2. The current password gates the change.
	if !cryptox.VerifyPassword(currentPassword, user.PasswordHash) {
		l.Info("password change rejected: wrong current password", "user_id", user.ID)
		return ErrInvalidCredentials
	}

	// 3. Store the new hash.
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	// 4. Kill every other active session.
	sessions, err := s.Sessions.ListActiveForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, sess := range sessions {
		if sess.ID == sessionID {
			continue
		}
		if err := s.Sessions.Revoke(ctx, sess.ID, RevokeReasonPassword); err != nil {
			return err
		}
	}

	l.Info("password changed", "user_id", user.ID)
	return nil
}

func (s *AuthService) signAccess(userID, sessionID string, now time.Time) (string, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(
		jwtx.Subject{UserID: userID, SessionID: sessionID},
		s.Issuer, // issuer, must match the codec's verification issuer
		ttl,      // token lifetime
		now,      // current time
	)
	return s.AccessCodec.Sign(claims)
}
