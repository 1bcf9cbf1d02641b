package service

import (
	"context"
	"testing"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "login@example.com", "secret")

	t.Run("success", func(t *testing.T) {
		res, err := h.Auth.Login(ctx, "login@example.com", "secret", domain.ClientMeta{IP: "198.51.100.1"})
		require.NoError(t, err)
		require.Equal(t, u.ID, res.User.ID)
		require.Equal(t, "Bearer", res.TokenType)
		require.NotEmpty(t, res.AccessToken)
		require.NotEmpty(t, res.RefreshToken)

		// The access token carries the user and the freshly created session.
		claims, err := h.Auth.AccessCodec.Verify(res.AccessToken)
		require.NoError(t, err)
		sub, err := jwtx.ParseSubject(claims.Subject)
		require.NoError(t, err)
		require.Equal(t, u.ID, sub.UserID)

		ok, err := h.Sessions.IsSessionActive(ctx, u.ID, sub.SessionID)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("two logins create distinct sessions", func(t *testing.T) {
		a, err := h.Auth.Login(ctx, "login@example.com", "secret", domain.ClientMeta{})
		require.NoError(t, err)
		b, err := h.Auth.Login(ctx, "login@example.com", "secret", domain.ClientMeta{})
		require.NoError(t, err)

		require.NotEqual(t, a.RefreshToken, b.RefreshToken)

		subA := mustSubject(t, h, a.AccessToken)
		subB := mustSubject(t, h, b.AccessToken)
		require.NotEqual(t, subA.SessionID, subB.SessionID)

		// Both remain independently usable.
		for _, sub := range []jwtx.Subject{subA, subB} {
			ok, err := h.Sessions.IsSessionActive(ctx, u.ID, sub.SessionID)
			require.NoError(t, err)
			require.True(t, ok)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := h.Auth.Login(ctx, "login@example.com", "wrong", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := h.Auth.Login(ctx, "nobody@example.com", "secret", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account with correct password", func(t *testing.T) {
		h.createInactiveUser(t, "pending@example.com", "secret")

		_, err := h.Auth.Login(ctx, "pending@example.com", "secret", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("inactive account with wrong password", func(t *testing.T) {
		_, err := h.Auth.Login(ctx, "pending@example.com", "wrong", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidCredentials, "credentials are checked before the active flag")
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "logout@example.com", "secret")

	res, err := h.Auth.Login(ctx, "logout@example.com", "secret", domain.ClientMeta{})
	require.NoError(t, err)

	t.Run("first logout succeeds", func(t *testing.T) {
		require.NoError(t, h.Auth.Logout(ctx, u.ID, res.RefreshToken))
	})

	t.Run("repeat logout with same token fails", func(t *testing.T) {
		err := h.Auth.Logout(ctx, u.ID, res.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown token fails", func(t *testing.T) {
		err := h.Auth.Logout(ctx, u.ID, "never-issued")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("someone else's token fails", func(t *testing.T) {
		other := h.createUser(t, "logout-other@example.com", "secret")
		res2, err := h.Auth.Login(ctx, "logout-other@example.com", "secret", domain.ClientMeta{})
		require.NoError(t, err)

		require.ErrorIs(t, h.Auth.Logout(ctx, u.ID, res2.RefreshToken), ErrInvalidToken)

		// Still usable by its owner.
		require.NoError(t, h.Auth.Logout(ctx, other.ID, res2.RefreshToken))
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "refresh@example.com", "secret")

	res, err := h.Auth.Login(ctx, "refresh@example.com", "secret", domain.ClientMeta{})
	require.NoError(t, err)
	oldSub := mustSubject(t, h, res.AccessToken)

	next, err := h.Auth.Refresh(ctx, res.AccessToken, res.RefreshToken, domain.ClientMeta{DeviceName: "phone"})
	require.NoError(t, err)

	t.Run("issues a fresh pair", func(t *testing.T) {
		require.NotEmpty(t, next.AccessToken)
		require.NotEqual(t, res.RefreshToken, next.RefreshToken)

		newSub := mustSubject(t, h, next.AccessToken)
		require.Equal(t, u.ID, newSub.UserID)
		require.NotEqual(t, oldSub.SessionID, newSub.SessionID)

		ok, err := h.Sessions.IsSessionActive(ctx, u.ID, newSub.SessionID)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("old session revoked with lineage", func(t *testing.T) {
		row, err := h.Store.Sessions().GetSessionByID(ctx, oldSub.SessionID)
		require.NoError(t, err)
		require.True(t, row.Revoked)
		require.Equal(t, RevokeReasonRotated, row.RevokeReason)
		require.NotEmpty(t, row.ReplacedBy)
	})

	t.Run("old refresh token no longer usable", func(t *testing.T) {
		_, err := h.Auth.Refresh(ctx, res.AccessToken, res.RefreshToken, domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage access token", func(t *testing.T) {
		_, err := h.Auth.Refresh(ctx, "not.a.jwt", next.RefreshToken, domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("mismatched refresh token", func(t *testing.T) {
		_, err := h.Auth.Refresh(ctx, next.AccessToken, "never-issued", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshWithExpiredAccessToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "stale@example.com", "secret")

	res, err := h.Auth.Login(ctx, "stale@example.com", "secret", domain.ClientMeta{})
	require.NoError(t, err)
	sub := mustSubject(t, h, res.AccessToken)

	// Forge an already-expired access token for the same session. Same
	// secret, same issuer, exp in the past.
	expiredClaims := jwtx.NewAccessClaims(sub, testIssuer, -time.Minute, time.Now().UTC().Add(-time.Hour))
	expiredToken, err := h.Auth.AccessCodec.Sign(expiredClaims)
	require.NoError(t, err)

	_, err = h.Auth.AccessCodec.Verify(expiredToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	next, err := h.Auth.Refresh(ctx, expiredToken, res.RefreshToken, domain.ClientMeta{})
	require.NoError(t, err, "expired access token must still allow refresh")
	require.NotEmpty(t, next.RefreshToken)

	require.Equal(t, u.ID, mustSubject(t, h, next.AccessToken).UserID)
}

func TestRevokeOwnSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "own@example.com", "secret")
	other := h.createUser(t, "own-other@example.com", "secret")

	res, err := h.Auth.Login(ctx, "own@example.com", "secret", domain.ClientMeta{})
	require.NoError(t, err)
	sub := mustSubject(t, h, res.AccessToken)

	t.Run("foreign session is forbidden", func(t *testing.T) {
		err := h.Auth.RevokeOwnSession(ctx, other.ID, sub.SessionID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner revokes", func(t *testing.T) {
		require.NoError(t, h.Auth.RevokeOwnSession(ctx, u.ID, sub.SessionID))

		ok, err := h.Sessions.IsSessionActive(ctx, u.ID, sub.SessionID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown session id", func(t *testing.T) {
		err := h.Auth.RevokeOwnSession(ctx, u.ID, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLoginEmailNormalization(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// Registration stores the email lowercased; logging in with the exact
	// mixed-case string the user originally typed must still match.
	user, token, err := h.Reg.Register(ctx, "Mixed", "Mixed@Example.com", "pass-word-1")
	require.NoError(t, err)
	require.Equal(t, "mixed@example.com", user.Email)
	require.NoError(t, h.Reg.VerifyEmail(ctx, token))

	res, err := h.Auth.Login(ctx, "Mixed@Example.com", "pass-word-1", domain.ClientMeta{})
	require.NoError(t, err)
	require.Equal(t, user.ID, res.User.ID)

	// Whitespace and full upper-case normalize the same way.
	_, err = h.Auth.Login(ctx, "  MIXED@EXAMPLE.COM ", "pass-word-1", domain.ClientMeta{})
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "p@example.com", "old-password")

	caller, err := h.Auth.Login(ctx, "p@example.com", "old-password", domain.ClientMeta{})
	require.NoError(t, err)
	callerSub := mustSubject(t, h, caller.AccessToken)

	other, err := h.Auth.Login(ctx, "p@example.com", "old-password", domain.ClientMeta{})
	require.NoError(t, err)
	otherSub := mustSubject(t, h, other.AccessToken)

	t.Run("wrong current password is rejected", func(t *testing.T) {
		err := h.Auth.ChangePassword(ctx, u.ID, callerSub.SessionID, "not-the-password", "new-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		// Hash untouched.
		_, err = h.Auth.Login(ctx, "p@example.com", "old-password", domain.ClientMeta{})
		require.NoError(t, err)
	})

	t.Run("change swaps the hash and keeps only the calling session", func(t *testing.T) {
		require.NoError(t, h.Auth.ChangePassword(ctx, u.ID, callerSub.SessionID, "old-password", "new-password"))

		_, err := h.Auth.Login(ctx, "p@example.com", "old-password", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = h.Auth.Login(ctx, "p@example.com", "new-password", domain.ClientMeta{})
		require.NoError(t, err)

		active, err := h.Sessions.IsSessionActive(ctx, u.ID, callerSub.SessionID)
		require.NoError(t, err)
		require.True(t, active, "the calling session survives")

		active, err = h.Sessions.IsSessionActive(ctx, u.ID, otherSub.SessionID)
		require.NoError(t, err)
		require.False(t, active, "every other session is revoked")

		revoked, err := h.Store.Sessions().GetSessionByID(ctx, otherSub.SessionID)
		require.NoError(t, err)
		require.True(t, revoked.Revoked)
		require.Equal(t, RevokeReasonPassword, revoked.RevokeReason)
	})
}

// End-to-end credential scenario.
func TestLoginLogoutScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "u@example.com", "secret")

	res, err := h.Auth.Login(ctx, "u@example.com", "secret", domain.ClientMeta{})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	_, err = h.Auth.Login(ctx, "u@example.com", "wrong", domain.ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, h.Auth.Logout(ctx, u.ID, res.RefreshToken))
	require.ErrorIs(t, h.Auth.Logout(ctx, u.ID, res.RefreshToken), ErrInvalidToken)
}

func mustSubject(t *testing.T, h *harness, accessToken string) jwtx.Subject {
	t.Helper()

	claims, err := h.Auth.AccessCodec.Verify(accessToken)
	require.NoError(t, err)
	sub, err := jwtx.ParseSubject(claims.Subject)
	require.NoError(t, err)
	return sub
}
