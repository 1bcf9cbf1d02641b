package service

import (
	"context"
	"testing"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	t.Run("creates inactive user with verification token", func(t *testing.T) {
		user, token, err := h.Reg.Register(ctx, "New User", "new@example.com", "secret")
		require.NoError(t, err)
		require.False(t, user.Active)
		require.NotEmpty(t, token)

		// The token names the registered email.
		claims, err := h.Reg.EmailCodec.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "new@example.com", claims.Subject)

		// Password never stored raw.
		stored, err := h.Store.Users().GetUserByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		require.NotEqual(t, "secret", stored.PasswordHash)
	})

	t.Run("normalizes email case", func(t *testing.T) {
		user, _, err := h.Reg.Register(ctx, "Cased", "  Cased@Example.COM ", "secret")
		require.NoError(t, err)
		require.Equal(t, "cased@example.com", user.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := h.Reg.Register(ctx, "Dup", "new@example.com", "secret")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unverified account cannot log in", func(t *testing.T) {
		_, err := h.Auth.Login(ctx, "new@example.com", "secret", domain.ClientMeta{})
		require.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, token, err := h.Reg.Register(ctx, "Verify Me", "verify@example.com", "secret")
	require.NoError(t, err)

	t.Run("activates the account", func(t *testing.T) {
		require.NoError(t, h.Reg.VerifyEmail(ctx, token))

		user, err := h.Store.Users().GetUserByEmail(ctx, "verify@example.com")
		require.NoError(t, err)
		require.True(t, user.Active)

		// Full circle: login now works.
		res, err := h.Auth.Login(ctx, "verify@example.com", "secret", domain.ClientMeta{})
		require.NoError(t, err)
		require.NotEmpty(t, res.AccessToken)
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, h.Reg.VerifyEmail(ctx, token))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		require.ErrorIs(t, h.Reg.VerifyEmail(ctx, "garbage"), ErrInvalidToken)
	})

	t.Run("rejects access tokens", func(t *testing.T) {
		// A token signed with the access secret must not verify email.
		claims := jwtx.NewEmailClaims("verify@example.com", testIssuer, time.Hour, time.Now().UTC())
		crossed, err := h.Auth.AccessCodec.Sign(claims)
		require.NoError(t, err)

		require.ErrorIs(t, h.Reg.VerifyEmail(ctx, crossed), ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := jwtx.NewEmailClaims("verify@example.com", testIssuer, -time.Minute, time.Now().UTC())
		tok, err := h.Reg.EmailCodec.Sign(expired)
		require.NoError(t, err)

		require.ErrorIs(t, h.Reg.VerifyEmail(ctx, tok), ErrInvalidToken)
	})

	t.Run("rejects token for unknown email", func(t *testing.T) {
		tok, err := h.Reg.EmailCodec.Sign(jwtx.NewEmailClaims("ghost@example.com", testIssuer, time.Hour, time.Now().UTC()))
		require.NoError(t, err)

		require.ErrorIs(t, h.Reg.VerifyEmail(ctx, tok), ErrInvalidToken)
	})
}
