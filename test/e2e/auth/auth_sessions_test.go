package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lakeridgehq/sessiond/pkg/authsdk"
)

func TestSessionManagement(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	ts.registerVerified(t, "Dave", "dave@example.com")
	ts.registerVerified(t, "Mallory", "mallory@example.com")

	t.Run("listing shows every active session and flags the caller's", func(t *testing.T) {
		first := ts.loginSession(t, "dave@example.com")
		second := ts.loginSession(t, "dave@example.com")

		list, err := second.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)

		current := 0
		for _, s := range list {
			if s.Current {
				current++
			}
		}
		require.Equal(t, 1, current, "exactly one session is the caller's own")

		require.NoError(t, first.Logout(ctx))
		require.NoError(t, second.Logout(ctx))
	})

	t.Run("revoking another device's session kills its tokens", func(t *testing.T) {
		phone := ts.loginSession(t, "dave@example.com")
		laptop := ts.loginSession(t, "dave@example.com")

		list, err := laptop.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)

		var other string
		for _, s := range list {
			if !s.Current {
				other = s.ID
			}
		}
		require.NotEmpty(t, other)

		require.NoError(t, laptop.RevokeSession(ctx, other))

		list, err = laptop.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.True(t, list[0].Current)

		// The revoked device is locked out.
		_, err = phone.ListSessions(ctx)
		require.True(t, authsdk.IsUnauthorized(err))

		require.NoError(t, laptop.Logout(ctx))
	})

	t.Run("cannot revoke another user's session", func(t *testing.T) {
		victim := ts.loginSession(t, "dave@example.com")
		attacker := ts.loginSession(t, "mallory@example.com")

		victimList, err := victim.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, victimList, 1)

		err = attacker.RevokeSession(ctx, victimList[0].ID)
		require.True(t, authsdk.IsForbidden(err))

		// The victim's session is untouched.
		_, err = victim.ListSessions(ctx)
		require.NoError(t, err)
	})

	t.Run("revoking an unknown session id is a 404", func(t *testing.T) {
		sess := ts.loginSession(t, "dave@example.com")
		err := sess.RevokeSession(ctx, "2c02cb2e-54d9-43a1-9b3f-000000000000")
		requireStatus(t, err, http.StatusNotFound)
	})
}
