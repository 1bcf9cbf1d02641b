package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("produces self-describing bcrypt hash", func(t *testing.T) {
		hash, err := HashPasswordCost("secret", MinCost)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$2"))
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		h1, err := HashPasswordCost("secret", MinCost)
		require.NoError(t, err)
		h2, err := HashPasswordCost("secret", MinCost)
		require.NoError(t, err)
		require.NotEqual(t, h1, h2)
	})

	t.Run("rejects out-of-range cost", func(t *testing.T) {
		_, err := HashPasswordCost("secret", MaxCost+1)
		require.Error(t, err)
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPasswordCost("secret", MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", "secret", hash, true},
		{"wrong password", "wrong", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", "secret", "", false},
		{"malformed hash", "secret", "not-a-bcrypt-hash", false},
		{"truncated hash", "secret", hash[:10], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, VerifyPassword(tt.password, tt.hash))
		})
	}
}

func TestVerifyPasswordAgainstForeignHash(t *testing.T) {
	t.Parallel()

	h1, err := HashPasswordCost("secret", MinCost)
	require.NoError(t, err)
	h2, err := HashPasswordCost("other", MinCost)
	require.NoError(t, err)

	require.True(t, VerifyPassword("secret", h1))
	require.False(t, VerifyPassword("secret", h2))
}
