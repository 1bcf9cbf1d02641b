package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/internal/auth/store/drivers/sqlite"
	"github.com/lakeridgehq/sessiond/pkg/cryptox"
	"github.com/lakeridgehq/sessiond/pkg/idx"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

const testIssuer = "sessiond-test"

type harness struct {
	Store    *sqlite.Store
	Sessions *SessionStore
	Auth     *AuthService
	Reg      *RegistrationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	accessCodec, err := jwtx.NewCodec("access-secret-for-tests", testIssuer)
	require.NoError(t, err)
	emailCodec, err := jwtx.NewCodec("email-secret-for-tests", testIssuer)
	require.NoError(t, err)

	sessions := &SessionStore{
		Store:      st,
		Pepper:     "test-pepper",
		RefreshTTL: 60 * 24 * time.Hour,
	}

	return &harness{
		Store:    st,
		Sessions: sessions,
		Auth: &AuthService{
			Store:       st,
			Sessions:    sessions,
			AccessCodec: accessCodec,
			Issuer:      testIssuer,
			AccessTTL:   time.Hour,
		},
		Reg: &RegistrationService{
			Store:      st,
			EmailCodec: emailCodec,
			Issuer:     testIssuer,
			EmailTTL:   24 * time.Hour,
		},
	}
}

// createUser inserts an active user directly, bypassing registration.
func (h *harness) createUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	return h.insertUser(t, email, password, true)
}

func (h *harness) createInactiveUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	return h.insertUser(t, email, password, false)
}

func (h *harness) insertUser(t *testing.T, email, password string, active bool) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, h.Store.Users().CreateUser(context.Background(), u))
	return u
}
