package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authhttp "github.com/lakeridgehq/sessiond/internal/auth/http"
	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/internal/auth/store/drivers/sqlite"
	"github.com/lakeridgehq/sessiond/pkg/authsdk"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"
)

/*
 * Common constants and helper functions for the auth service end-to-end
 * tests. Each test gets its own service instance: a fresh sqlite store,
 * the full router, and an httptest server fronted by the SDK client.
 */

const (
	testIssuer   = "sessiond-e2e"
	testPassword = "Sup3rSecret!"
)

type testService struct {
	URL    string
	Client *authsdk.SDKClient

	Store    *sqlite.Store
	Sessions *service.SessionStore
	Access   *jwtx.Codec
}

// newTestService boots a complete service instance backed by a temporary
// sqlite database and returns an SDK client pointed at it.
func newTestService(t *testing.T) *testService {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	accessCodec, err := jwtx.NewCodec("e2e-access-secret", testIssuer)
	require.NoError(t, err)
	emailCodec, err := jwtx.NewCodec("e2e-email-secret", testIssuer)
	require.NoError(t, err)

	sessions := &service.SessionStore{
		Store:      st,
		Pepper:     "e2e-pepper",
		RefreshTTL: 60 * 24 * time.Hour,
	}
	auth := &service.AuthService{
		Store:       st,
		Sessions:    sessions,
		AccessCodec: accessCodec,
		Issuer:      testIssuer,
		AccessTTL:   time.Hour,
	}
	reg := &service.RegistrationService{
		Store:      st,
		EmailCodec: emailCodec,
		Issuer:     testIssuer,
		EmailTTL:   24 * time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := authhttp.NewRouter("e2e", st, logger)
	router.AuthService = auth
	router.RegistrationService = reg
	router.SessionStore = sessions
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testService{
		URL:      srv.URL,
		Client:   authsdk.NewSDKClient(srv.URL),
		Store:    st,
		Sessions: sessions,
		Access:   accessCodec,
	}
}

// registerVerified registers an account and immediately redeems its
// verification token so the account can log in.
func (ts *testService) registerVerified(t *testing.T, name, email string) {
	t.Helper()

	ctx := context.Background()
	resp, err := ts.Client.Register(ctx, name, email, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, resp.VerificationToken)
	require.NoError(t, ts.Client.VerifyEmail(ctx, resp.VerificationToken))
}

// loginSession logs in with the standard test password.
func (ts *testService) loginSession(t *testing.T, email string) *authsdk.Session {
	t.Helper()

	sess, err := ts.Client.Login(context.Background(), email, testPassword)
	require.NoError(t, err)
	return sess
}

// requireStatus asserts that err is an APIError with the given status.
func requireStatus(t *testing.T, err error, status int) *authsdk.APIError {
	t.Helper()

	apiErr := authsdk.AsAPIError(err)
	require.NotNil(t, apiErr, "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	return apiErr
}
