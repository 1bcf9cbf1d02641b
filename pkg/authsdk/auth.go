package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Register creates a new (inactive) account. The returned verification
// token must be passed through VerifyEmail before the account can log in.
func (c *SDKClient) Register(ctx context.Context, name, email, password string) (*RegisterResponse, error) {
	var out RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail redeems a verification token, activating the account.
func (c *SDKClient) VerifyEmail(ctx context.Context, token string) error {
	path := "/v1/auth/verify-email?token=" + url.QueryEscape(token)
	return c.doJSON(ctx, http.MethodGet, path, "", nil, nil)
}

// Login authenticates with email/password and returns an authenticated
// Session holding the token pair.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var out TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return newSession(c, out), nil
}

// NewSessionFromTokens rebuilds a Session from previously stored tokens,
// e.g. after a process restart. The session refreshes itself as usual.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
}
