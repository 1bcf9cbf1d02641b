package authsdk

import (
	"context"
	"net/http"
)

// Livez calls the liveness probe.
func (c *SDKClient) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz calls the readiness probe. A degraded service comes back as an
// APIError with status 503 alongside a nil response.
func (c *SDKClient) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
