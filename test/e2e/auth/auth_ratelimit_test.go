package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

// TestRegistrationRateLimit exhausts the strict per-IP bucket on the
// registration endpoint. The requests carry an invalid password on
// purpose; the limiter sits in front of the handler, so cheap 400s drain
// the bucket without the cost of hashing ten passwords.
func TestRegistrationRateLimit(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	const budget = 10 // StrictLimit burst

	for i := 0; i < budget; i++ {
		_, err := ts.Client.Register(ctx, "Rate", fmt.Sprintf("rate%d@example.com", i), "short")
		requireStatus(t, err, http.StatusBadRequest)
	}

	_, err := ts.Client.Register(ctx, "Rate", "rate-over@example.com", "short")
	requireStatus(t, err, http.StatusTooManyRequests)

	// Login has no limiter; credential throttling is handled upstream.
	for i := 0; i < budget+5; i++ {
		_, err := ts.Client.Login(ctx, "nobody@example.com", "wrong-password")
		requireStatus(t, err, http.StatusUnauthorized)
	}
}
