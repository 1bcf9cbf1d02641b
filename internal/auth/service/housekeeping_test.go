package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/internal/auth/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "hk@example.com", "secret")

	old := time.Now().UTC().Add(-40 * 24 * time.Hour)
	stale := domain.Session{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		RefreshHash: "fp-stale",
		CreatedAt:   old,
		ExpiresAt:   old.Add(24 * time.Hour),
		Revoked:     true,
	}
	require.NoError(t, h.Store.Sessions().CreateSession(ctx, stale))

	hk := NewHousekeepingService(h.Sessions, slog.Default(), time.Hour, 30*24*time.Hour)
	hk.Start() // runs one sweep immediately
	hk.Stop()

	_, err := h.Store.Sessions().GetSessionByID(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingDefaults(t *testing.T) {
	hk := NewHousekeepingService(nil, slog.Default(), 0, 0)
	require.Equal(t, time.Hour, hk.Interval)
	require.Equal(t, 30*24*time.Hour, hk.Retention)
}
