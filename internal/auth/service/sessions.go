package service

import (
	"context"
	"errors"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/internal/auth/store"
	"github.com/lakeridgehq/sessiond/pkg/cryptox"
	"github.com/lakeridgehq/sessiond/pkg/slogx"

	"github.com/google/uuid"
)

const (
	// DefaultScanWindow bounds how many of a user's newest non-revoked
	// sessions get fingerprint-compared when matching a refresh token. The
	// cap keeps the hashing cost bounded; tune it to the expected
	// sessions-per-user ceiling.
	DefaultScanWindow = 50

	// PurgeBatchSize bounds one purge sweep pass.
	PurgeBatchSize = 500
)

// Session revoke reasons.
const (
	RevokeReasonLogout   = "logout"
	RevokeReasonRotated  = "rotated"
	RevokeReasonRevoked  = "revoked"
	RevokeReasonPassword = "password_change"
)

// SessionStore manages the server-side session records that refresh tokens
// are bound to. The raw refresh token exists only in flight; only its
// peppered fingerprint is ever persisted.
type SessionStore struct {
	Store      store.Store
	Pepper     string
	RefreshTTL time.Duration
	ScanWindow int
}

func (s *SessionStore) scanWindow() int {
	if s.ScanWindow > 0 {
		return s.ScanWindow
	}
	return DefaultScanWindow
}

// Fingerprint computes the stored digest for a raw refresh token.
func (s *SessionStore) Fingerprint(raw string) string {
	return cryptox.FingerprintToken(s.Pepper, raw)
}

// mint builds a fresh session row plus its raw refresh token. Nothing is
// persisted; callers decide whether that happens directly or inside a
// transaction.
func (s *SessionStore) mint(userID string, meta domain.ClientMeta, now time.Time) (domain.Session, string, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, "", err
	}

	return domain.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		RefreshHash: s.Fingerprint(raw),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.RefreshTTL),
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
		DeviceName:  meta.DeviceName,
	}, raw, nil
}

// Create mints and persists a new active session for the user, returning
// the session and the raw refresh token. The raw token leaves the server
// exactly once, through this return value.
func (s *SessionStore) Create(ctx context.Context, userID string, meta domain.ClientMeta) (domain.Session, string, error) {
	sess, raw, err := s.mint(userID, meta, time.Now().UTC())
	if err != nil {
		return domain.Session{}, "", err
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Session{}, "", err
	}
	return sess, raw, nil
}

// Rotate atomically replaces old with a freshly minted session: the new row
// is created, the old one revoked with reason "rotated", and the lineage
// link recorded, all in one transaction.
func (s *SessionStore) Rotate(ctx context.Context, old domain.Session, meta domain.ClientMeta) (domain.Session, string, error) {
	now := time.Now().UTC()

	next, raw, err := s.mint(old.UserID, meta, now)
	if err != nil {
		return domain.Session{}, "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(ctx, next); err != nil {
			return err
		}
		if err := tx.Sessions().MarkSessionRevoked(ctx, old.ID, RevokeReasonRotated, now); err != nil {
			return err
		}
		return tx.Sessions().SetSessionReplacedBy(ctx, old.ID, next.ID)
	})
	if err != nil {
		return domain.Session{}, "", err
	}

	return next, raw, nil
}

// GetActiveByID returns the session only when it is currently active.
// Absent, revoked, and expired all come back as nil without error; the
// cause is deliberately not distinguished.
func (s *SessionStore) GetActiveByID(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !sess.ActiveAt(time.Now().UTC()) {
		return nil, nil
	}
	return &sess, nil
}

// FindByOwnerAndToken matches a raw refresh token against the user's
// newest non-revoked sessions. The candidate digest is computed once and
// compared in constant time against each row inside the bounded window.
// Returns nil when nothing active matches.
func (s *SessionStore) FindByOwnerAndToken(ctx context.Context, userID, raw string) (*domain.Session, error) {
	now := time.Now().UTC()
	candidate := s.Fingerprint(raw)

	sessions, err := s.Store.Sessions().ListUserSessions(ctx, userID, false, s.scanWindow())
	if err != nil {
		return nil, err
	}

	for _, sess := range sessions {
		if !sess.ExpiresAt.After(now) {
			continue
		}
		if cryptox.ConstantTimeEquals(sess.RefreshHash, candidate) {
			return &sess, nil
		}
	}
	return nil, nil
}

// Revoke marks the session revoked with the given reason. Idempotent; an
// already-revoked or absent session is a no-op.
func (s *SessionStore) Revoke(ctx context.Context, id, reason string) error {
	return s.Store.Sessions().MarkSessionRevoked(ctx, id, reason, time.Now().UTC())
}

// Touch bumps the session's last-seen timestamp. Best effort: a failure is
// logged and swallowed, never surfaced to the request path.
func (s *SessionStore) Touch(ctx context.Context, id string) {
	if err := s.Store.Sessions().UpdateSessionLastSeen(ctx, id, time.Now().UTC()); err != nil {
		slogx.FromContext(ctx).Warn("failed to touch session", "session_id", id, "error", err)
	}
}

// LinkReplacement records rotation lineage on the old session.
func (s *SessionStore) LinkReplacement(ctx context.Context, oldID, newID string) error {
	return s.Store.Sessions().SetSessionReplacedBy(ctx, oldID, newID)
}

// ListActiveForUser returns the user's currently active sessions, newest
// first.
func (s *SessionStore) ListActiveForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	now := time.Now().UTC()

	sessions, err := s.Store.Sessions().ListUserSessions(ctx, userID, false, s.scanWindow())
	if err != nil {
		return nil, err
	}

	active := make([]domain.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ActiveAt(now) {
			active = append(active, sess)
		}
	}
	return active, nil
}

// IsSessionActive reports whether the session exists, is active, and
// belongs to the user. This is what bearer-token verification consults on
// every authenticated request; an active session gets its last-seen
// timestamp bumped as a side effect.
func (s *SessionStore) IsSessionActive(ctx context.Context, userID, sessionID string) (bool, error) {
	sess, err := s.GetActiveByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if sess == nil || sess.UserID != userID {
		return false, nil
	}
	s.Touch(ctx, sess.ID)
	return true, nil
}

// Purge deletes sessions that are already revoked or expired AND were
// created before the cutoff. Live sessions are never touched. Each sweep
// is bounded to one batch per pass; the count of deleted rows is returned
// so the caller can log progress.
func (s *SessionStore) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	now := time.Now().UTC()
	deleted := 0

	// Pass 1: revoked rows older than the cutoff.
	revoked, err := s.Store.Sessions().ListSessionsByRevoked(ctx, true, PurgeBatchSize)
	if err != nil {
		return deleted, err
	}
	for _, sess := range revoked {
		if !sess.CreatedAt.Before(cutoff) {
			continue
		}
		ok, err := s.Store.Sessions().DeleteSession(ctx, sess.ID)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}

	// Pass 2: expired-but-never-revoked rows older than the cutoff.
	open, err := s.Store.Sessions().ListSessionsByRevoked(ctx, false, PurgeBatchSize)
	if err != nil {
		return deleted, err
	}
	for _, sess := range open {
		if sess.ExpiresAt.After(now) || !sess.CreatedAt.Before(cutoff) {
			continue
		}
		ok, err := s.Store.Sessions().DeleteSession(ctx, sess.ID)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}

	return deleted, nil
}
