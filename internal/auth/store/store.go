package store

import (
	"context"
	"errors"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. Repositories expose equality-filtered,
// ordered, bounded queries only; range predicates such as "expires_at >
// now" are evaluated by the calling component after a bounded fetch, so
// the contract stays portable across drivers.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. session rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns the user owning the (unique) email address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// SetUserActive flips the active flag on, bumping updated_at. No-op
	// for an already-active user.
	SetUserActive(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}

type Sessions interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns the raw session row regardless of state.
	// Liveness checks belong to the caller.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// ListUserSessions returns the user's sessions with the given revoked
	// flag, newest first, bounded by limit.
	ListUserSessions(ctx context.Context, userID string, revoked bool, limit int) ([]domain.Session, error)

	// ListSessionsByRevoked returns sessions across all users with the
	// given revoked flag, oldest first, bounded by limit. Used by purge
	// sweeps.
	ListSessionsByRevoked(ctx context.Context, revoked bool, limit int) ([]domain.Session, error)

	// MarkSessionRevoked sets revoked, revoked_at, and revoke_reason.
	// Idempotent: a second call or an absent id is a no-op.
	MarkSessionRevoked(ctx context.Context, id, reason string, at time.Time) error

	// UpdateSessionLastSeen bumps last_seen_at. No-op if the id is absent.
	UpdateSessionLastSeen(ctx context.Context, id string, at time.Time) error

	// SetSessionReplacedBy records rotation lineage on the old session.
	SetSessionReplacedBy(ctx context.Context, oldID, newID string) error

	// DeleteSession removes a session row, reporting whether a row was
	// actually deleted. Safe to race with other operations.
	DeleteSession(ctx context.Context, id string) (bool, error)
}
