package postgres

import (
	"context"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, user_id, refresh_hash, created_at, expires_at, last_seen_at,
	ip, user_agent, device_name, revoked, revoked_at, revoke_reason, replaced_by`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.UserID, s.RefreshHash, s.CreatedAt, s.ExpiresAt, s.LastSeenAt,
		s.IP, s.UserAgent, s.DeviceName, s.Revoked, s.RevokedAt, s.RevokeReason, s.ReplacedBy,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM auth_sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (r *sessionsRepo) ListUserSessions(ctx context.Context, userID string, revoked bool, limit int) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM auth_sessions
		WHERE user_id = $1 AND revoked = $2
		ORDER BY created_at DESC
		LIMIT $3`, userID, revoked, limit)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *sessionsRepo) ListSessionsByRevoked(ctx context.Context, revoked bool, limit int) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM auth_sessions
		WHERE revoked = $1
		ORDER BY created_at ASC
		LIMIT $2`, revoked, limit)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *sessionsRepo) MarkSessionRevoked(ctx context.Context, id, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE auth_sessions
		SET revoked = TRUE, revoked_at = $1, revoke_reason = $2
		WHERE id = $3 AND revoked = FALSE`,
		at, reason, id,
	)
	return err
}

func (r *sessionsRepo) UpdateSessionLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE auth_sessions SET last_seen_at = $1 WHERE id = $2`, at, id)
	return err
}

func (r *sessionsRepo) SetSessionReplacedBy(ctx context.Context, oldID, newID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE auth_sessions SET replaced_by = $1 WHERE id = $2`, newID, oldID)
	return err
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.RefreshHash, &s.CreatedAt, &s.ExpiresAt, &s.LastSeenAt,
		&s.IP, &s.UserAgent, &s.DeviceName, &s.Revoked, &s.RevokedAt, &s.RevokeReason, &s.ReplacedBy,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func collectSessions(rows interface {
	rowScanner
	Next() bool
	Close() error
	Err() error
}) ([]domain.Session, error) {
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
