package domain

import "time"

// Session binds a refresh token's fingerprint to a user and a validity
// window. One row per authenticated device/login; the raw refresh token
// is never persisted.
type Session struct {
	ID           string // UUID
	UserID       string // ULID, owning user
	RefreshHash  string // peppered SHA-256 fingerprint of the refresh token
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastSeenAt   *time.Time
	IP           string
	UserAgent    string
	DeviceName   string
	Revoked      bool
	RevokedAt    *time.Time
	RevokeReason string
	ReplacedBy   string // UUID of the session that superseded this one, if rotated
}

// ActiveAt reports whether the session is usable at the given instant:
// not revoked and not past expiry.
func (s Session) ActiveAt(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}

// ClientMeta is the request metadata captured at session creation for
// audit purposes.
type ClientMeta struct {
	IP         string
	UserAgent  string
	DeviceName string
}
