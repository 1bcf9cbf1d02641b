package domain

import "time"

// User is an account identified by a unique email. Accounts are created
// inactive and flip to active on successful email verification.
type User struct {
	ID           string // ULID
	Name         string
	Email        string
	PasswordHash string // bcrypt encoded; empty for non-password accounts
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
