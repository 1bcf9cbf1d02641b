package service

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so a login probe cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountInactive means the password checked out but the account has
	// not completed email verification (or was deactivated).
	ErrAccountInactive = errors.New("account_inactive")

	// ErrInvalidToken covers every refresh/logout failure cause: unknown
	// token, revoked session, expired session, wrong owner. Callers map it
	// to a uniform 401.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrForbidden means the caller is authenticated but does not own the
	// resource it is acting on.
	ErrForbidden = errors.New("forbidden")

	// ErrEmailTaken is returned by registration when the address is already
	// registered.
	ErrEmailTaken = errors.New("email_taken")
)
