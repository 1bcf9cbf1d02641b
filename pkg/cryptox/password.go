package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds. DefaultCost balances login latency against
// brute-force resistance on current hardware.
const (
	DefaultCost = 12
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
)

// HashPassword generates a bcrypt hash of the password at DefaultCost.
// The output embeds algorithm, cost, and salt, so verification is
// self-describing.
func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, DefaultCost)
}

// HashPasswordCost is HashPassword with an explicit cost factor.
func HashPasswordCost(password string, cost int) (string, error) {
	if cost < MinCost || cost > MaxCost {
		return "", fmt.Errorf("cryptox: bcrypt cost %d out of range [%d,%d]", cost, MinCost, MaxCost)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches a bcrypt hash.
// A malformed or empty hash is simply a mismatch; the verification path
// never surfaces an error, so every failure collapses into the same
// negative result.
func VerifyPassword(password, encodedHash string) bool {
	if encodedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
