package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. These provide sensible security defaults but can be
// overridden per-service via config.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived; session revocation only affects the next verification,
	// so this bounds how long a revoked session's tokens stay usable.
	DefaultAccessTokenTTL = 60 * time.Minute

	// DefaultEmailTokenTTL is the default lifetime for email-verification
	// tokens. Multi-hour so the link survives a slow inbox.
	DefaultEmailTokenTTL = 24 * time.Hour
)

// Claims are the signed claims shared by both token classes. Access tokens
// put the compound user:session subject in sub; email-verification tokens
// put the target email address there.
type Claims struct {
	jwt.RegisteredClaims
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(sub Subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.Encode(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewEmailClaims builds claims for an email-verification token.
func NewEmailClaims(email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
