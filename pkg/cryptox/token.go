package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	// Recommended for refresh tokens.
	TokenSize256 = 32
	// TokenSize512 provides 512 bits of entropy (86 chars base64url).
	TokenSize512 = 64
)

// GenerateToken creates a cryptographically secure random opaque token of
// the specified byte length. The token is returned as a base64url-encoded
// string (URL-safe, no padding).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 digest of pepper||token,
// base64url-encoded (43 chars). The digest is what gets persisted; the raw
// token never is. The pepper is a server-only secret that is absent from
// the stored record's derivation inputs, so a leaked table alone cannot be
// matched against candidate tokens.
//
// A fast digest is fine here: the token's own entropy is the security
// boundary, the fingerprint only serves equality lookup.
func FingerprintToken(pepper, token string) string {
	h := sha256.New()
	if pepper != "" {
		h.Write([]byte(pepper))
	}
	h.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// ConstantTimeEquals compares two digests without early exit, preventing
// timing side-channels when matching stored fingerprints against a
// candidate.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
