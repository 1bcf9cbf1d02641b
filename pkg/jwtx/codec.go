package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Codec signs and verifies one class of HS256 tokens. Construct one per
// token class at startup, each with its own secret: access tokens and
// email-verification tokens never share signing material, so a leaked
// email link can't be replayed as an API credential.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a Codec for a token class. The secret must be non-empty.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Sign produces a compact HS256 JWS for the claims.
func (c *Codec) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify parses and validates a token: signature, exp/nbf, and issuer when
// the codec was built with one. On any failure it returns zero Claims and
// a sentinel error; callers must not inspect claims from a failed verify.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}

// VerifyAllowExpired validates everything Verify does except expiry. Used
// by the refresh flow, where the presented access token establishes which
// user and session are refreshing while the refresh token itself proves
// liveness.
func (c *Codec) VerifyAllowExpired(token string) (Claims, error) {
	claims, err := c.Verify(token)
	if !errors.Is(err, ErrExpired) {
		return claims, err
	}

	// Re-parse without claim validation so we can recover the claims. The
	// signature is still checked.
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return Claims{}, ErrIssuer
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalidClaim
	}
}
