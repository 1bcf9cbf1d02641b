package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/lakeridgehq/sessiond/pkg/jwtx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (jwtx.Claims, error)
}

// SessionChecker reports whether the session referenced by an otherwise
// valid token is still active. A revoked or expired session makes the
// token useless even before its exp.
type SessionChecker interface {
	IsSessionActive(ctx context.Context, userID, sessionID string) (bool, error)
}

// AuthnMiddleware verifies the bearer token and confirms its session is
// still alive, then injects the authenticated identity into the request
// context.
//
// Every authentication failure, missing header, bad scheme, bad
// signature, expiry, malformed subject, dead session, collapses into the
// same 401 so the response can't be used as an oracle for which check
// failed.
func AuthnMiddleware(v TokenVerifier, sessions SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeBearerError(w)
				return
			}

			sub, err := jwtx.ParseSubject(claims.Subject)
			if err != nil {
				log.Warn("access token has malformed subject")
				writeBearerError(w)
				return
			}

			active, err := sessions.IsSessionActive(ctx, sub.UserID, sub.SessionID)
			if err != nil {
				log.Error("session lookup failed", "err", err)
				Error(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !active {
				writeBearerError(w)
				return
			}

			ctx = contextWithIdentity(ctx, Identity{UserID: sub.UserID, SessionID: sub.SessionID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style error response for bearer auth. One body for all causes.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	Error(w, http.StatusUnauthorized, "invalid or expired token")
}
