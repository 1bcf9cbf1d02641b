package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeySessionID ctxKey = "session_id"
)

// Identity is the authenticated identity yielded by AuthnMiddleware.
// Downstream handlers use it for ownership checks.
type Identity struct {
	UserID    string
	SessionID string
}

func contextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
	ctx = context.WithValue(ctx, CtxKeySessionID, id.SessionID)
	return ctx
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	userID, ok := ctx.Value(CtxKeyUserID).(string)
	if !ok || userID == "" {
		return Identity{}, false
	}
	sessionID, ok := ctx.Value(CtxKeySessionID).(string)
	if !ok || sessionID == "" {
		return Identity{}, false
	}
	return Identity{UserID: userID, SessionID: sessionID}, true
}
