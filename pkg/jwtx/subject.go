package jwtx

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// subjectSeparator joins the user and session identifiers inside the sub
// claim. ULIDs (base32) and UUIDs (hex + hyphens) can never contain it, so
// the encoding is unambiguous. This is the single supported encoding; if
// it ever changes, bump the format rather than mixing encodings, since
// in-flight tokens must stay decodable for their remaining TTL.
const subjectSeparator = ":"

// Subject is the identity an access token carries: the authenticated user
// and the server-side session the token is bound to.
type Subject struct {
	UserID    string // ULID
	SessionID string // UUID
}

// Encode renders the compound sub claim value.
func (s Subject) Encode() string {
	return s.UserID + subjectSeparator + s.SessionID
}

// ParseSubject decodes a sub claim into its user and session parts,
// validating both identifier forms. Any deviation is ErrInvalidClaim; a
// verifier must never partially trust a malformed subject.
func ParseSubject(raw string) (Subject, error) {
	userID, sessionID, ok := strings.Cut(raw, subjectSeparator)
	if !ok || userID == "" || sessionID == "" {
		return Subject{}, ErrInvalidClaim
	}
	if _, err := ulid.ParseStrict(userID); err != nil {
		return Subject{}, ErrInvalidClaim
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return Subject{}, ErrInvalidClaim
	}
	return Subject{UserID: userID, SessionID: sessionID}, nil
}
