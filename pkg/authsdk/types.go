package authsdk

import "time"

// UserInfo is the user identity subset returned by the service.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenResponse is the body of a successful login or refresh.
type TokenResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	RefreshToken string   `json:"refresh_token"`
	Message      string   `json:"message"`
}

// RegisterResponse is the body of a successful registration. The
// verification token is included so the caller's mail pipeline can embed
// it in the verification link.
type RegisterResponse struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
	Message           string `json:"message"`
}

// SessionInfo describes one active session in a session listing.
type SessionInfo struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	IP         string     `json:"ip,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	DeviceName string     `json:"device_name,omitempty"`
	Current    bool       `json:"current"`
}

// HealthResponse is the body of the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type messageResponse struct {
	Message string `json:"message"`
}
