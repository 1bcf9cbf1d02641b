package domain

// UserInfo is the user identity subset returned to clients.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult is what a successful login (or refresh rotation) returns:
// the short-lived access token (JWT) and the opaque refresh token. The
// raw refresh token leaves the server exactly once, in this value.
type LoginResult struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"` // always "Bearer"
	RefreshToken string   `json:"refresh_token"`
	Message      string   `json:"message"`
}
