package identity

import "context"

// User is the identity provider's user record. Metadata carries the brand
// tag stamped at sign-up time; the provider itself treats it as opaque.
type User struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt int64             `json:"created_at"`
}

// Session is the credential issued by the provider. Its lifecycle is owned
// entirely by the provider; the application only observes it.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

type Credentials struct {
	Email    string
	Password string
}

// Error is the provider failure surfaced as a value. Message carries the
// provider's text verbatim; it must be translated before reaching a client.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Provider is the identity-provider boundary. Every operation returns its
// failure as a value; nothing crosses this contract as a panic.
type Provider interface {
	SignUp(ctx context.Context, cred Credentials, metadata map[string]string) (*Session, *Error)
	SignIn(ctx context.Context, cred Credentials) (*Session, *Error)
	SignOut(ctx context.Context, accessToken string) *Error
	// ResetPassword starts account recovery. redirectTo, when non-empty, is
	// where the recovery link lands the user afterwards.
	ResetPassword(ctx context.Context, email, redirectTo string) *Error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) *Error
}
