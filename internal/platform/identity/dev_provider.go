package identity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type devAccount struct {
	user         *User
	passwordHash []byte
}

// DevProvider is an in-process identity provider for local development and
// tests. It mints the same HS256 session tokens the hosted provider would,
// so the rest of the stack cannot tell the two apart.
type DevProvider struct {
	secret     []byte
	sessionTTL time.Duration

	mu       sync.Mutex
	accounts map[string]*devAccount // keyed by email
}

func NewDevProvider(secret string, sessionTTL time.Duration) *DevProvider {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &DevProvider{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		accounts:   make(map[string]*devAccount),
	}
}

func (p *DevProvider) SignUp(ctx context.Context, cred Credentials, metadata map[string]string) (*Session, *Error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[cred.Email]; exists {
		return nil, &Error{Status: http.StatusConflict, Message: "User already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	user := &User{
		ID:        "usr_" + uuid.NewString(),
		Email:     cred.Email,
		Metadata:  meta,
		CreatedAt: time.Now().Unix(),
	}
	p.accounts[cred.Email] = &devAccount{user: user, passwordHash: hash}

	return p.issueSession(user)
}

func (p *DevProvider) SignIn(ctx context.Context, cred Credentials) (*Session, *Error) {
	p.mu.Lock()
	account, exists := p.accounts[cred.Email]
	p.mu.Unlock()

	if !exists {
		return nil, &Error{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(cred.Password)); err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}

	return p.issueSession(account.user)
}

func (p *DevProvider) SignOut(ctx context.Context, accessToken string) *Error {
	// Tokens are stateless; nothing to revoke server-side.
	return nil
}

func (p *DevProvider) ResetPassword(ctx context.Context, email, redirectTo string) *Error {
	// The hosted provider sends a recovery email regardless of whether the
	// account exists. Mirror that: always succeed.
	log.Info().Str("email", email).Str("redirect_to", redirectTo).
		Msg("dev provider: password recovery requested")
	return nil
}

func (p *DevProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) *Error {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return &Error{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}
	}

	email, _ := claims["email"].(string)

	p.mu.Lock()
	defer p.mu.Unlock()

	account, exists := p.accounts[email]
	if !exists {
		return &Error{Status: http.StatusNotFound, Message: "User not found"}
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if hashErr != nil {
		return &Error{Status: http.StatusInternalServerError, Message: hashErr.Error()}
	}
	account.passwordHash = hash
	return nil
}

func (p *DevProvider) issueSession(user *User) (*Session, *Error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"brand": user.Metadata["brand_id"],
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(p.sessionTTL)),
		"iss":   "brandgate-dev",
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}

	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(p.sessionTTL.Seconds()),
		User:        user,
	}, nil
}
