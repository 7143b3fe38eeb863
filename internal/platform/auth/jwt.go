package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/config"
)

// Claims is the payload of a provider-issued session token. The brand tag
// set at sign-up travels in here, so request scoping never needs a second
// provider round trip.
type Claims struct {
	Brand brand.ID `json:"brand"`
	Email string   `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

type TokenService struct {
	secret []byte
}

func NewTokenService(cfg config.IdentityConfig) *TokenService {
	return &TokenService{secret: []byte(cfg.JWTSecret)}
}

func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
