package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/pkg/errors"
	"brandgate/internal/platform/auth"
)

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
}

func NewAuthMiddleware(tokenSvc *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, errMsg := m.claimsFromHeader(r)
		if claims == nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, errMsg, nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}

// Optional attaches claims when a valid bearer token is present and passes
// the request through unauthenticated otherwise. Used by the chat relay,
// which serves both anonymous and signed-in surfaces.
func (m *AuthMiddleware) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, _ := m.claimsFromHeader(r); claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), apiContext.Claims, claims))
		}
		next(w, r)
	}
}

func (m *AuthMiddleware) claimsFromHeader(r *http.Request) (*auth.Claims, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "Missing authorization header"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "Invalid authorization header format"
	}

	claims, err := m.tokenSvc.ValidateToken(parts[1])
	if err != nil {
		return nil, "Invalid or expired token"
	}
	return claims, ""
}
