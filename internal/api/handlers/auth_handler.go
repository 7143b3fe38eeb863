package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/pkg/errors"
	"brandgate/internal/pkg/validator"
	"brandgate/internal/platform/auth"
	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/identity"
)

// AuthHandler fronts the per-brand gateways. Sign-up picks the gateway by
// the email's resolved brand; operations that carry no brand context fall
// back to the configured default brand's gateway.
type AuthHandler struct {
	gateways     map[brand.ID]*auth.Gateway
	resolver     *brand.Resolver
	defaultBrand brand.ID
}

func NewAuthHandler(gateways map[brand.ID]*auth.Gateway, resolver *brand.Resolver, defaultBrand brand.ID) *AuthHandler {
	return &AuthHandler{
		gateways:     gateways,
		resolver:     resolver,
		defaultBrand: defaultBrand,
	}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	BrandID  string `json:"brand_id,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

type SessionResponse struct {
	User    *identity.User    `json:"user"`
	Session *identity.Session `json:"session"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := validator.Email(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if req.Password == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing password", nil)
		return
	}

	brandID := brand.ID(req.BrandID)
	if brandID == "" {
		resolved, ok := h.resolver.Resolve(req.Email)
		if !ok {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeUnrecognizedDomain, "Email domain is not recognized", nil)
			return
		}
		brandID = resolved
	}

	gateway, ok := h.gateways[brandID]
	if !ok {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeUnrecognizedDomain, "Email domain is not recognized", nil)
		return
	}

	session, authErr := gateway.SignUp(r.Context(), auth.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		BrandID:  brandID,
		FullName: req.FullName,
	})
	if authErr != nil {
		writeAuthError(w, authErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SessionResponse{User: session.User, Session: session})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	session, authErr := h.gatewayFor(req.Email).SignIn(r.Context(), req.Email, req.Password)
	if authErr != nil {
		writeAuthError(w, authErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{User: session.User, Session: session})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(apiContext.Claims).(*auth.Claims)

	gateway := h.gateways[h.defaultBrand]
	if claims != nil {
		if g, ok := h.gateways[claims.Brand]; ok {
			gateway = g
		}
	}

	if authErr := gateway.SignOut(r.Context(), bearerToken(r)); authErr != nil {
		writeAuthError(w, authErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Signed out"})
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPassword does not gate on brand resolution: recovery for unknown
// domains is allowed, matching the provider's permissive behavior.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validator.Email(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	if authErr := h.gatewayFor(req.Email).ResetPassword(r.Context(), req.Email); authErr != nil {
		writeAuthError(w, authErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password recovery email sent"})
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Password == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing password", nil)
		return
	}

	claims, _ := r.Context().Value(apiContext.Claims).(*auth.Claims)
	gateway := h.gateways[h.defaultBrand]
	if claims != nil {
		if g, ok := h.gateways[claims.Brand]; ok {
			gateway = g
		}
	}

	if authErr := gateway.UpdatePassword(r.Context(), bearerToken(r), req.Password); authErr != nil {
		writeAuthError(w, authErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated"})
}

// gatewayFor picks the gateway owning the email's domain, falling back to
// the default brand for emails no brand owns. Login does not re-verify
// brand membership; the fallback only decides which gateway publishes the
// session event.
func (h *AuthHandler) gatewayFor(email string) *auth.Gateway {
	if id, ok := h.resolver.Resolve(email); ok {
		if g, exists := h.gateways[id]; exists {
			return g
		}
	}
	return h.gateways[h.defaultBrand]
}

func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, authErr *auth.AuthError) {
	switch authErr.Kind {
	case auth.KindUnrecognizedDomain:
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeUnrecognizedDomain, authErr.Message, nil)
	case auth.KindInvalidInput:
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, authErr.Message, nil)
	case auth.KindUnauthorized:
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, authErr.Message, nil)
	case auth.KindConflict:
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, authErr.Message, nil)
	default:
		log.Error().Str("detail", authErr.Message).Msg("identity provider request failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeUpstream, "Identity provider request failed", nil)
	}
}
