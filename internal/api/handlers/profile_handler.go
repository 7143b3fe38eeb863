package handlers

import (
	"encoding/json"
	"net/http"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/pkg/errors"
	"brandgate/internal/platform/auth"
	"brandgate/internal/platform/database"
	"brandgate/internal/platform/repositories"
)

// ProfileHandler serves the signed-in user's profile out of their brand's
// schema. Dependencies resolve via the tenant client in request context.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, tenant, ok := requestScope(r)
	if !ok {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "No authentication claims found", nil)
		return
	}

	repo := repositories.NewProfileRepository(tenant.DB)
	profile, err := repo.GetByUserID(claims.UserID())
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if profile == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Profile not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, tenant, ok := requestScope(r)
	if !ok {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "No authentication claims found", nil)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.DisplayName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing display_name", nil)
		return
	}

	repo := repositories.NewProfileRepository(tenant.DB)
	if err := repo.UpdateDisplayName(claims.UserID(), req.DisplayName); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	profile, err := repo.GetByUserID(claims.UserID())
	if err != nil || profile == nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func requestScope(r *http.Request) (*auth.Claims, *database.TenantClient, bool) {
	claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
	if !ok {
		return nil, nil, false
	}
	tenant, ok := r.Context().Value(apiContext.Tenant).(*database.TenantClient)
	if !ok {
		return nil, nil, false
	}
	return claims, tenant, true
}
