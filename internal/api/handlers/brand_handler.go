package handlers

import (
	"encoding/json"
	"net/http"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/pkg/errors"
	"brandgate/internal/platform/brand"
)

type BrandHandler struct{}

func NewBrandHandler() *BrandHandler {
	return &BrandHandler{}
}

// GetCurrent returns the authenticated user's brand configuration for
// frontend theming. The schema name never leaves the server; Config hides
// it from JSON.
func (h *BrandHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	cfg, ok := r.Context().Value(apiContext.Brand).(*brand.Config)
	if !ok {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "No brand context", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}
