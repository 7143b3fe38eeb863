package middleware

import (
	"context"
	"net/http"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/pkg/errors"
	"brandgate/internal/platform/auth"
	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/database"
)

// BrandMiddleware resolves the authenticated user's brand tag into the brand
// config and the tenant-scoped data handle for downstream handlers.
type BrandMiddleware struct {
	registry *brand.Registry
	dbPool   *database.TenantDBPool
}

func NewBrandMiddleware(registry *brand.Registry, dbPool *database.TenantDBPool) *BrandMiddleware {
	return &BrandMiddleware{
		registry: registry,
		dbPool:   dbPool,
	}
}

func (m *BrandMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
		if !ok {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "No authentication claims found", nil)
			return
		}

		cfg := m.registry.Get(claims.Brand)
		if cfg == nil {
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Account is not assigned to a brand", nil)
			return
		}

		client, err := m.dbPool.Client(cfg.ID)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to connect to brand schema", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Brand, cfg)
		ctx = context.WithValue(ctx, apiContext.Tenant, client)

		next(w, r.WithContext(ctx))
	}
}
