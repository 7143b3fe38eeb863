package main

import (
	"fmt"
	"log"
	"net/http"

	"brandgate/internal/api"
	"brandgate/internal/api/handlers"
	"brandgate/internal/api/middleware"
	"brandgate/internal/engine/chat"
	"brandgate/internal/pkg/logger"
	"brandgate/internal/platform/auth"
	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/config"
	"brandgate/internal/platform/database"
	"brandgate/internal/platform/identity"
	"brandgate/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	registry := brand.Default()
	resolver := brand.NewResolver(registry)

	tenantDBPool := database.NewTenantDBPool(cfg.Database.Tenant, registry)
	defer tenantDBPool.CloseAll()

	// Identity provider: hosted endpoint in production, embedded in dev
	var provider identity.Provider
	if cfg.Identity.Mode == "dev" || cfg.Identity.BaseURL == "" {
		provider = identity.NewDevProvider(cfg.Identity.JWTSecret, cfg.Identity.SessionTTL)
	} else {
		provider = identity.NewHTTPProvider(cfg.Identity)
	}

	tokenSvc := auth.NewTokenService(cfg.Identity)
	profileStore := repositories.NewTenantProfileStore(tenantDBPool)

	// One gateway per brand
	gateways := make(map[brand.ID]*auth.Gateway)
	for _, brandCfg := range registry.All() {
		gateways[brandCfg.ID] = auth.NewGateway(brandCfg, resolver, provider, profileStore, cfg.Site.PublicURL)
	}

	defaultBrand := brand.ID(cfg.Brand.Default)
	if registry.Get(defaultBrand) == nil {
		defaultBrand = brand.Acme
	}

	// Chat relay
	chatClient := chat.NewClient(cfg.Completion)
	chatConfigured := cfg.Completion.APIKey != "" && cfg.Completion.BaseURL != ""

	// Handlers
	authHandler := handlers.NewAuthHandler(gateways, resolver, defaultBrand)
	chatHandler := handlers.NewChatHandler(chatClient, registry, chatConfigured)
	brandHandler := handlers.NewBrandHandler()
	profileHandler := handlers.NewProfileHandler()
	healthHandler := handlers.NewHealthHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	brandMiddleware := middleware.NewBrandMiddleware(registry, tenantDBPool)
	rateLimiter := middleware.NewRateLimiter()

	// Router
	deps := &api.Dependencies{
		AuthHandler:     authHandler,
		ChatHandler:     chatHandler,
		BrandHandler:    brandHandler,
		ProfileHandler:  profileHandler,
		HealthHandler:   healthHandler,
		AuthMiddleware:  authMiddleware,
		BrandMiddleware: brandMiddleware,
		RateLimiter:     rateLimiter,
		RateLimits:      cfg.RateLimit,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
