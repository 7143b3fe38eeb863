package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/api/handlers"
	"brandgate/internal/api/middleware"
	"brandgate/internal/platform/config"
)

type Dependencies struct {
	AuthHandler     *handlers.AuthHandler
	ChatHandler     *handlers.ChatHandler
	BrandHandler    *handlers.BrandHandler
	ProfileHandler  *handlers.ProfileHandler
	HealthHandler   *handlers.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	BrandMiddleware *middleware.BrandMiddleware
	RateLimiter     *middleware.RateLimiter
	RateLimits      config.RateLimitConfig
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Check))

	// Chat relay. Auth is optional: a signed-in user's brand flavors the
	// system prompt, anonymous requests get the neutral default.
	authMid := deps.AuthMiddleware
	brandMid := deps.BrandMiddleware

	router.POST("/api/chat", chain(deps.ChatHandler.Complete, authMid.Optional))
	router.POST("/api/chat/stream", chain(deps.ChatHandler.Stream, authMid.Optional))

	// Authentication routes
	router.POST("/api/v1/auth/signup",
		chain(deps.AuthHandler.Signup, deps.RateLimiter.Limit("signup", deps.RateLimits.SignupPerMinute)))
	router.POST("/api/v1/auth/login",
		chain(deps.AuthHandler.Login, deps.RateLimiter.Limit("login", deps.RateLimits.LoginPerMinute)))
	router.POST("/api/v1/auth/logout",
		chain(deps.AuthHandler.Logout, authMid.Handle))
	router.POST("/api/v1/auth/reset-password", wrap(deps.AuthHandler.ResetPassword))
	router.POST("/api/v1/auth/update-password",
		chain(deps.AuthHandler.UpdatePassword, authMid.Handle))

	// Brand-scoped routes
	router.GET("/api/v1/brands/current",
		chain(deps.BrandHandler.GetCurrent, authMid.Handle, brandMid.Handle))
	router.GET("/api/v1/profile",
		chain(deps.ProfileHandler.Get, authMid.Handle, brandMid.Handle))
	router.PATCH("/api/v1/profile",
		chain(deps.ProfileHandler.Update, authMid.Handle, brandMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
