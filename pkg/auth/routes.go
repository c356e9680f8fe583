package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/ratelimit"
)

// RegisterRoutes registers all auth routes. Login and setup share the
// per-IP limiter.
func RegisterRoutes(e *echo.Echo, authService *Service, limiter *ratelimit.KeyedRateLimiter) {
	h := &handler{
		authService: authService,
	}
	m := NewMiddleware(authService)
	throttle := ratelimit.Middleware(limiter)

	auth := e.Group("/auth")
	auth.POST("/login", h.login, throttle)
	auth.POST("/logout", h.logout)
	auth.GET("/status", h.status)
	auth.POST("/setup", h.setup, throttle)
	auth.GET("/me", h.me, m.Authenticate)
}
