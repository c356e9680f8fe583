package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/sessions"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the home page summary at the root.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		catalogService: NewService(db),
		sessionService: sessions.NewService(db),
		cookieName:     cfg.SessionCookieName,
	}

	e.GET("/", h.home, authMiddleware.AuthenticateOptional)
}
