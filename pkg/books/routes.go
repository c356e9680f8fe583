package books

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		bookService:         NewService(db),
		pageSize:            cfg.PageSize,
		searchCaseSensitive: cfg.SearchCaseSensitive,
		now:                 time.Now,
	}

	edit := []echo.MiddlewareFunc{authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionEditBooks)}

	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, edit...)
	g.PATCH("/:id", h.update, edit...)
	g.DELETE("/:id", h.deleteBook, edit...)
}
