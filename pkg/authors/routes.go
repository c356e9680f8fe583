package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		authorService: NewService(db),
		pageSize:      cfg.PageSize,
	}

	edit := []echo.MiddlewareFunc{authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionEditAuthors)}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, edit...)
	g.PATCH("/:id", h.update, edit...)
	g.DELETE("/:id", h.deleteAuthor, edit...)
}
