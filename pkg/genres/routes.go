package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		genreService: NewService(db),
	}

	edit := []echo.MiddlewareFunc{authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionEditBooks)}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/books", h.books)
	g.POST("", h.create, edit...)
	g.PATCH("/:id", h.update, edit...)
	g.DELETE("/:id", h.deleteGenre, edit...)
}
