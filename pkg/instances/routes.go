package instances

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book instance routes on a pre-configured
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		instanceService: NewService(db),
		now:             time.Now,
	}

	edit := []echo.MiddlewareFunc{authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionCreateCopy)}

	g.GET("/:id", h.retrieve)
	g.POST("", h.create, edit...)
	g.PATCH("/:id", h.update, edit...)
	g.DELETE("/:id", h.deleteInstance, edit...)
}
