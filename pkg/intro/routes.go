package intro

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the home page content routes.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		contentService: NewService(db),
	}

	edit := []echo.MiddlewareFunc{authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionEditSite)}

	g.GET("", h.introduction)
	g.GET("/contents", h.list, edit...)
	g.POST("/contents", h.create, edit...)
	g.PATCH("/contents/:id", h.update, edit...)
	g.DELETE("/contents/:id", h.deleteContent, edit...)
}
