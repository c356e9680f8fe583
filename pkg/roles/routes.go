package roles

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all role routes. Roles are part of user
// management, so every route needs can_manage_users.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	roleService := NewService(db)

	h := &handler{
		roleService: roleService,
	}

	roles := e.Group("/roles")
	roles.Use(authMiddleware.Authenticate)
	roles.Use(authMiddleware.RequirePermission(models.PermissionManageUsers))

	roles.GET("", h.list)
	roles.GET("/:id", h.retrieve)
	roles.POST("", h.create)
	roles.PATCH("/:id", h.update)
	roles.DELETE("/:id", h.delete)

	return roleService
}
