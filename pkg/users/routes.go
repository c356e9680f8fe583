package users

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")

	// All user routes require authentication
	users.Use(authMiddleware.Authenticate)

	manage := authMiddleware.RequirePermission(models.PermissionManageUsers)
	users.GET("", h.list, manage)
	users.GET("/:id", h.retrieve, manage)
	users.POST("", h.create, manage)
	users.PATCH("/:id", h.update, manage)
	users.DELETE("/:id", h.deleteUser, manage)

	// Users can reset their own password; resetting anyone else's needs
	// can_manage_users, which the handler checks.
	users.POST("/:id/reset-password", h.resetPassword)

	return userService
}
