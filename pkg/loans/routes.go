package loans

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the borrowing routes. Every route needs a
// logged in user, and everything except a member's own loans needs
// can_mark_returned.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		loanService:  NewService(db),
		pageSize:     cfg.PageSize,
		defaultWeeks: cfg.RenewalDefaultWeeks,
		maxWeeks:     cfg.RenewalMaxWeeks,
		strictGuard:  cfg.StrictLoanTransitions,
		now:          time.Now,
	}

	g.Use(authMiddleware.Authenticate)
	librarian := authMiddleware.RequirePermission(models.PermissionMarkReturned)

	g.GET("/mine", h.mine)
	g.GET("", h.all, librarian)
	g.GET("/:id/renew", h.renewForm, librarian)
	g.POST("/:id/renew", h.renew, librarian)
	g.GET("/:id/return", h.returnForm, librarian)
	g.POST("/:id/return", h.returnBook, librarian)
}
