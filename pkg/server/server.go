package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/catalog"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/instances"
	"github.com/locallibrary/catalog/pkg/intro"
	"github.com/locallibrary/catalog/pkg/languages"
	"github.com/locallibrary/catalog/pkg/loans"
	"github.com/locallibrary/catalog/pkg/ratelimit"
	"github.com/locallibrary/catalog/pkg/roles"
	"github.com/locallibrary/catalog/pkg/testutils"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, limiter *ratelimit.KeyedRateLimiter) (*http.Server, error) {
	e, err := newEcho(cfg, db, limiter)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, limiter *ratelimit.KeyedRateLimiter) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authService := auth.NewService(db, cfg.JWTSecret)
	auth.RegisterRoutes(e, authService, limiter)
	authMiddleware := auth.NewMiddleware(authService)

	users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, authMiddleware)
	catalog.RegisterRoutes(e, db, cfg, authMiddleware)
	registerCatalogRoutes(e, db, cfg, authMiddleware)

	if cfg.Environment == "test" {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerCatalogRoutes registers the catalog browsing and editing routes.
// Reads are public; each package gates its own writes.
func registerCatalogRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	books.RegisterRoutesWithGroup(e.Group("/books"), db, cfg, authMiddleware)
	authors.RegisterRoutesWithGroup(e.Group("/authors"), db, cfg, authMiddleware)
	genres.RegisterRoutesWithGroup(e.Group("/genres"), db, authMiddleware)
	languages.RegisterRoutesWithGroup(e.Group("/languages"), db, authMiddleware)
	instances.RegisterRoutesWithGroup(e.Group("/book-instances"), db, authMiddleware)
	intro.RegisterRoutesWithGroup(e.Group("/intro"), db, authMiddleware)
	loans.RegisterRoutesWithGroup(e.Group("/loans"), db, cfg, authMiddleware)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
