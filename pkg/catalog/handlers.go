package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/sessions"
	"github.com/pkg/errors"
)

type handler struct {
	catalogService *Service
	sessionService *sessions.Service
	cookieName     string
}

type HomeResponse struct {
	*Summary
	// NumVisits is how many times this session saw the home page before the
	// current request.
	NumVisits int     `json:"num_visits"`
	Username  *string `json:"username"`
}

func (h *handler) home(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.catalogService.Summary(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	sessionID, err := sessions.Resolve(c, h.cookieName)
	if err != nil {
		return errors.WithStack(err)
	}
	numVisits, err := h.sessionService.Visit(ctx, sessionID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := HomeResponse{Summary: summary, NumVisits: numVisits}
	if user, ok := auth.UserFromContext(c); ok {
		resp.Username = &user.Username
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
