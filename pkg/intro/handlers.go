package intro

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	contentService *Service
}

func (h *handler) introduction(c echo.Context) error {
	content, err := h.contentService.RetrieveIntroduction(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	if content == nil {
		return errcodes.NotFound("Index content")
	}

	return errors.WithStack(c.JSON(http.StatusOK, content))
}

func (h *handler) list(c echo.Context) error {
	contents, err := h.contentService.ListContents(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	if contents == nil {
		contents = []*models.IndexContent{}
	}

	return errors.WithStack(c.JSON(http.StatusOK, contents))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateContentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	content := &models.IndexContent{Title: params.Title, Body: params.Body}
	if err := h.contentService.CreateContent(ctx, content); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, content))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Index content")
	}

	params := UpdateContentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	content, err := h.contentService.RetrieveContent(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateContentOptions{}
	if params.Title != nil && *params.Title != content.Title {
		content.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Body != nil && *params.Body != content.Body {
		content.Body = *params.Body
		opts.Columns = append(opts.Columns, "body")
	}

	if err := h.contentService.UpdateContent(ctx, content, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, content))
}

func (h *handler) deleteContent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Index content")
	}

	if err := h.contentService.DeleteContent(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
