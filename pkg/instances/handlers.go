package instances

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	instanceService *Service
	now             func() time.Time
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book instance")
	}

	instance, err := h.instanceService.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: id})
	if err != nil {
		return errors.WithStack(err)
	}
	instance.IsOverdue = instance.Overdue(models.Today(h.now))

	return errors.WithStack(c.JSON(http.StatusOK, instance))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	dueBack, err := parseOptionalDate(params.DueBack)
	if err != nil {
		return err
	}

	instance := &models.BookInstance{
		BookID:     &params.BookID,
		Imprint:    params.Imprint,
		DueBack:    dueBack,
		Status:     params.Status,
		BorrowerID: params.BorrowerID,
	}
	if err := h.instanceService.CreateInstance(ctx, instance); err != nil {
		return errors.WithStack(err)
	}

	return h.respond(c, http.StatusCreated, instance.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book instance")
	}

	params := UpdateInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instance, err := h.instanceService.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateInstanceOptions{}
	if params.BookID != nil {
		instance.BookID = params.BookID
		opts.Columns = append(opts.Columns, "book_id")
	}
	if params.Imprint != nil && *params.Imprint != instance.Imprint {
		instance.Imprint = *params.Imprint
		opts.Columns = append(opts.Columns, "imprint")
	}
	if params.DueBack != nil {
		dueBack, err := parseOptionalDate(*params.DueBack)
		if err != nil {
			return err
		}
		instance.DueBack = dueBack
		opts.Columns = append(opts.Columns, "due_back")
	}
	if params.Status != nil && *params.Status != instance.Status {
		instance.Status = *params.Status
		opts.Columns = append(opts.Columns, "status")
	}
	if params.BorrowerID != nil {
		instance.BorrowerID = nil
		if *params.BorrowerID != 0 {
			instance.BorrowerID = params.BorrowerID
		}
		opts.Columns = append(opts.Columns, "borrower_id")
	}

	if err := h.instanceService.UpdateInstance(ctx, instance, opts); err != nil {
		return errors.WithStack(err)
	}

	return h.respond(c, http.StatusOK, instance.ID)
}

func (h *handler) deleteInstance(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book instance")
	}

	instance, err := h.instanceService.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: id})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.instanceService.DeleteInstance(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	setBookLocation(c, instance)
	return c.NoContent(http.StatusNoContent)
}

// respond reloads the copy and points the client at the book it belongs to.
func (h *handler) respond(c echo.Context, status int, id uuid.UUID) error {
	instance, err := h.instanceService.RetrieveInstance(c.Request().Context(), RetrieveInstanceOptions{ID: id})
	if err != nil {
		return errors.WithStack(err)
	}
	instance.IsOverdue = instance.Overdue(models.Today(h.now))

	setBookLocation(c, instance)
	return errors.WithStack(c.JSON(status, instance))
}

func setBookLocation(c echo.Context, instance *models.BookInstance) {
	if instance.BookID == nil {
		return
	}
	c.Response().Header().Set(echo.HeaderLocation, "/books/"+strconv.Itoa(*instance.BookID))
}

func parseOptionalDate(s string) (*models.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, errcodes.ValidationError("Dates should be in the format of YYYY-MM-DD")
	}
	return &d, nil
}
