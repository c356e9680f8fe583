package authors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/pkg/errors"
)

type handler struct {
	authorService *Service
	pageSize      int
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	total, err := h.authorService.CountAuthors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	page := pagination.New(params.Page, total, h.pageSize)

	limit, offset := page.Limit(), page.Offset()
	authors, err := h.authorService.ListAuthors(ctx, ListAuthorsOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, pagination.Result[*models.Author]{
		Items: authors,
		Page:  page,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID:        &id,
		WithBooks: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if author.Books == nil {
		author.Books = []*models.Book{}
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author := &models.Author{
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}
	var err error
	if author.DateOfBirth, err = parseOptionalDate(params.DateOfBirth); err != nil {
		return err
	}
	if author.DateOfDeath, err = parseOptionalDate(params.DateOfDeath); err != nil {
		return err
	}
	if err := validateLifespan(author); err != nil {
		return err
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, author))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAuthorOptions{}
	if params.FirstName != nil && *params.FirstName != author.FirstName {
		author.FirstName = *params.FirstName
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil && *params.LastName != author.LastName {
		author.LastName = *params.LastName
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.DateOfBirth != nil {
		if author.DateOfBirth, err = parseOptionalDate(params.DateOfBirth); err != nil {
			return err
		}
		opts.Columns = append(opts.Columns, "date_of_birth")
	}
	if params.DateOfDeath != nil {
		if author.DateOfDeath, err = parseOptionalDate(params.DateOfDeath); err != nil {
			return err
		}
		opts.Columns = append(opts.Columns, "date_of_death")
	}
	if err := validateLifespan(author); err != nil {
		return err
	}

	if err := h.authorService.UpdateAuthor(ctx, author, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) deleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	if err := h.authorService.DeleteAuthor(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// parseOptionalDate turns an already validated YYYY-MM-DD string into a Date.
// Nil and empty strings both mean no date.
func parseOptionalDate(s *string) (*models.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil, errcodes.ValidationError("Dates should be in the format of YYYY-MM-DD")
	}
	return &d, nil
}

func validateLifespan(author *models.Author) error {
	if author.DateOfBirth != nil && author.DateOfDeath != nil && author.DateOfDeath.Before(*author.DateOfBirth) {
		return errcodes.ValidationError(`"date_of_death" can't be before "date_of_birth"`)
	}
	return nil
}
