package books

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/pkg/errors"
)

type handler struct {
	bookService         *Service
	pageSize            int
	searchCaseSensitive bool
	now                 func() time.Time
}

// bookResponse adds the short genre summary shown in listings.
type bookResponse struct {
	*models.Book
	DisplayGenre string `json:"display_genre"`
}

func newBookResponse(b *models.Book) bookResponse {
	return bookResponse{b, b.DisplayGenre()}
}

func (h *handler) list(c echo.Context) error {
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	return h.respondWithPage(c, params.Page, ListBooksOptions{})
}

func (h *handler) search(c echo.Context) error {
	params := SearchBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	return h.respondWithPage(c, params.Page, ListBooksOptions{
		TitleContains: &params.Q,
		CaseSensitive: h.searchCaseSensitive,
	})
}

func (h *handler) respondWithPage(c echo.Context, rawPage string, opts ListBooksOptions) error {
	result, err := h.page(c.Request().Context(), rawPage, opts)
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) page(ctx context.Context, rawPage string, opts ListBooksOptions) (pagination.Result[bookResponse], error) {
	total, err := h.bookService.CountBooks(ctx, opts)
	if err != nil {
		return pagination.Result[bookResponse]{}, errors.WithStack(err)
	}
	page := pagination.New(rawPage, total, h.pageSize)

	limit, offset := page.Limit(), page.Offset()
	opts.Limit = &limit
	opts.Offset = &offset
	books, err := h.bookService.ListBooks(ctx, opts)
	if err != nil {
		return pagination.Result[bookResponse]{}, errors.WithStack(err)
	}

	items := make([]bookResponse, len(books))
	for i, b := range books {
		items[i] = newBookResponse(b)
	}
	return pagination.Result[bookResponse]{Items: items, Page: page}, nil
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	today := models.Today(h.now)
	for _, bi := range book.Instances {
		bi.IsOverdue = bi.Overdue(today)
	}
	if book.Instances == nil {
		book.Instances = []*models.BookInstance{}
	}

	return errors.WithStack(c.JSON(http.StatusOK, newBookResponse(book)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:      params.Title,
		AuthorID:   params.AuthorID,
		Summary:    params.Summary,
		ISBN:       params.ISBN,
		LanguageID: params.LanguageID,
	}
	if err := h.bookService.CreateBook(ctx, book, params.GenreIDs); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/books/"+strconv.Itoa(book.ID))
	return errors.WithStack(c.JSON(http.StatusCreated, newBookResponse(book)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{GenreIDs: params.GenreIDs}
	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Summary != nil && *params.Summary != book.Summary {
		book.Summary = *params.Summary
		opts.Columns = append(opts.Columns, "summary")
	}
	if params.ISBN != nil && *params.ISBN != book.ISBN {
		book.ISBN = *params.ISBN
		opts.Columns = append(opts.Columns, "isbn")
	}
	if params.AuthorID != nil {
		book.AuthorID = nilIfZero(*params.AuthorID)
		opts.Columns = append(opts.Columns, "author_id")
	}
	if params.LanguageID != nil {
		book.LanguageID = nilIfZero(*params.LanguageID)
		opts.Columns = append(opts.Columns, "language_id")
	}

	if err := h.bookService.UpdateBook(ctx, book, opts); err != nil {
		return errors.WithStack(err)
	}

	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, newBookResponse(book)))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func nilIfZero(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}
