package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type pageResponse struct {
	Items []struct {
		ID           int    `json:"id"`
		Title        string `json:"title"`
		DisplayGenre string `json:"display_genre"`
	} `json:"items"`
	Page        int  `json:"page"`
	NumPages    int  `json:"num_pages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	IsPaginated bool `json:"is_paginated"`
}

func newTestHandler(db *bun.DB) *handler {
	return &handler{
		bookService: NewService(db),
		pageSize:    20,
		now: func() time.Time {
			return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		},
	}
}

func newTestContext(t *testing.T, method, target, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func withID(c echo.Context, id int) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(id))
	return c
}

func TestHandlerList_Pages(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		require.NoError(t, h.bookService.CreateBook(ctx, &models.Book{Title: fmt.Sprintf("Book %02d", i)}, nil))
	}

	tests := []struct {
		name         string
		target       string
		wantPage     int
		wantItems    int
		wantFirst    string
		wantNext     bool
		wantPrevious bool
	}{
		{"first page", "/books", 1, 20, "Book 00", true, false},
		{"middle page", "/books?page=2", 2, 20, "Book 20", true, true},
		{"last page", "/books?page=3", 3, 5, "Book 40", false, true},
		{"past the end", "/books?page=9", 3, 5, "Book 40", false, true},
		{"not a number", "/books?page=last", 1, 20, "Book 00", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rr := newTestContext(t, http.MethodGet, tt.target, "")
			require.NoError(t, h.list(c))
			assert.Equal(t, http.StatusOK, rr.Code)

			var resp pageResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, 3, resp.NumPages)
			assert.Equal(t, 45, resp.Total)
			assert.True(t, resp.IsPaginated)
			assert.Equal(t, tt.wantNext, resp.HasNext)
			assert.Equal(t, tt.wantPrevious, resp.HasPrevious)
			require.Len(t, resp.Items, tt.wantItems)
			assert.Equal(t, tt.wantFirst, resp.Items[0].Title)
		})
	}
}

func TestHandlerList_Empty(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)

	c, rr := newTestContext(t, http.MethodGet, "/books", "")
	require.NoError(t, h.list(c))

	var resp pageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 1, resp.Page)
	assert.False(t, resp.IsPaginated)
	assert.Contains(t, rr.Body.String(), `"items":[]`)
}

func TestHandlerSearch(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)
	ctx := context.Background()

	genre := &models.Genre{Name: "Fantasy"}
	_, err := db.NewInsert().Model(genre).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, h.bookService.CreateBook(ctx, &models.Book{Title: "Harry Potter and the Goblet of Fire"}, []int{genre.ID}))
	require.NoError(t, h.bookService.CreateBook(ctx, &models.Book{Title: "Emma"}, nil))

	t.Run("matches titles", func(t *testing.T) {
		c, rr := newTestContext(t, http.MethodGet, "/books/search?q=+potter+", "")
		require.NoError(t, h.search(c))

		var resp pageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Harry Potter and the Goblet of Fire", resp.Items[0].Title)
		assert.Equal(t, "Fantasy", resp.Items[0].DisplayGenre)
	})

	t.Run("requires a query", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/books/search", "")
		err := h.search(c)
		require.Error(t, err)

		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, http.StatusUnprocessableEntity, codeErr.HTTPCode)
		assert.Equal(t, `"q" is required`, codeErr.Message)
	})
}

func TestHandlerRetrieve_FlagsOverdueCopies(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)
	ctx := context.Background()

	book := &models.Book{Title: "Middlemarch"}
	require.NoError(t, h.bookService.CreateBook(ctx, book, nil))

	overdue := models.NewDate(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	dueToday := models.NewDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	for _, due := range []models.Date{overdue, dueToday} {
		due := due
		_, err := db.NewInsert().Model(&models.BookInstance{
			ID:      uuid.New(),
			BookID:  &book.ID,
			Imprint: "Penguin",
			Status:  models.InstanceStatusOnLoan,
			DueBack: &due,
		}).Exec(ctx)
		require.NoError(t, err)
	}

	c, rr := newTestContext(t, http.MethodGet, "/books/"+strconv.Itoa(book.ID), "")
	require.NoError(t, h.retrieve(withID(c, book.ID)))

	var resp struct {
		Title     string `json:"title"`
		Instances []struct {
			DueBack   string `json:"due_back"`
			IsOverdue bool   `json:"is_overdue"`
		} `json:"instances"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Middlemarch", resp.Title)
	require.Len(t, resp.Instances, 2)
	assert.Equal(t, "2026-03-09", resp.Instances[0].DueBack)
	assert.True(t, resp.Instances[0].IsOverdue)
	assert.Equal(t, "2026-03-10", resp.Instances[1].DueBack)
	assert.False(t, resp.Instances[1].IsOverdue)
}

func TestHandlerRetrieve_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)

	c, _ := newTestContext(t, http.MethodGet, "/books/42", "")
	err := h.retrieve(withID(c, 42))
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerCreate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)
	ctx := context.Background()

	author := &models.Author{FirstName: "George", LastName: "Eliot"}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)

	t.Run("sets the location", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title":"  Silas Marner ","author_id":%d,"summary":"A weaver.","isbn":"9780141439754"}`, author.ID)
		c, rr := newTestContext(t, http.MethodPost, "/books", payload)
		require.NoError(t, h.create(c))
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			ID     int    `json:"id"`
			Title  string `json:"title"`
			Author struct {
				LastName string `json:"last_name"`
			} `json:"author"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Silas Marner", resp.Title)
		assert.Equal(t, "Eliot", resp.Author.LastName)
		assert.Equal(t, "/books/"+strconv.Itoa(resp.ID), rr.Header().Get(echo.HeaderLocation))
	})

	t.Run("requires a title", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPost, "/books", `{"summary":"Untitled"}`)
		err := h.create(c)

		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, `"title" is required`, codeErr.Message)
	})
}

func TestHandlerUpdate_ClearsAuthor(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := newTestHandler(db)
	ctx := context.Background()

	author := &models.Author{FirstName: "Mary", LastName: "Shelley"}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)
	book := &models.Book{Title: "Frankenstein", AuthorID: &author.ID}
	require.NoError(t, h.bookService.CreateBook(ctx, book, nil))

	c, rr := newTestContext(t, http.MethodPatch, "/books/"+strconv.Itoa(book.ID), `{"author_id":0,"summary":"Revised."}`)
	require.NoError(t, h.update(withID(c, book.ID)))
	assert.Equal(t, http.StatusOK, rr.Code)

	got, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Nil(t, got.AuthorID)
	assert.Nil(t, got.Author)
	assert.Equal(t, "Revised.", got.Summary)
}
