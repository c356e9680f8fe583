package testutils

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
	Role     string  `json:"role" default:"admin" validate:"oneof=admin librarian member"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// createUser creates a test user with the requested role.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	role := &models.Role{}
	err := h.db.NewSelect().
		Model(role).
		Where("name = ?", req.Role).
		Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
	}

	_, err = h.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     role.Name,
	})
}

// deleteAllUsersResponse is the response body for deleting all users.
type deleteAllUsersResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes all users from the database.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var deleted int64
	err := h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.BookInstance)(nil)).
			Set("borrower_id = NULL").
			Where("borrower_id IS NOT NULL").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to detach borrowers")
		}

		result, err := tx.NewDelete().
			Model((*models.User)(nil)).
			Where("1=1").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete users")
		}
		deleted, _ = result.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteAllUsersResponse{
		Deleted: int(deleted),
	})
}

// createLoanRequest is the request body for lending out a test copy.
type createLoanRequest struct {
	Title      string `json:"title" validate:"required"`
	BorrowerID int    `json:"borrower_id" validate:"required,min=1"`
	DueBack    string `json:"due_back" validate:"required,date"`
}

// createLoan creates a book with one copy on loan to the given user.
// POST /test/loans.
func (h *handler) createLoan(c echo.Context) error {
	ctx := c.Request().Context()

	var req createLoanRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	dueBack, err := models.ParseDate(req.DueBack)
	if err != nil {
		return err
	}

	instance := &models.BookInstance{
		ID:         uuid.New(),
		Imprint:    "Test Imprint",
		DueBack:    &dueBack,
		Status:     models.InstanceStatusOnLoan,
		BorrowerID: &req.BorrowerID,
	}
	err = h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		book := &models.Book{Title: req.Title}
		if _, err := tx.NewInsert().Model(book).Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to create book")
		}

		instance.BookID = &book.ID
		if _, err := tx.NewInsert().Model(instance).Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to create book instance")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, instance)
}

// deleteCatalog empties every catalog table, leaving users and roles alone.
// DELETE /test/catalog.
func (h *handler) deleteCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	tables := []any{
		(*models.BookInstance)(nil),
		(*models.BookGenre)(nil),
		(*models.Book)(nil),
		(*models.Author)(nil),
		(*models.Genre)(nil),
		(*models.Language)(nil),
		(*models.IndexContent)(nil),
		(*models.Session)(nil),
	}
	err := h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range tables {
			if _, err := tx.NewDelete().Model(model).Where("1=1").Exec(ctx); err != nil {
				return errors.Wrap(err, "failed to empty catalog")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
