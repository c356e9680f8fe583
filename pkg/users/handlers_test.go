package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersTestContext(t *testing.T, method, payload, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func withID(c echo.Context, path string, id int) {
	c.SetPath(path)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(id))
}

func TestHandlerResetPassword_Self_RequiresCurrentPassword(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{userService: NewService(db)}
	ctx := context.Background()

	user, err := h.userService.Create(ctx, CreateUserOptions{
		Username: "normalselfreset",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleMember),
	})
	require.NoError(t, err)

	c, _ := newUsersTestContext(t, http.MethodPost, `{"new_password":"newpassword123"}`, "/users/"+strconv.Itoa(user.ID)+"/reset-password")
	withID(c, "/users/:id/reset-password", user.ID)
	c.Set("user_id", user.ID)
	c.Set("user", user)

	err = h.resetPassword(c)
	assert.ErrorIs(t, err, errcodes.ValidationError("Current password is required when resetting your own password"))

	c, rr := newUsersTestContext(t, http.MethodPost, `{"current_password":"password123","new_password":"newpassword123"}`, "/users/"+strconv.Itoa(user.ID)+"/reset-password")
	withID(c, "/users/:id/reset-password", user.ID)
	c.Set("user_id", user.ID)
	c.Set("user", user)

	err = h.resetPassword(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	valid, err := h.userService.VerifyPassword(ctx, user.ID, "newpassword123")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestHandlerResetPassword_Other_RequiresManageUsers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{userService: NewService(db)}
	ctx := context.Background()

	target, err := h.userService.Create(ctx, CreateUserOptions{
		Username: "target",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleMember),
	})
	require.NoError(t, err)
	librarian, err := h.userService.Create(ctx, CreateUserOptions{
		Username: "librarian",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleLibrarian),
	})
	require.NoError(t, err)

	c, _ := newUsersTestContext(t, http.MethodPost, `{"new_password":"newpassword123"}`, "/users/"+strconv.Itoa(target.ID)+"/reset-password")
	withID(c, "/users/:id/reset-password", target.ID)
	c.Set("user_id", librarian.ID)
	c.Set("user", librarian)

	err = h.resetPassword(c)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusForbidden, codeErr.HTTPCode)

	valid, err := h.userService.VerifyPassword(ctx, target.ID, "password123")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestHandlerDelete_RejectsSelf(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{userService: NewService(db)}
	ctx := context.Background()

	admin, err := h.userService.Create(ctx, CreateUserOptions{
		Username: "admin",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleAdmin),
	})
	require.NoError(t, err)

	c, _ := newUsersTestContext(t, http.MethodDelete, "", "/users/"+strconv.Itoa(admin.ID))
	withID(c, "/users/:id", admin.ID)
	c.Set("user_id", admin.ID)

	err = h.deleteUser(c)
	assert.ErrorIs(t, err, errcodes.ValidationError("You cannot delete your own account"))

	_, err = h.userService.Retrieve(ctx, admin.ID)
	require.NoError(t, err)
}

func TestHandlerUpdate_ChangesRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{userService: NewService(db)}
	ctx := context.Background()

	user, err := h.userService.Create(ctx, CreateUserOptions{
		Username: "promoted",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleMember),
	})
	require.NoError(t, err)

	librarianID := getRoleIDByName(ctx, t, db, models.RoleLibrarian)
	c, rr := newUsersTestContext(t, http.MethodPatch, `{"role_id":`+strconv.Itoa(librarianID)+`}`, "/users/"+strconv.Itoa(user.ID))
	withID(c, "/users/:id", user.ID)

	err = h.update(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	updated, err := h.userService.Retrieve(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasPermission(models.PermissionCreateCopy))
}
