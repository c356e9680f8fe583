package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/migrations"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func getRoleIDByName(ctx context.Context, t *testing.T, db *bun.DB, roleName string) int {
	t.Helper()

	role := new(models.Role)
	err := db.NewSelect().
		Model(role).
		Where("name = ?", roleName).
		Scan(ctx)
	require.NoError(t, err)

	return role.ID
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "librarian",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleLibrarian),
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	require.NotNil(t, user.Role)
	assert.True(t, user.HasPermission(models.PermissionMarkReturned))
	assert.False(t, user.HasPermission(models.PermissionManageUsers))

	valid, err := svc.VerifyPassword(ctx, user.ID, "password123")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestServiceCreate_RejectsDuplicateUsernameIgnoringCase(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	roleID := getRoleIDByName(ctx, t, db, models.RoleMember)

	_, err := svc.Create(ctx, CreateUserOptions{Username: "reader", Password: "password123", RoleID: roleID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserOptions{Username: "READER", Password: "password123", RoleID: roleID})
	assert.ErrorIs(t, err, errcodes.ValidationError("Username already exists"))
}

func TestServiceCreate_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), CreateUserOptions{Username: "reader", Password: "password123", RoleID: 999})
	assert.ErrorIs(t, err, errcodes.ValidationError("Invalid role ID"))
}

func TestServiceRetrieveRoleByName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	role, err := svc.RetrieveRoleByName(ctx, "Admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role.Name)
	assert.Len(t, role.Permissions, len(models.AllPermissions))

	_, err = svc.RetrieveRoleByName(ctx, "janitor")
	assert.ErrorIs(t, err, errcodes.NotFound("Role"))
}

func TestServiceDelete_NullsBorrower(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "borrower",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleMember),
	})
	require.NoError(t, err)

	due := models.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	instance := &models.BookInstance{
		ID:         uuid.New(),
		Imprint:    "First edition",
		DueBack:    &due,
		Status:     models.InstanceStatusOnLoan,
		BorrowerID: &user.ID,
	}
	_, err = db.NewInsert().Model(instance).Exec(ctx)
	require.NoError(t, err)

	err = svc.Delete(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.Retrieve(ctx, user.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("User"))

	got := &models.BookInstance{}
	err = db.NewSelect().Model(got).Where("bi.id = ?", instance.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.BorrowerID)
	assert.Equal(t, models.InstanceStatusOnLoan, got.Status)
}

func TestServiceDelete_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, errcodes.NotFound("User"))
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	roleID := getRoleIDByName(ctx, t, db, models.RoleMember)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := svc.Create(ctx, CreateUserOptions{Username: name, Password: "password123", RoleID: roleID})
		require.NoError(t, err)
	}

	users, total, err := svc.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
}
