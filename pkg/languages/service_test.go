package languages

import (
	"context"
	"database/sql"
	"testing"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/migrations"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
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

func TestDeleteLanguage_NullsBookLanguage(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	language := &models.Language{Name: "English"}
	require.NoError(t, svc.CreateLanguage(ctx, language))

	book := &models.Book{Title: "Emma", LanguageID: &language.ID}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLanguage(ctx, language.ID))

	_, err = svc.RetrieveLanguage(ctx, language.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Language"))

	got := &models.Book{}
	err = db.NewSelect().Model(got).Where("b.id = ?", book.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Emma", got.Title)
	assert.Nil(t, got.LanguageID)
}

func TestListLanguages(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"French", "English", "Farsi"} {
		require.NoError(t, svc.CreateLanguage(ctx, &models.Language{Name: name}))
	}

	limit := 2
	languages, total, err := svc.ListLanguagesWithTotal(ctx, ListLanguagesOptions{Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, languages, 2)
	assert.Equal(t, "English", languages[0].Name)
	assert.Equal(t, "Farsi", languages[1].Name)
}
