package books

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

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

func createGenres(ctx context.Context, t *testing.T, db *bun.DB, names ...string) []int {
	t.Helper()

	ids := make([]int, len(names))
	for i, name := range names {
		g := &models.Genre{Name: name}
		_, err := db.NewInsert().Model(g).Exec(ctx)
		require.NoError(t, err)
		ids[i] = g.ID
	}
	return ids
}

func titles(books []*models.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSearch_TitleContainsOrderedByTitle(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, title := range []string{
		"Harry Potter and the Sorcerer's Stone",
		"The Hobbit",
		"Dirty Harry",
		"Harry Potter and the Chamber of Secrets",
		"Harriet the Spy",
	} {
		require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: title}, nil))
	}

	q := "Harry"
	opts := ListBooksOptions{TitleContains: &q}
	books, err := svc.ListBooks(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Dirty Harry",
		"Harry Potter and the Chamber of Secrets",
		"Harry Potter and the Sorcerer's Stone",
	}, titles(books))

	count, err := svc.CountBooks(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSearch_CaseSensitivity(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Harry Potter"}, nil))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "harry and the hendersons"}, nil))

	q := "harry"
	books, err := svc.ListBooks(ctx, ListBooksOptions{TitleContains: &q})
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = svc.ListBooks(ctx, ListBooksOptions{TitleContains: &q, CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"harry and the hendersons"}, titles(books))
}

func TestSearch_TreatsWildcardsLiterally(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "100% Wolf"}, nil))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "1000 Wolves"}, nil))

	q := "0%"
	books, err := svc.ListBooks(ctx, ListBooksOptions{TitleContains: &q})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Wolf"}, titles(books))
}

func TestListBooks_LimitOffset(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: fmt.Sprintf("Book %02d", i)}, nil))
	}

	limit, offset := 20, 40
	books, err := svc.ListBooks(ctx, ListBooksOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.Len(t, books, 5)
	assert.Equal(t, "Book 40", books[0].Title)
}

func TestCreateBook_WithRelations(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	author := &models.Author{FirstName: "J.R.R.", LastName: "Tolkien"}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)
	language := &models.Language{Name: "English"}
	_, err = db.NewInsert().Model(language).Exec(ctx)
	require.NoError(t, err)
	genreIDs := createGenres(ctx, t, db, "Fantasy", "Adventure", "Classic", "Children")

	book := &models.Book{Title: "The Hobbit", AuthorID: &author.ID, LanguageID: &language.ID, ISBN: "9780261102217"}
	require.NoError(t, svc.CreateBook(ctx, book, genreIDs))

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Tolkien", got.Author.LastName)
	require.NotNil(t, got.Language)
	assert.Equal(t, "English", got.Language.Name)
	require.Len(t, got.Genres, 4)
	assert.Equal(t, "Fantasy, Adventure, Classic", got.DisplayGenre())
}

func TestCreateBook_RejectsUnknownReferences(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	missing := 99
	err := svc.CreateBook(ctx, &models.Book{Title: "Orphan", AuthorID: &missing}, nil)
	assert.ErrorIs(t, err, errcodes.ValidationError(`"author_id" doesn't match an author`))

	err = svc.CreateBook(ctx, &models.Book{Title: "Orphan"}, []int{missing})
	assert.ErrorIs(t, err, errcodes.ValidationError(`"genre_ids" contains an unknown genre`))

	count, err := svc.CountBooks(ctx, ListBooksOptions{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateBook_ReplacesGenres(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	ids := createGenres(ctx, t, db, "Fantasy", "Horror", "Poetry")
	book := &models.Book{Title: "Beowulf"}
	require.NoError(t, svc.CreateBook(ctx, book, ids[:2]))

	replacement := []int{ids[2], ids[2]}
	book.Title = "Beowulf: A New Translation"
	err := svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"title"}, GenreIDs: &replacement})
	require.NoError(t, err)

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Beowulf: A New Translation", got.Title)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Poetry", got.Genres[0].Name)
}

func TestDeleteBook_DetachesInstances(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	ids := createGenres(ctx, t, db, "Fantasy")
	book := &models.Book{Title: "The Hobbit"}
	require.NoError(t, svc.CreateBook(ctx, book, ids))

	instanceIDs := []uuid.UUID{uuid.New(), uuid.New()}
	for _, id := range instanceIDs {
		_, err := db.NewInsert().Model(&models.BookInstance{
			ID:      id,
			BookID:  &book.ID,
			Imprint: "Allen & Unwin",
			Status:  models.InstanceStatusAvailable,
		}).Exec(ctx)
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))

	var instances []*models.BookInstance
	err = db.NewSelect().Model(&instances).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	for _, bi := range instances {
		assert.Nil(t, bi.BookID)
		assert.Equal(t, "Allen & Unwin", bi.Imprint)
	}

	genreCount, err := db.NewSelect().Model((*models.Genre)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, genreCount)
}
