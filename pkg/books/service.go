package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	// TitleContains restricts results to titles containing the text.
	TitleContains *string
	CaseSensitive bool
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genres when non-nil.
	GenreIDs *[]int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book along with its genre links.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := verifyReferences(ctx, tx, book, genreIDs); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return replaceGenres(ctx, tx, book.ID, genreIDs)
	})
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Language").
		Relation("BookGenres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre").
		Relation("Instances", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bi.status ASC", "bi.due_back ASC", "bi.id ASC")
		})

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	book.ResolveGenres()
	return book, nil
}

// CountBooks returns how many books match the list filters. Limit and offset
// are ignored.
func (svc *Service) CountBooks(ctx context.Context, opts ListBooksOptions) (int, error) {
	q := svc.db.NewSelect().Model((*models.Book)(nil))
	q = applyFilters(q, opts)

	count, err := q.Count(ctx)
	return count, errors.WithStack(err)
}

// ListBooks returns books ordered by title.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	var books []*models.Book

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Relation("BookGenres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre").
		Order("b.title ASC", "b.id ASC")
	q = applyFilters(q, opts)

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, b := range books {
		b.ResolveGenres()
	}
	return books, nil
}

func applyFilters(q *bun.SelectQuery, opts ListBooksOptions) *bun.SelectQuery {
	if opts.TitleContains != nil {
		if opts.CaseSensitive {
			q = q.Where("instr(b.title, ?) > 0", *opts.TitleContains)
		} else {
			q = q.Where(`b.title LIKE ? ESCAPE '\'`, "%"+escapeLike(*opts.TitleContains)+"%")
		}
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.GenreIDs == nil {
		return nil
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var genreIDs []int
		if opts.GenreIDs != nil {
			genreIDs = *opts.GenreIDs
		}
		if err := verifyReferences(ctx, tx, book, genreIDs); err != nil {
			return err
		}

		book.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")
		_, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if opts.GenreIDs == nil {
			return nil
		}
		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return replaceGenres(ctx, tx, book.ID, genreIDs)
	})
}

// DeleteBook deletes a book and its genre links. Its copies stay in the
// catalog detached from any book.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.BookInstance)(nil)).
			Set("book_id = NULL").
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
}

func replaceGenres(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	seen := make(map[int]struct{}, len(genreIDs))
	links := make([]*models.BookGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, &models.BookGenre{BookID: bookID, GenreID: id})
	}
	if len(links) == 0 {
		return nil
	}

	_, err := tx.NewInsert().Model(&links).Exec(ctx)
	return errors.WithStack(err)
}

// verifyReferences makes sure the author, language and genres the book points
// at exist, so a bad ID surfaces as a validation error rather than a
// constraint failure.
func verifyReferences(ctx context.Context, tx bun.Tx, book *models.Book, genreIDs []int) error {
	if book.AuthorID != nil {
		exists, err := tx.NewSelect().Model((*models.Author)(nil)).Where("id = ?", *book.AuthorID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"author_id" doesn't match an author`)
		}
	}
	if book.LanguageID != nil {
		exists, err := tx.NewSelect().Model((*models.Language)(nil)).Where("id = ?", *book.LanguageID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"language_id" doesn't match a language`)
		}
	}
	if len(genreIDs) > 0 {
		unique := make(map[int]struct{}, len(genreIDs))
		for _, id := range genreIDs {
			unique[id] = struct{}{}
		}
		count, err := tx.NewSelect().Model((*models.Genre)(nil)).Where("id IN (?)", bun.In(genreIDs)).Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count != len(unique) {
			return errcodes.ValidationError(`"genre_ids" contains an unknown genre`)
		}
	}
	return nil
}
