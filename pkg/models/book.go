package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// displayGenreLimit caps how many genre names DisplayGenre joins.
const displayGenreLimit = 3

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int             `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `bun:",nullzero" json:"title"`
	AuthorID   *int            `json:"author_id"`
	Author     *Author         `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Summary    string          `json:"summary"`
	ISBN       string          `bun:"isbn" json:"isbn"`
	LanguageID *int            `json:"language_id"`
	Language   *Language       `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty"`
	BookGenres []*BookGenre    `bun:"rel:has-many,join:id=book_id" json:"-"`
	Genres     []*Genre        `bun:"-" json:"genres,omitempty"`
	Instances  []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty"`
}

// ResolveGenres flattens the loaded BookGenres links into Genres.
func (b *Book) ResolveGenres() {
	if b.BookGenres == nil {
		return
	}
	b.Genres = make([]*Genre, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		if bg.Genre != nil {
			b.Genres = append(b.Genres, bg.Genre)
		}
	}
}

// DisplayGenre joins the names of the first few genres for list views.
func (b *Book) DisplayGenre() string {
	names := make([]string, 0, displayGenreLimit)
	for _, g := range b.Genres {
		if len(names) == displayGenreLimit {
			break
		}
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}
