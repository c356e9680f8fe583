package models

import (
	"time"

	"github.com/uptrace/bun"
)

// IndexContent is editable copy for the home page. The first record is the
// introduction.
type IndexContent struct {
	bun.BaseModel `bun:"table:index_contents,alias:ic"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	Body      string    `json:"body"`
}
