package books

type ListBooksQuery struct {
	Page string `query:"page" json:"page,omitempty"`
}

type SearchBooksQuery struct {
	Q    string `query:"q" json:"q" mod:"trim" validate:"required,max=200"`
	Page string `query:"page" json:"page,omitempty"`
}

type CreateBookPayload struct {
	Title      string `json:"title" mod:"trim" validate:"required,max=200"`
	AuthorID   *int   `json:"author_id,omitempty" validate:"omitempty,min=1"`
	Summary    string `json:"summary" validate:"max=1000"`
	ISBN       string `json:"isbn" mod:"trim" validate:"max=13"`
	GenreIDs   []int  `json:"genre_ids,omitempty" validate:"omitempty,dive,min=1"`
	LanguageID *int   `json:"language_id,omitempty" validate:"omitempty,min=1"`
}

// UpdateBookPayload only touches the fields that are present. Sending
// author_id or language_id as 0 clears the reference, and genre_ids replaces
// the whole set.
type UpdateBookPayload struct {
	Title      *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	AuthorID   *int    `json:"author_id,omitempty" validate:"omitempty,min=0"`
	Summary    *string `json:"summary,omitempty" validate:"omitempty,max=1000"`
	ISBN       *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=13"`
	GenreIDs   *[]int  `json:"genre_ids,omitempty" validate:"omitempty,dive,min=1"`
	LanguageID *int    `json:"language_id,omitempty" validate:"omitempty,min=0"`
}
