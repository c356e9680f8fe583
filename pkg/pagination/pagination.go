package pagination

import (
	"strconv"
	"strings"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 20

// Page describes one page of a result set.
type Page struct {
	Number      int  `json:"page"`
	NumPages    int  `json:"num_pages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	// IsPaginated is only true when there's more than one page to move
	// between.
	IsPaginated bool `json:"is_paginated"`

	size int
}

// New resolves the raw page parameter against the total result count. A page
// that isn't a number resolves to the first page, and a page past the end
// resolves to the last page.
func New(rawPage string, total, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(strings.TrimSpace(rawPage))
	switch {
	case err != nil, number < 1:
		number = 1
	case number > numPages:
		number = numPages
	}

	return Page{
		Number:      number,
		NumPages:    numPages,
		Total:       total,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
		IsPaginated: numPages > 1,
		size:        size,
	}
}

// Limit is the number of rows to fetch for the page.
func (p Page) Limit() int {
	return p.size
}

// Offset is the number of rows to skip before the page starts.
func (p Page) Offset() int {
	return (p.Number - 1) * p.size
}

// Result pairs a page of items with its position in the full result set.
type Result[T any] struct {
	Items []T `json:"items"`
	Page
}
