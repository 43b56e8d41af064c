package book

import (
	"errors"
)

// Sentinel errors shared by all Repository implementations.
var (
	// ErrNotFound is returned when no book matches the given id.
	ErrNotFound = errors.New("book not found")

	// ErrDuplicateISBN is returned when an insert or update would violate
	// the unique constraint on isbn.
	ErrDuplicateISBN = errors.New("isbn already exists")

	// ErrClosed is returned for any operation attempted after Close.
	ErrClosed = errors.New("book store is closed")
)

// Book represents a book record.
type Book struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Year   *int    `json:"year,omitempty"`
	ISBN   *string `json:"isbn,omitempty"`
	Genre  *string `json:"genre,omitempty"`
}

// AddParams carries the fields for creating a book. Title and Author are
// required by the schema; the optional fields are stored as NULL when nil.
type AddParams struct {
	Title  string
	Author string
	Year   *int
	ISBN   *string
	Genre  *string
}

// Patch describes a partial update. A nil field keeps the current stored
// value; a non-nil field overwrites it. A patch cannot reset a stored
// field back to NULL.
type Patch struct {
	Title  *string
	Author *string
	Year   *int
	ISBN   *string
	Genre  *string
}

// apply overlays the patch onto b.
func (p Patch) apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Year != nil {
		b.Year = p.Year
	}
	if p.ISBN != nil {
		b.ISBN = p.ISBN
	}
	if p.Genre != nil {
		b.Genre = p.Genre
	}
}
