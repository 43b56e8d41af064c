package book

import (
	"context"
)

// Repository defines the contract for book data storage.
//
// All listing operations return books ordered by title ascending, using
// the backend's default collation. Implementations are designed for
// sequential use by a single caller; concurrent callers must serialize
// access externally.
type Repository interface {
	// Add inserts a new book and returns its storage-assigned id.
	// Returns ErrDuplicateISBN if the isbn collides with an existing row.
	Add(ctx context.Context, p AddParams) (int64, error)

	// List returns all books. An empty store yields an empty slice.
	List(ctx context.Context) ([]Book, error)

	// GetByID returns the book with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (Book, error)

	// Search returns books whose title or author contains term as a
	// substring. Wildcard metacharacters in term are not escaped, so "%"
	// and "_" keep their LIKE meaning. Known limitation, kept for parity
	// with the storage engine's plain LIKE semantics.
	Search(ctx context.Context, term string) ([]Book, error)

	// Update merges the patch with the current row and writes all five
	// mutable fields back in one statement. Returns ErrNotFound if id
	// does not exist, ErrDuplicateISBN if the merged isbn collides with
	// a different row.
	Update(ctx context.Context, id int64, patch Patch) error

	// Delete removes the book with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// ListByGenre returns books whose genre matches exactly.
	ListByGenre(ctx context.Context, genre string) ([]Book, error)

	// Close releases the storage connection. Subsequent operations
	// return ErrClosed.
	Close() error
}
