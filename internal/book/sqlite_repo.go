package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS books (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	title  TEXT NOT NULL,
	author TEXT NOT NULL,
	year   INTEGER,
	isbn   TEXT UNIQUE,
	genre  TEXT
)`

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, year, isbn, genre`

// SQLiteRepo is a Repository backed by an embedded SQLite database file.
type SQLiteRepo struct {
	db     *sql.DB
	closed bool
}

// OpenSQLite opens or creates the SQLite database at path and ensures the
// books schema exists. Safe to call against a pre-existing database.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single logical connection, sequential use.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Add(ctx context.Context, p AddParams) (int64, error) {
	if r.closed {
		return 0, ErrClosed
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author, year, isbn, genre) VALUES (?, ?, ?, ?, ?)`,
		p.Title, p.Author, nullableInt(p.Year), nullableString(p.ISBN), nullableString(p.Genre),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateISBN
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Book, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title`)
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	if r.closed {
		return Book{}, ErrClosed
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *SQLiteRepo) Search(ctx context.Context, term string) ([]Book, error) {
	if r.closed {
		return nil, ErrClosed
	}
	pattern := "%" + term + "%"
	return r.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books WHERE title LIKE ? OR author LIKE ? ORDER BY title`,
		pattern, pattern,
	)
}

// Update loads the current row, overlays the patch, and writes all five
// fields back. Read and write share one transaction so a concurrent update
// to the same id cannot interleave between them.
func (r *SQLiteRepo) Update(ctx context.Context, id int64, patch Patch) error {
	if r.closed {
		return ErrClosed
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	current, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	patch.apply(&current)

	res, err := tx.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, year = ?, isbn = ?, genre = ? WHERE id = ?`,
		current.Title, current.Author, nullableInt(current.Year),
		nullableString(current.ISBN), nullableString(current.Genre), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateISBN
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	if r.closed {
		return ErrClosed
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) ListByGenre(ctx context.Context, genre string) ([]Book, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books WHERE genre = ? ORDER BY title`, genre)
}

// Close closes the underlying database connection. Idempotent.
func (r *SQLiteRepo) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

func (r *SQLiteRepo) queryBooks(ctx context.Context, query string, args ...any) ([]Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (Book, error) {
	var (
		b     Book
		year  sql.NullInt64
		isbn  sql.NullString
		genre sql.NullString
	)
	if err := scanner.Scan(&b.ID, &b.Title, &b.Author, &year, &isbn, &genre); err != nil {
		return Book{}, err
	}
	if year.Valid {
		y := int(year.Int64)
		b.Year = &y
	}
	if isbn.Valid {
		b.ISBN = &isbn.String
	}
	if genre.Valid {
		b.Genre = &genre.String
	}
	return b, nil
}

// nullableString returns a sql.NullString from a *string.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullableInt returns a sql.NullInt64 from a *int.
func nullableInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
