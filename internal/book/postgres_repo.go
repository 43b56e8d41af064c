package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// PostgresRepo is a Repository backed by PostgreSQL. The books schema is
// managed by cmd/migrate; OpenPostgres does not create it.
type PostgresRepo struct {
	db     *pgxpool.Pool
	closed bool
}

// OpenPostgres connects to the database at dsn and verifies it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresRepo{db: pool}, nil
}

func (r *PostgresRepo) Add(ctx context.Context, p AddParams) (int64, error) {
	if r.closed {
		return 0, ErrClosed
	}
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO books (title, author, year, isbn, genre)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Title, p.Author, p.Year, p.ISBN, p.Genre,
	).Scan(&id)
	if err != nil {
		if isPGUniqueViolation(err) {
			return 0, ErrDuplicateISBN
		}
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.queryBooks(ctx,
		`SELECT id, title, author, year, isbn, genre FROM books ORDER BY title`)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	if r.closed {
		return Book{}, ErrClosed
	}
	row := r.db.QueryRow(ctx,
		`SELECT id, title, author, year, isbn, genre FROM books WHERE id = $1`, id)
	return scanPGBook(row)
}

func (r *PostgresRepo) Search(ctx context.Context, term string) ([]Book, error) {
	if r.closed {
		return nil, ErrClosed
	}
	pattern := "%" + term + "%"
	return r.queryBooks(ctx,
		`SELECT id, title, author, year, isbn, genre FROM books
		 WHERE title LIKE $1 OR author LIKE $2
		 ORDER BY title`,
		pattern, pattern,
	)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, patch Patch) error {
	if r.closed {
		return ErrClosed
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT id, title, author, year, isbn, genre FROM books WHERE id = $1`, id)
	current, err := scanPGBook(row)
	if err != nil {
		return err
	}

	patch.apply(&current)

	tag, err := tx.Exec(ctx,
		`UPDATE books SET title = $1, author = $2, year = $3, isbn = $4, genre = $5
		 WHERE id = $6`,
		current.Title, current.Author, current.Year, current.ISBN, current.Genre, id,
	)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicateISBN
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	if r.closed {
		return ErrClosed
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListByGenre(ctx context.Context, genre string) ([]Book, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.queryBooks(ctx,
		`SELECT id, title, author, year, isbn, genre FROM books
		 WHERE genre = $1
		 ORDER BY title`, genre)
}

// Close releases the connection pool. Idempotent.
func (r *PostgresRepo) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.db.Close()
	return nil
}

func (r *PostgresRepo) queryBooks(ctx context.Context, query string, args ...any) ([]Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.ISBN, &b.Genre); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func scanPGBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.ISBN, &b.Genre)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func isPGUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
