package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m3rciful/bookbot/core/logger"
	"log/slog"
)

const bookColumns = `b.book_id, b.title, b.author, b.genre_id,
	COALESCE(g.genre_name, '') AS genre_name,
	COALESCE(b.publication_year, 0) AS publication_year,
	b.owner_id, b.rating`

// RecommendBooks returns up to limit books of the given genre in uniform
// random order. Only shared catalog books (no owner) count as inventory.
func (s *Store) RecommendBooks(ctx context.Context, genreName string, limit int) ([]Book, error) {
	const q = `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN genres g ON b.genre_id = g.genre_id
		WHERE g.genre_name = $1 AND b.owner_id IS NULL
		ORDER BY RANDOM()
		LIMIT $2`
	var books []Book
	if err := s.db.SelectContext(ctx, &books, q, genreName, limit); err != nil {
		return nil, fmt.Errorf("recommend books for %q: %w", genreName, err)
	}
	logger.Debug(ctx, "service.catalog", "books.recommend",
		slog.String("genre", genreName),
		slog.Int("books_shown", len(books)),
	)
	return books, nil
}

// RandomBook picks one uniformly random book from the entire catalog, owned
// or shared. ErrNotFound signals an empty catalog.
func (s *Store) RandomBook(ctx context.Context) (Book, error) {
	const q = `
		SELECT ` + bookColumns + `
		FROM books b
		LEFT JOIN genres g ON b.genre_id = g.genre_id
		ORDER BY RANDOM()
		LIMIT 1`
	var book Book
	err := s.db.GetContext(ctx, &book, q)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("random book: %w", err)
	}
	return book, nil
}

// InsertBook commits a fully collected book owned by ownerID and returns the
// new id. This is the only write of the add-book flow; no partial row exists
// before it.
func (s *Store) InsertBook(ctx context.Context, title, author string, genreID int64, year int, ownerID int64, rating *int) (int64, error) {
	const q = `
		INSERT INTO books (title, author, genre_id, publication_year, owner_id, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING book_id`
	var id int64
	if err := s.db.GetContext(ctx, &id, q, title, author, genreID, year, ownerID, rating); err != nil {
		logger.Error(ctx, "service.catalog", "books.insert",
			slog.Int64("user_id", ownerID),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("insert book: %w", err)
	}
	logger.Info(ctx, "service.catalog", "books.insert",
		slog.String("status", "ok"),
		slog.Int64("book_id", id),
		slog.Int64("user_id", ownerID),
	)
	return id, nil
}

// UpdateBookField sets a single enumerated field on a book, restricted to
// rows owned by ownerID. It reports the number of affected rows so callers
// can distinguish a missing or foreign book from a real update.
func (s *Store) UpdateBookField(ctx context.Context, bookID, ownerID int64, field BookField, value any) (int64, error) {
	column, ok := field.Column()
	if !ok {
		return 0, fmt.Errorf("update book %d: unknown field %q", bookID, field)
	}
	// column comes from the fixed bookFieldColumns table, never from input.
	q := fmt.Sprintf(`UPDATE books SET %s = $1 WHERE book_id = $2 AND owner_id = $3`, column)
	res, err := s.db.ExecContext(ctx, q, value, bookID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("update book %d field %s: %w", bookID, field, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update book %d rows: %w", bookID, err)
	}
	logger.Info(ctx, "service.catalog", "books.update",
		slog.String("status", "ok"),
		slog.Int64("book_id", bookID),
		slog.Int64("user_id", ownerID),
		slog.String("field", string(field)),
		slog.Int64("count", rows),
	)
	return rows, nil
}

// DeleteBook removes a book restricted to the requesting owner and reports
// how many rows matched.
func (s *Store) DeleteBook(ctx context.Context, bookID, ownerID int64) (int64, error) {
	const q = `DELETE FROM books WHERE book_id = $1 AND owner_id = $2`
	res, err := s.db.ExecContext(ctx, q, bookID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete book %d: %w", bookID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete book %d rows: %w", bookID, err)
	}
	return rows, nil
}

// ListOwnedBooks returns the user's personal library in insertion order.
func (s *Store) ListOwnedBooks(ctx context.Context, userID int64) ([]Book, error) {
	const q = `
		SELECT ` + bookColumns + `
		FROM books b
		LEFT JOIN genres g ON b.genre_id = g.genre_id
		WHERE b.owner_id = $1
		ORDER BY b.book_id`
	var books []Book
	if err := s.db.SelectContext(ctx, &books, q, userID); err != nil {
		return nil, fmt.Errorf("list owned books for %d: %w", userID, err)
	}
	return books, nil
}
