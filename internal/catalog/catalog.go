// Package catalog is the gateway to the book/genre/user relational data.
// Every query is parameterized; callers receive explicit errors and decide
// how to present them.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/bookbot/core/logger"
	"log/slog"
)

// ErrNotFound reports that a lookup matched no row.
var ErrNotFound = errors.New("catalog: not found")

// Store executes catalog queries against Postgres.
type Store struct {
	db *sqlx.DB
}

// New wraps an established connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureUser registers a chat user on first contact. Idempotent.
func (s *Store) EnsureUser(ctx context.Context, id int64, username, firstName, lastName string) error {
	const q = `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, id, username, firstName, lastName); err != nil {
		logger.Error(ctx, "service.catalog", "user.ensure",
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("ensure user %d: %w", id, err)
	}
	return nil
}

// ListGenres returns all genres in seed order.
func (s *Store) ListGenres(ctx context.Context) ([]Genre, error) {
	const q = `SELECT genre_id, genre_name FROM genres ORDER BY genre_id`
	var genres []Genre
	if err := s.db.SelectContext(ctx, &genres, q); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// GenreID resolves a genre by exact name, returning ErrNotFound for unknown
// names.
func (s *Store) GenreID(ctx context.Context, name string) (int64, error) {
	const q = `SELECT genre_id FROM genres WHERE genre_name = $1`
	var id int64
	err := s.db.GetContext(ctx, &id, q, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("genre id %q: %w", name, err)
	}
	return id, nil
}
