package catalog

import (
	"context"
	"fmt"

	"github.com/m3rciful/bookbot/core/logger"
	"log/slog"
)

// RecordRecommendation appends one row to the recommendation log. The log is
// append-only and carries no uniqueness constraint.
func (s *Store) RecordRecommendation(ctx context.Context, userID, bookID int64) error {
	const q = `INSERT INTO recommendations (user_id, book_id) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, q, userID, bookID); err != nil {
		return fmt.Errorf("record recommendation user=%d book=%d: %w", userID, bookID, err)
	}
	return nil
}

// AddToReadingList inserts a (user, book) pair. A duplicate pair is a no-op.
func (s *Store) AddToReadingList(ctx context.Context, userID, bookID int64) error {
	const q = `
		INSERT INTO reading_list (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, userID, bookID); err != nil {
		return fmt.Errorf("add to reading list user=%d book=%d: %w", userID, bookID, err)
	}
	logger.Debug(ctx, "service.catalog", "reading_list.add",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
	)
	return nil
}

// ListReadingList returns the books the user has saved, oldest first.
func (s *Store) ListReadingList(ctx context.Context, userID int64) ([]Book, error) {
	const q = `
		SELECT ` + bookColumns + `
		FROM reading_list rl
		JOIN books b ON b.book_id = rl.book_id
		LEFT JOIN genres g ON b.genre_id = g.genre_id
		WHERE rl.user_id = $1
		ORDER BY rl.added_at`
	var books []Book
	if err := s.db.SelectContext(ctx, &books, q, userID); err != nil {
		return nil, fmt.Errorf("list reading list for %d: %w", userID, err)
	}
	return books, nil
}

// UserStats counts the user's owned books, recommendation log rows, and
// reading list entries in one round-trip.
func (s *Store) UserStats(ctx context.Context, userID int64) (UserStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM books WHERE owner_id = $1)           AS books_added,
			(SELECT COUNT(*) FROM recommendations WHERE user_id = $1)  AS recommendations_received,
			(SELECT COUNT(*) FROM reading_list WHERE user_id = $1)     AS reading_list_count`
	var stats UserStats
	if err := s.db.GetContext(ctx, &stats, q, userID); err != nil {
		return UserStats{}, fmt.Errorf("user stats for %d: %w", userID, err)
	}
	return stats, nil
}
