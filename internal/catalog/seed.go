package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/bookbot/core/logger"
	"log/slog"
)

var seedGenres = []string{"Fiction", "History", "Self-Help"}

type seedBook struct {
	title  string
	author string
	genre  string
	year   int
}

var seedBooks = []seedBook{
	{"1984", "George Orwell", "Fiction", 1949},
	{"Pride and Prejudice", "Jane Austen", "Fiction", 1813},
	{"Dune", "Frank Herbert", "Fiction", 1965},
	{"Sapiens", "Yuval Noah Harari", "History", 2011},
	{"The Guns of August", "Barbara W. Tuchman", "History", 1962},
	{"A People's History of the United States", "Howard Zinn", "History", 1980},
	{"Atomic Habits", "James Clear", "Self-Help", 2018},
	{"The Power of Now", "Eckhart Tolle", "Self-Help", 1997},
	{"Mindset", "Carol S. Dweck", "Self-Help", 2006},
}

// SeedGenres inserts the reference genres. Safe to run on every start.
func SeedGenres(ctx context.Context, db *sqlx.DB) error {
	const q = `INSERT INTO genres (genre_name) VALUES ($1) ON CONFLICT (genre_name) DO NOTHING`
	for _, name := range seedGenres {
		if _, err := db.ExecContext(ctx, q, name); err != nil {
			return fmt.Errorf("seed genre %q: %w", name, err)
		}
	}
	if logger.SEED != nil {
		logger.SEED.Info("genres seeded",
			slog.String("event", "seed.genres"),
			slog.Int("count", len(seedGenres)),
		)
	}
	return nil
}

// SeedBooks inserts the shared starter catalog with no owner, so every user
// sees it as recommendation inventory. Safe to run on every start.
func SeedBooks(ctx context.Context, db *sqlx.DB) error {
	const q = `
		INSERT INTO books (title, author, genre_id, publication_year)
		SELECT $1, $2, g.genre_id, $3 FROM genres g
		WHERE g.genre_name = $4
		  AND NOT EXISTS (
			SELECT 1 FROM books b WHERE b.title = $1 AND b.author = $2 AND b.owner_id IS NULL
		  )`
	for _, b := range seedBooks {
		if _, err := db.ExecContext(ctx, q, b.title, b.author, b.year, b.genre); err != nil {
			return fmt.Errorf("seed book %q: %w", b.title, err)
		}
	}
	if logger.SEED != nil {
		logger.SEED.Info("books seeded",
			slog.String("event", "seed.books"),
			slog.Int("count", len(seedBooks)),
		)
	}
	return nil
}
