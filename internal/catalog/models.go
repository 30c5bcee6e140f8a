package catalog

import "time"

// User mirrors a row of the users table. Created on first /start and never
// deleted by the bot.
type User struct {
	ID        int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
}

// Genre is a seeded reference row; names are unique.
type Genre struct {
	ID   int64  `db:"genre_id"`
	Name string `db:"genre_name"`
}

// Book is a catalog row. OwnerID is NULL for shared seed books that are
// visible to everyone as recommendation inventory; an owned book belongs to
// that user's personal library only. Rating is optional and, when present,
// lies in [1,5].
type Book struct {
	ID        int64  `db:"book_id"`
	Title     string `db:"title"`
	Author    string `db:"author"`
	GenreID   int64  `db:"genre_id"`
	GenreName string `db:"genre_name"`
	Year      int    `db:"publication_year"`
	OwnerID   *int64 `db:"owner_id"`
	Rating    *int   `db:"rating"`
}

// UserStats aggregates per-user usage counters.
type UserStats struct {
	BooksAdded              int `db:"books_added"`
	RecommendationsReceived int `db:"recommendations_received"`
	ReadingListCount        int `db:"reading_list_count"`
}
