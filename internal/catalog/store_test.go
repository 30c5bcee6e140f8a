package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func bookRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"book_id", "title", "author", "genre_id", "genre_name",
		"publication_year", "owner_id", "rating",
	})
}

func TestAddToReadingListIsIdempotent(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	// The conflict clause makes the second insert a no-op instead of an error.
	mock.ExpectExec(`(?s)INSERT INTO reading_list .+ ON CONFLICT \(user_id, book_id\) DO NOTHING`).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO reading_list .+ ON CONFLICT \(user_id, book_id\) DO NOTHING`).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.AddToReadingList(ctx, 1, 7); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := store.AddToReadingList(ctx, 1, 7); err != nil {
		t.Fatalf("second add must be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateBookFieldRestrictedToOwner(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE books SET title = \$1 WHERE book_id = \$2 AND owner_id = \$3`).
		WithArgs("Dune Messiah", int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := store.UpdateBookField(ctx, 5, 42, FieldTitle, "Dune Messiah")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateBookFieldForeignOwnerMatchesNothing(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE books SET rating = \$1 WHERE book_id = \$2 AND owner_id = \$3`).
		WithArgs(3, int64(5), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := store.UpdateBookField(ctx, 5, 999, FieldRating, 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("a foreign owner must affect zero rows, got %d", rows)
	}
}

func TestUpdateBookFieldRejectsUnknownFieldBeforeSQL(t *testing.T) {
	store, mock := newMockStore(t)

	if _, err := store.UpdateBookField(context.Background(), 5, 42, BookField("owner_id"), 1); err == nil {
		t.Fatal("unknown field must fail before reaching the database")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no SQL must be issued for an unknown field: %v", err)
	}
}

func TestDeleteBookRestrictedToOwner(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM books WHERE book_id = \$1 AND owner_id = \$2`).
		WithArgs(int64(9), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := store.DeleteBook(ctx, 9, 42)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rows != 0 {
		t.Fatalf("foreign book must not be deleted, rows = %d", rows)
	}
}

func TestRecommendBooksPassesGenreAndLimit(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	rows := bookRows().
		AddRow(1, "1984", "George Orwell", 1, "Fiction", 1949, nil, nil).
		AddRow(3, "Dune", "Frank Herbert", 1, "Fiction", 1965, nil, nil)
	mock.ExpectQuery(`(?s)SELECT .+ FROM books b\s+JOIN genres g .+ WHERE g\.genre_name = \$1 AND b\.owner_id IS NULL\s+ORDER BY RANDOM\(\)\s+LIMIT \$2`).
		WithArgs("Fiction", 3).
		WillReturnRows(rows)

	books, err := store.RecommendBooks(ctx, "Fiction", 3)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	for _, b := range books {
		if b.GenreName != "Fiction" {
			t.Fatalf("book %q has genre %q", b.Title, b.GenreName)
		}
	}
}

func TestGenreIDUnknownName(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT genre_id FROM genres WHERE genre_name = \$1`).
		WithArgs("Poetry").
		WillReturnRows(sqlmock.NewRows([]string{"genre_id"}))

	if _, err := store.GenreID(context.Background(), "Poetry"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRandomBookEmptyCatalog(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM books b\s+LEFT JOIN genres g .+ ORDER BY RANDOM\(\)\s+LIMIT 1`).
		WillReturnRows(bookRows())

	if _, err := store.RandomBook(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserStats(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM books WHERE owner_id = \$1\)`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"books_added", "recommendations_received", "reading_list_count"}).
			AddRow(2, 9, 4))

	stats, err := store.UserStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.BooksAdded != 2 || stats.RecommendationsReceived != 9 || stats.ReadingListCount != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
