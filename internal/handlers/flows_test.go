package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/bookbot/core/telegram/state"
	"github.com/m3rciful/bookbot/internal/catalog"
)

type insertCall struct {
	title   string
	author  string
	genreID int64
	year    int
	ownerID int64
	rating  int
}

type updateCall struct {
	bookID  int64
	ownerID int64
	field   catalog.BookField
	value   any
}

// fakeCatalog records every mutating call and serves canned reads.
type fakeCatalog struct {
	genres     []catalog.Genre
	books      []catalog.Book
	random     catalog.Book
	randomErr  error
	stats      catalog.UserStats
	failWith   error
	updateRows int64
	deleteRows int64

	inserts         []insertCall
	updates         []updateCall
	deletes         []int64
	recommendations []int64
	readingAdds     []int64
}

func (f *fakeCatalog) EnsureUser(context.Context, int64, string, string, string) error {
	return f.failWith
}

func (f *fakeCatalog) ListGenres(context.Context) ([]catalog.Genre, error) {
	return f.genres, f.failWith
}

func (f *fakeCatalog) GenreID(_ context.Context, name string) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	for _, g := range f.genres {
		if g.Name == name {
			return g.ID, nil
		}
	}
	return 0, catalog.ErrNotFound
}

func (f *fakeCatalog) RecommendBooks(context.Context, string, int) ([]catalog.Book, error) {
	return f.books, f.failWith
}

func (f *fakeCatalog) RandomBook(context.Context) (catalog.Book, error) {
	if f.randomErr != nil {
		return catalog.Book{}, f.randomErr
	}
	return f.random, f.failWith
}

func (f *fakeCatalog) InsertBook(_ context.Context, title, author string, genreID int64, year int, ownerID int64, rating *int) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	r := 0
	if rating != nil {
		r = *rating
	}
	f.inserts = append(f.inserts, insertCall{title, author, genreID, year, ownerID, r})
	return int64(len(f.inserts)), nil
}

func (f *fakeCatalog) UpdateBookField(_ context.Context, bookID, ownerID int64, field catalog.BookField, value any) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.updates = append(f.updates, updateCall{bookID, ownerID, field, value})
	return f.updateRows, nil
}

func (f *fakeCatalog) DeleteBook(_ context.Context, bookID, _ int64) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.deletes = append(f.deletes, bookID)
	return f.deleteRows, nil
}

func (f *fakeCatalog) RecordRecommendation(_ context.Context, _, bookID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.recommendations = append(f.recommendations, bookID)
	return nil
}

func (f *fakeCatalog) AddToReadingList(_ context.Context, _, bookID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.readingAdds = append(f.readingAdds, bookID)
	return nil
}

func (f *fakeCatalog) ListOwnedBooks(context.Context, int64) ([]catalog.Book, error) {
	return f.books, f.failWith
}

func (f *fakeCatalog) ListReadingList(context.Context, int64) ([]catalog.Book, error) {
	return f.books, f.failWith
}

func (f *fakeCatalog) UserStats(context.Context, int64) (catalog.UserStats, error) {
	return f.stats, f.failWith
}

func newTestHandlers(cat *fakeCatalog) (*Handlers, *Sessions) {
	sessions := state.NewManager[Form]()
	return New(cat, sessions, 3), sessions
}

func fictionCatalog() *fakeCatalog {
	return &fakeCatalog{
		genres: []catalog.Genre{
			{ID: 1, Name: "Fiction"},
			{ID: 2, Name: "History"},
		},
		updateRows: 1,
		deleteRows: 1,
	}
}

const testUser int64 = 100

func TestAddBookHappyPath(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	if _, err := h.menuAddBook(ctx, testUser); err != nil {
		t.Fatalf("menuAddBook: %v", err)
	}
	steps := []struct {
		fn    func(context.Context, int64, string) (reply, error)
		input string
		next  state.State
	}{
		{h.addTitle, "Dune", stateAddAuthor},
		{h.addAuthor, "Frank Herbert", stateAddGenre},
		{h.addGenre, "Fiction", stateAddYear},
		{h.addYear, "1965", stateAddRating},
	}
	for _, s := range steps {
		if _, err := s.fn(ctx, testUser, s.input); err != nil {
			t.Fatalf("step %q: %v", s.input, err)
		}
		if got := sessions.State(testUser); got != s.next {
			t.Fatalf("after %q state = %q, want %q", s.input, got, s.next)
		}
	}

	rep, err := h.addRating(ctx, testUser, "5")
	if err != nil {
		t.Fatalf("addRating: %v", err)
	}
	if rep.text != msgBookAdded {
		t.Fatalf("reply = %q, want confirmation", rep.text)
	}
	if len(cat.inserts) != 1 {
		t.Fatalf("inserts = %d, want 1", len(cat.inserts))
	}
	got := cat.inserts[0]
	want := insertCall{"Dune", "Frank Herbert", 1, 1965, testUser, 5}
	if got != want {
		t.Fatalf("insert = %+v, want %+v", got, want)
	}
	if sessions.InProgress(testUser) {
		t.Fatal("session should be cleared after commit")
	}
}

func TestAddBookInvalidYearRepromptsWithoutAdvance(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	_, _ = h.addTitle(ctx, testUser, "Dune")
	_, _ = h.addAuthor(ctx, testUser, "Frank Herbert")
	_, _ = h.addGenre(ctx, testUser, "Fiction")

	for _, input := range []string{"soon", "-5", "3050"} {
		rep, err := h.addYear(ctx, testUser, input)
		if err != nil {
			t.Fatalf("addYear(%q): %v", input, err)
		}
		if !strings.Contains(rep.text, "valid year") {
			t.Fatalf("addYear(%q) reply = %q, want re-prompt", input, rep.text)
		}
		if got := sessions.State(testUser); got != stateAddYear {
			t.Fatalf("addYear(%q) state = %q, want %q", input, got, stateAddYear)
		}
	}
	if len(cat.inserts) != 0 {
		t.Fatalf("inserts = %d, want 0", len(cat.inserts))
	}
}

func TestAddBookInvalidRatingRepromptsWithoutWrite(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	_, _ = h.addTitle(ctx, testUser, "Dune")
	_, _ = h.addAuthor(ctx, testUser, "Frank Herbert")
	_, _ = h.addGenre(ctx, testUser, "Fiction")
	_, _ = h.addYear(ctx, testUser, "1965")

	for _, input := range []string{"0", "6", "great"} {
		rep, err := h.addRating(ctx, testUser, input)
		if err != nil {
			t.Fatalf("addRating(%q): %v", input, err)
		}
		if rep.text != msgRatingOutOfRange {
			t.Fatalf("addRating(%q) reply = %q", input, rep.text)
		}
	}
	if len(cat.inserts) != 0 {
		t.Fatalf("inserts = %d, want 0", len(cat.inserts))
	}
	if got := sessions.State(testUser); got != stateAddRating {
		t.Fatalf("state = %q, want %q", got, stateAddRating)
	}
}

func TestAddBookUnknownGenreStaysInState(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	_, _ = h.addTitle(ctx, testUser, "Dune")
	_, _ = h.addAuthor(ctx, testUser, "Frank Herbert")

	rep, err := h.addGenre(ctx, testUser, "Poetry")
	if err != nil {
		t.Fatalf("addGenre: %v", err)
	}
	if !strings.Contains(rep.text, "don't know that genre") {
		t.Fatalf("reply = %q, want unknown-genre re-prompt", rep.text)
	}
	if got := sessions.State(testUser); got != stateAddGenre {
		t.Fatalf("state = %q, want %q", got, stateAddGenre)
	}
}

func TestAddBookEmptyTitleReprompts(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	rep, err := h.addTitle(ctx, testUser, "   ")
	if err != nil {
		t.Fatalf("addTitle: %v", err)
	}
	if rep.text != msgTitleEmpty {
		t.Fatalf("reply = %q", rep.text)
	}
	if got := sessions.State(testUser); got != stateAddTitle {
		t.Fatalf("state = %q, want %q", got, stateAddTitle)
	}
}

func TestAddBookCatalogErrorKeepsSession(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	_, _ = h.addTitle(ctx, testUser, "Dune")
	_, _ = h.addAuthor(ctx, testUser, "Frank Herbert")
	_, _ = h.addGenre(ctx, testUser, "Fiction")
	_, _ = h.addYear(ctx, testUser, "1965")

	cat.failWith = errors.New("connection reset")
	if _, err := h.addRating(ctx, testUser, "5"); err == nil {
		t.Fatal("expected catalog error")
	}
	if got := sessions.State(testUser); got != stateAddRating {
		t.Fatalf("state = %q, want session kept at %q", got, stateAddRating)
	}
}

func TestUpdateBookFlow(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	if _, err := h.startUpdate(ctx, testUser, 7); err != nil {
		t.Fatalf("startUpdate: %v", err)
	}
	if got := sessions.State(testUser); got != stateUpdateField {
		t.Fatalf("state = %q, want %q", got, stateUpdateField)
	}

	rep, err := h.pickField(ctx, testUser, "author")
	if err != nil {
		t.Fatalf("pickField: %v", err)
	}
	if got := sessions.State(testUser); got != stateUpdateValue {
		t.Fatalf("state = %q, want %q", got, stateUpdateValue)
	}
	if rep.text == "" {
		t.Fatal("expected value prompt")
	}

	rep, err = h.updateValue(ctx, testUser, "Brian Herbert")
	if err != nil {
		t.Fatalf("updateValue: %v", err)
	}
	if rep.text != msgBookUpdated {
		t.Fatalf("reply = %q", rep.text)
	}
	if len(cat.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(cat.updates))
	}
	got := cat.updates[0]
	if got.bookID != 7 || got.ownerID != testUser || got.field != catalog.FieldAuthor || got.value != "Brian Herbert" {
		t.Fatalf("update = %+v", got)
	}
	if sessions.InProgress(testUser) {
		t.Fatal("session should be cleared after update")
	}
}

func TestUpdateBookZeroRowsReportsNotFound(t *testing.T) {
	cat := fictionCatalog()
	cat.updateRows = 0
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.startUpdate(ctx, testUser, 7)
	_, _ = h.pickField(ctx, testUser, "rating")

	rep, err := h.updateValue(ctx, testUser, "4")
	if err != nil {
		t.Fatalf("updateValue: %v", err)
	}
	if rep.text != msgBookNotFound {
		t.Fatalf("reply = %q, want %q", rep.text, msgBookNotFound)
	}
	if sessions.InProgress(testUser) {
		t.Fatal("session should be cleared")
	}
}

func TestUpdateBookRejectsUnknownFieldPayload(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.startUpdate(ctx, testUser, 7)
	rep, err := h.pickField(ctx, testUser, "owner_id; DROP TABLE books")
	if err != nil {
		t.Fatalf("pickField: %v", err)
	}
	if rep.text != msgBadCallback {
		t.Fatalf("reply = %q, want rejection", rep.text)
	}
	if got := sessions.State(testUser); got != stateUpdateField {
		t.Fatalf("state = %q, want %q", got, stateUpdateField)
	}
}

func TestUpdateBookInvalidValueRepromptsInPlace(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.startUpdate(ctx, testUser, 7)
	_, _ = h.pickField(ctx, testUser, "year")

	rep, err := h.updateValue(ctx, testUser, "someday")
	if err != nil {
		t.Fatalf("updateValue: %v", err)
	}
	if !strings.Contains(rep.text, "valid year") {
		t.Fatalf("reply = %q, want re-prompt", rep.text)
	}
	if got := sessions.State(testUser); got != stateUpdateValue {
		t.Fatalf("state = %q, want %q", got, stateUpdateValue)
	}
	if len(cat.updates) != 0 {
		t.Fatalf("updates = %d, want 0", len(cat.updates))
	}
}

func TestUpdateValueWithoutSessionExpires(t *testing.T) {
	cat := fictionCatalog()
	h, _ := newTestHandlers(cat)

	rep, err := h.updateValue(context.Background(), testUser, "whatever")
	if err != nil {
		t.Fatalf("updateValue: %v", err)
	}
	if rep.text != msgFormExpired {
		t.Fatalf("reply = %q, want %q", rep.text, msgFormExpired)
	}
}

func TestDeleteBookZeroRowsReportsNotFound(t *testing.T) {
	cat := fictionCatalog()
	cat.deleteRows = 0
	h, _ := newTestHandlers(cat)

	rep, err := h.deleteBook(context.Background(), testUser, 42)
	if err != nil {
		t.Fatalf("deleteBook: %v", err)
	}
	if rep.text != msgBookNotFound {
		t.Fatalf("reply = %q, want %q", rep.text, msgBookNotFound)
	}
}

func TestGenreTextUnknownLogsNothing(t *testing.T) {
	cat := fictionCatalog()
	h, _ := newTestHandlers(cat)

	rep, err := h.genreText(context.Background(), testUser, "Basket Weaving")
	if err != nil {
		t.Fatalf("genreText: %v", err)
	}
	if rep.text != msgInvalidGenre {
		t.Fatalf("reply = %q, want %q", rep.text, msgInvalidGenre)
	}
	if len(cat.recommendations) != 0 {
		t.Fatalf("recommendations = %d, want 0", len(cat.recommendations))
	}
}

func TestGenreTextRecordsOneRecommendationPerBook(t *testing.T) {
	cat := fictionCatalog()
	cat.books = []catalog.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", GenreName: "Fiction"},
		{ID: 2, Title: "1984", Author: "George Orwell", GenreName: "Fiction"},
	}
	h, _ := newTestHandlers(cat)

	rep, err := h.genreText(context.Background(), testUser, "Fiction")
	if err != nil {
		t.Fatalf("genreText: %v", err)
	}
	if len(cat.recommendations) != 2 {
		t.Fatalf("recommendations = %d, want 2", len(cat.recommendations))
	}
	if rep.markup == nil {
		t.Fatal("expected reading-list keyboard")
	}
	if !strings.Contains(rep.text, "Dune") || !strings.Contains(rep.text, "1984") {
		t.Fatalf("reply missing books: %q", rep.text)
	}
}

func TestGenreTextEmptyGenreReprompts(t *testing.T) {
	cat := fictionCatalog()
	cat.books = nil
	h, _ := newTestHandlers(cat)

	rep, err := h.genreText(context.Background(), testUser, "History")
	if err != nil {
		t.Fatalf("genreText: %v", err)
	}
	if !strings.Contains(rep.text, "No books found") {
		t.Fatalf("reply = %q", rep.text)
	}
	if len(cat.recommendations) != 0 {
		t.Fatalf("recommendations = %d, want 0", len(cat.recommendations))
	}
}

func TestSurpriseEmptyCatalogLogsNothing(t *testing.T) {
	cat := fictionCatalog()
	cat.randomErr = catalog.ErrNotFound
	h, _ := newTestHandlers(cat)

	rep, err := h.menuSurprise(context.Background(), testUser)
	if err != nil {
		t.Fatalf("menuSurprise: %v", err)
	}
	if rep.text != msgNoCatalogBooks {
		t.Fatalf("reply = %q, want %q", rep.text, msgNoCatalogBooks)
	}
	if len(cat.recommendations) != 0 {
		t.Fatalf("recommendations = %d, want 0", len(cat.recommendations))
	}
}

func TestSurpriseRecordsRecommendation(t *testing.T) {
	cat := fictionCatalog()
	cat.random = catalog.Book{ID: 9, Title: "Sapiens", Author: "Yuval Noah Harari"}
	h, _ := newTestHandlers(cat)

	rep, err := h.menuSurprise(context.Background(), testUser)
	if err != nil {
		t.Fatalf("menuSurprise: %v", err)
	}
	if len(cat.recommendations) != 1 || cat.recommendations[0] != 9 {
		t.Fatalf("recommendations = %v, want [9]", cat.recommendations)
	}
	if !strings.Contains(rep.text, "Sapiens") {
		t.Fatalf("reply = %q", rep.text)
	}
}

func TestMenuCommandsAbandonActiveForm(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	_, _ = h.addTitle(ctx, testUser, "Dune")

	if _, err := h.menuRecommend(ctx, testUser); err != nil {
		t.Fatalf("menuRecommend: %v", err)
	}
	if sessions.InProgress(testUser) {
		t.Fatal("menu entry should abandon the form")
	}
	if len(cat.inserts) != 0 {
		t.Fatalf("inserts = %d, want 0 after abandon", len(cat.inserts))
	}
}

func TestStartResetsSessionAndRegistersUser(t *testing.T) {
	cat := fictionCatalog()
	h, sessions := newTestHandlers(cat)
	ctx := context.Background()

	_, _ = h.menuAddBook(ctx, testUser)
	rep, err := h.start(ctx, testUser, "frank", "Frank", "Herbert")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rep.text != msgWelcome {
		t.Fatalf("reply = %q", rep.text)
	}
	if rep.markup == nil {
		t.Fatal("expected main menu keyboard")
	}
	if sessions.InProgress(testUser) {
		t.Fatal("start should clear any session")
	}
}

func TestMyBooksEmptyLibrary(t *testing.T) {
	cat := fictionCatalog()
	cat.books = nil
	h, _ := newTestHandlers(cat)

	rep, err := h.menuMyBooks(context.Background(), testUser)
	if err != nil {
		t.Fatalf("menuMyBooks: %v", err)
	}
	if rep.text != msgNoBooks {
		t.Fatalf("reply = %q, want %q", rep.text, msgNoBooks)
	}
}
