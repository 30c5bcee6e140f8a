package handlers

import (
	"github.com/m3rciful/bookbot/core/telegram/state"
	"github.com/m3rciful/bookbot/internal/catalog"
)

// Dialogue states. Each state owns exactly one pending input.
const (
	stateAddTitle    state.State = "add:title"
	stateAddAuthor   state.State = "add:author"
	stateAddGenre    state.State = "add:genre"
	stateAddYear     state.State = "add:year"
	stateAddRating   state.State = "add:rating"
	stateUpdateField state.State = "update:field"
	stateUpdateValue state.State = "update:value"
)

// addBookForm accumulates the add-book flow. Fields are filled strictly in
// declaration order; nothing is persisted until the final state commits.
type addBookForm struct {
	Title     string
	Author    string
	GenreID   int64
	GenreName string
	Year      int
}

// updateBookForm carries the update-book flow: the target book and, once
// chosen, the field being rewritten.
type updateBookForm struct {
	BookID int64
	Field  catalog.BookField
}

// Form is the typed session payload. Exactly one variant is non-nil while
// the matching flow is active.
type Form struct {
	Add    *addBookForm
	Update *updateBookForm
}
