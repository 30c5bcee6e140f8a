package catalog

// BookField enumerates the user-updatable columns of a book. The update flow
// resolves the selected field through a fixed field→column table, so no
// externally influenced string is ever interpolated into SQL.
type BookField string

const (
	FieldTitle  BookField = "title"
	FieldAuthor BookField = "author"
	FieldGenre  BookField = "genre"
	FieldYear   BookField = "year"
	FieldRating BookField = "rating"
)

var bookFieldColumns = map[BookField]string{
	FieldTitle:  "title",
	FieldAuthor: "author",
	FieldGenre:  "genre_id",
	FieldYear:   "publication_year",
	FieldRating: "rating",
}

// BookFields returns the updatable field set in presentation order.
func BookFields() []BookField {
	return []BookField{FieldTitle, FieldAuthor, FieldGenre, FieldYear, FieldRating}
}

// ParseBookField validates a raw field selector against the enumerated set.
func ParseBookField(raw string) (BookField, bool) {
	f := BookField(raw)
	_, ok := bookFieldColumns[f]
	return f, ok
}

// Column resolves the database column for a field, reporting false for
// anything outside the fixed set.
func (f BookField) Column() (string, bool) {
	col, ok := bookFieldColumns[f]
	return col, ok
}
