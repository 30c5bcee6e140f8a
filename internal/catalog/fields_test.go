package catalog

import "testing"

func TestParseBookFieldAcceptsFixedSet(t *testing.T) {
	for _, f := range BookFields() {
		parsed, ok := ParseBookField(string(f))
		if !ok {
			t.Fatalf("field %q must parse", f)
		}
		if parsed != f {
			t.Fatalf("parsed %q, want %q", parsed, f)
		}
		if _, ok := parsed.Column(); !ok {
			t.Fatalf("field %q must resolve to a column", f)
		}
	}
}

func TestParseBookFieldRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "owner_id", "book_id; DROP TABLE books", "Title"} {
		if _, ok := ParseBookField(raw); ok {
			t.Fatalf("raw %q must be rejected", raw)
		}
	}
}

func TestBookFieldColumnMapping(t *testing.T) {
	want := map[BookField]string{
		FieldTitle:  "title",
		FieldAuthor: "author",
		FieldGenre:  "genre_id",
		FieldYear:   "publication_year",
		FieldRating: "rating",
	}
	for f, col := range want {
		got, ok := f.Column()
		if !ok || got != col {
			t.Fatalf("field %q column = %q (%v), want %q", f, got, ok, col)
		}
	}
}
