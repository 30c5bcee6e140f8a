package handlers

import (
	"fmt"
	"strings"

	"github.com/m3rciful/bookbot/core/telegram/format"
	"github.com/m3rciful/bookbot/internal/catalog"
)

// Menu labels shown on the reply keyboard. The text router matches them
// verbatim as command aliases.
const (
	LabelRecommend   = "📚 Get Recommendations"
	LabelAddBook     = "➕ Add Book"
	LabelMyBooks     = "📖 My Books"
	LabelSurprise    = "🎲 Surprise Me"
	LabelReadingList = "📋 My Reading List"
	LabelStats       = "📊 My Stats"
)

const (
	msgWelcome = "Welcome to the Book Recommendation Bot! 📚\n" +
		"Choose an action from the menu below."
	msgChooseGenre     = "Please choose a genre to get book recommendations:"
	msgInvalidGenre    = "Please select a valid genre from the keyboard below:"
	msgAskTitle        = "Let's add a book! Send me the *title*:"
	msgAskAuthor       = "Got it. Now the *author*:"
	msgAskYear         = "And the *publication year*:"
	msgAskRating       = "Finally, your *rating* (1-5):"
	msgTitleEmpty      = "The title can't be empty. Send me the book title:"
	msgAuthorEmpty     = "The author can't be empty. Send me the author's name:"
	msgBookAdded       = "Book added successfully! ✅"
	msgChooseField     = "Which field do you want to change?"
	msgBookNotFound    = "Book not found (or it isn't yours)."
	msgBookDeleted     = "Book deleted. 🗑"
	msgBookUpdated     = "Book updated. ✅"
	msgAddedToList     = "Added to your reading list! 📋"
	msgNoBooks         = "You haven't added any books yet. Use ➕ Add Book to start."
	msgEmptyList       = "Your reading list is empty. Accept a recommendation to fill it!"
	msgNoCatalogBooks  = "No books available yet. Try again later."
	msgFormExpired     = "That conversation expired. Pick an action from the menu."
	msgUnknownAction   = "Unsupported action"
	msgBadCallback     = "Sorry, I couldn't read that button. Please try again."
	msgGenericError    = "An error occurred. Please try again."
	msgPickFieldButton = "Please pick a field using the buttons."
)

func msgAskGenre(genres []catalog.Genre) string {
	return "Which *genre* is it? Pick one:\n" + genreList(genres)
}

func msgUnknownGenre(genres []catalog.Genre) string {
	return "I don't know that genre. Valid genres are:\n" + genreList(genres)
}

func msgYearOutOfRange(maxYear int) string {
	return fmt.Sprintf("That doesn't look like a valid year. Send a number between 0 and %d:", maxYear)
}

const msgRatingOutOfRange = "The rating must be a whole number between 1 and 5. Try again:"

func msgNoGenreBooks(genre string) string {
	return fmt.Sprintf("No books found for genre: %s. Try another genre:", genre)
}

func msgRecommendations(genre string, books []catalog.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are %d %s book recommendations:\n\n", len(books), genre)
	for i, book := range books {
		fmt.Fprintf(&b, "%d. %s\n", i+1, bookLine(book))
	}
	b.WriteString("\nTap a button to add one to your reading list.")
	return b.String()
}

func msgSurprise(book catalog.Book) string {
	return "Your surprise pick: 🎲\n\n" + bookLine(book)
}

func msgMyBooks(books []catalog.Book) string {
	var b strings.Builder
	b.WriteString("Your books:\n\n")
	for i, book := range books {
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, bookLine(book), ratingSuffix(book))
	}
	return b.String()
}

func msgReadingList(books []catalog.Book) string {
	var b strings.Builder
	b.WriteString("Your reading list: 📋\n\n")
	for i, book := range books {
		fmt.Fprintf(&b, "%d. %s\n", i+1, bookLine(book))
	}
	return b.String()
}

func msgStats(stats catalog.UserStats) string {
	return fmt.Sprintf(
		"Your stats: 📊\n\n"+
			"Books added: %d\n"+
			"Recommendations received: %d\n"+
			"Reading list size: %d",
		stats.BooksAdded, stats.RecommendationsReceived, stats.ReadingListCount,
	)
}

func msgAskValue(field catalog.BookField, genres []catalog.Genre, maxYear int) string {
	switch field {
	case catalog.FieldGenre:
		return "Send the new *genre*:\n" + genreList(genres)
	case catalog.FieldYear:
		return fmt.Sprintf("Send the new *publication year* (0-%d):", maxYear)
	case catalog.FieldRating:
		return "Send the new *rating* (1-5):"
	default:
		return fmt.Sprintf("Send the new *%s*:", field)
	}
}

// bookLine renders one book as "📖 *Title* by Author (Year)".
func bookLine(book catalog.Book) string {
	line := fmt.Sprintf("📖 *%s* by %s", mdEscape(book.Title), mdEscape(book.Author))
	if book.Year > 0 {
		line += fmt.Sprintf(" (%d)", book.Year)
	}
	if book.GenreName != "" {
		line += " — " + mdEscape(book.GenreName)
	}
	return line
}

func ratingSuffix(book catalog.Book) string {
	r := format.DerefInt(book.Rating, 0)
	if r <= 0 {
		return ""
	}
	return " " + strings.Repeat("⭐", r)
}

func genreList(genres []catalog.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, "• "+g.Name)
	}
	return strings.Join(names, "\n")
}

// mdEscape guards user-supplied text against Markdown breakage.
func mdEscape(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return escaped
}
