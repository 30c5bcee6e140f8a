package handlers

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/bookbot/core/telegram/keyboard"
	"github.com/m3rciful/bookbot/internal/catalog"

	tele "gopkg.in/telebot.v4"
)

// Callback uniques. Telebot encodes a button press as \f<unique>|<payload>;
// every payload here is a decimal book id except cbField, which carries the
// enumerated field name.
const (
	cbAddReading = "add_reading"
	cbDelete     = "delete"
	cbUpdate     = "update"
	cbField      = "field"
)

var fieldButtonLabels = map[catalog.BookField]string{
	catalog.FieldTitle:  "Title",
	catalog.FieldAuthor: "Author",
	catalog.FieldGenre:  "Genre",
	catalog.FieldYear:   "Year",
	catalog.FieldRating: "Rating",
}

// mainMenuKeyboard is the persistent reply keyboard with all menu labels.
func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{LabelRecommend, LabelAddBook},
		[]string{LabelMyBooks, LabelSurprise},
		[]string{LabelReadingList, LabelStats},
	)
}

// genreKeyboard offers one reply button per genre, like the original flow.
func genreKeyboard(genres []catalog.Genre) *tele.ReplyMarkup {
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{g.Name})
	}
	return keyboard.ReplyButtons(rows...)
}

// readingListKeyboard builds one "add to reading list" button per shown book,
// numbered to match the message text.
func readingListKeyboard(books []catalog.Book) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(books))
	for i, b := range books {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("➕ Reading list: %d", i+1),
			Unique: cbAddReading,
			Data:   strconv.FormatInt(b.ID, 10),
		})
	}
	return keyboard.InlineButtons(buttons)
}

// myBooksKeyboard pairs an update and a delete button per owned book.
func myBooksKeyboard(books []catalog.Book) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(books))
	for i, b := range books {
		id := strconv.FormatInt(b.ID, 10)
		rows = append(rows, []keyboard.InlineBtn{
			{Text: fmt.Sprintf("✏️ %d", i+1), Unique: cbUpdate, Data: id},
			{Text: fmt.Sprintf("🗑 %d", i+1), Unique: cbDelete, Data: id},
		})
	}
	return keyboard.InlineButtonsRows(rows...)
}

// fieldKeyboard lists the fixed updatable field set, two per row.
func fieldKeyboard() *tele.ReplyMarkup {
	fields := catalog.BookFields()
	buttons := make([]keyboard.InlineBtn, 0, len(fields))
	for _, f := range fields {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fieldButtonLabels[f],
			Unique: cbField,
			Data:   string(f),
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}
