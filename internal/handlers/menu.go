package handlers

import (
	"context"
	"errors"

	"github.com/m3rciful/bookbot/core/logger"
	tghelpers "github.com/m3rciful/bookbot/core/telegram/helpers"
	"github.com/m3rciful/bookbot/internal/catalog"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onStart(c tele.Context) error {
	u := c.Sender()
	rep, err := h.start(tghelpers.BuildContext(c), u.ID, u.Username, u.FirstName, u.LastName)
	return h.send(c, rep, err)
}

func (h *Handlers) onMenuRecommend(c tele.Context) error {
	rep, err := h.menuRecommend(tghelpers.BuildContext(c), c.Sender().ID)
	return h.send(c, rep, err)
}

func (h *Handlers) onMenuMyBooks(c tele.Context) error {
	rep, err := h.menuMyBooks(tghelpers.BuildContext(c), c.Sender().ID)
	return h.send(c, rep, err)
}

func (h *Handlers) onMenuSurprise(c tele.Context) error {
	rep, err := h.menuSurprise(tghelpers.BuildContext(c), c.Sender().ID)
	return h.send(c, rep, err)
}

func (h *Handlers) onMenuReadingList(c tele.Context) error {
	rep, err := h.menuReadingList(tghelpers.BuildContext(c), c.Sender().ID)
	return h.send(c, rep, err)
}

func (h *Handlers) onMenuStats(c tele.Context) error {
	rep, err := h.menuStats(tghelpers.BuildContext(c), c.Sender().ID)
	return h.send(c, rep, err)
}

// start registers the user, resets any session, and shows the main menu.
func (h *Handlers) start(ctx context.Context, userID int64, username, firstName, lastName string) (reply, error) {
	if err := h.catalog.EnsureUser(ctx, userID, username, firstName, lastName); err != nil {
		return reply{}, err
	}
	h.sessions.Clear(userID)
	logger.Debug(ctx, "tg", "menu.start",
		slog.Int64("user_id", userID),
	)
	return reply{text: msgWelcome, markup: mainMenuKeyboard()}, nil
}

// menuRecommend abandons any in-progress form and offers the genre keyboard.
func (h *Handlers) menuRecommend(ctx context.Context, userID int64) (reply, error) {
	h.sessions.Clear(userID)
	genres, err := h.catalog.ListGenres(ctx)
	if err != nil {
		return reply{}, err
	}
	return reply{text: msgChooseGenre, markup: genreKeyboard(genres)}, nil
}

// menuMyBooks lists the user's library with per-book update/delete buttons.
func (h *Handlers) menuMyBooks(ctx context.Context, userID int64) (reply, error) {
	h.sessions.Clear(userID)
	books, err := h.catalog.ListOwnedBooks(ctx, userID)
	if err != nil {
		return reply{}, err
	}
	if len(books) == 0 {
		return reply{text: msgNoBooks, markup: mainMenuKeyboard()}, nil
	}
	return reply{text: msgMyBooks(books), markup: myBooksKeyboard(books)}, nil
}

// menuSurprise picks one random book from the whole catalog and logs the
// recommendation. An empty catalog logs nothing.
func (h *Handlers) menuSurprise(ctx context.Context, userID int64) (reply, error) {
	h.sessions.Clear(userID)
	book, err := h.catalog.RandomBook(ctx)
	if errors.Is(err, catalog.ErrNotFound) {
		return reply{text: msgNoCatalogBooks, markup: mainMenuKeyboard()}, nil
	}
	if err != nil {
		return reply{}, err
	}
	if err := h.catalog.RecordRecommendation(ctx, userID, book.ID); err != nil {
		return reply{}, err
	}
	return reply{
		text:   msgSurprise(book),
		markup: readingListKeyboard([]catalog.Book{book}),
	}, nil
}

func (h *Handlers) menuReadingList(ctx context.Context, userID int64) (reply, error) {
	h.sessions.Clear(userID)
	books, err := h.catalog.ListReadingList(ctx, userID)
	if err != nil {
		return reply{}, err
	}
	if len(books) == 0 {
		return reply{text: msgEmptyList, markup: mainMenuKeyboard()}, nil
	}
	return reply{text: msgReadingList(books), markup: mainMenuKeyboard()}, nil
}

func (h *Handlers) menuStats(ctx context.Context, userID int64) (reply, error) {
	h.sessions.Clear(userID)
	stats, err := h.catalog.UserStats(ctx, userID)
	if err != nil {
		return reply{}, err
	}
	return reply{text: msgStats(stats), markup: mainMenuKeyboard()}, nil
}
