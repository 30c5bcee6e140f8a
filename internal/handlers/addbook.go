package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/m3rciful/bookbot/core/logger"
	tghelpers "github.com/m3rciful/bookbot/core/telegram/helpers"
	"github.com/m3rciful/bookbot/core/telegram/keyboard"
	"github.com/m3rciful/bookbot/core/telegram/state"
	"github.com/m3rciful/bookbot/internal/catalog"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onMenuAddBook(c tele.Context) error {
	rep, err := h.menuAddBook(tghelpers.BuildContext(c), c.Sender().ID)
	return h.send(c, rep, err)
}

func (h *Handlers) onAddTitle(c tele.Context) error {
	rep, err := h.addTitle(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

func (h *Handlers) onAddAuthor(c tele.Context) error {
	rep, err := h.addAuthor(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

func (h *Handlers) onAddGenre(c tele.Context) error {
	rep, err := h.addGenre(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

func (h *Handlers) onAddYear(c tele.Context) error {
	rep, err := h.addYear(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

func (h *Handlers) onAddRating(c tele.Context) error {
	rep, err := h.addRating(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

// menuAddBook starts a fresh add-book form, abandoning any previous flow.
func (h *Handlers) menuAddBook(_ context.Context, userID int64) (reply, error) {
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		s.State = stateAddTitle
		s.Form = Form{Add: &addBookForm{}}
	})
	return reply{text: msgAskTitle, markup: keyboard.RemoveKeyboard()}, nil
}

func (h *Handlers) addTitle(_ context.Context, userID int64, text string) (reply, error) {
	title := strings.TrimSpace(text)
	if title == "" {
		return reply{text: msgTitleEmpty}, nil
	}
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		if s.Form.Add == nil {
			s.Form.Add = &addBookForm{}
		}
		s.Form.Add.Title = title
		s.State = stateAddAuthor
	})
	return reply{text: msgAskAuthor}, nil
}

func (h *Handlers) addAuthor(ctx context.Context, userID int64, text string) (reply, error) {
	author := strings.TrimSpace(text)
	if author == "" {
		return reply{text: msgAuthorEmpty}, nil
	}
	genres, err := h.catalog.ListGenres(ctx)
	if err != nil {
		return reply{}, err
	}
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		if s.Form.Add == nil {
			s.Form.Add = &addBookForm{}
		}
		s.Form.Add.Author = author
		s.State = stateAddGenre
	})
	return reply{text: msgAskGenre(genres), markup: genreKeyboard(genres)}, nil
}

// addGenre resolves the typed genre against the catalog; an unknown name
// re-prompts without leaving the state.
func (h *Handlers) addGenre(ctx context.Context, userID int64, text string) (reply, error) {
	name := strings.TrimSpace(text)
	genreID, err := h.catalog.GenreID(ctx, name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			genres, gerr := h.catalog.ListGenres(ctx)
			if gerr != nil {
				return reply{}, gerr
			}
			return reply{text: msgUnknownGenre(genres), markup: genreKeyboard(genres)}, nil
		}
		return reply{}, err
	}
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		if s.Form.Add == nil {
			s.Form.Add = &addBookForm{}
		}
		s.Form.Add.GenreID = genreID
		s.Form.Add.GenreName = name
		s.State = stateAddYear
	})
	return reply{text: msgAskYear}, nil
}

func (h *Handlers) addYear(_ context.Context, userID int64, text string) (reply, error) {
	year, ok := parseYear(text)
	if !ok {
		return reply{text: msgYearOutOfRange(maxPublicationYear())}, nil
	}
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		if s.Form.Add == nil {
			s.Form.Add = &addBookForm{}
		}
		s.Form.Add.Year = year
		s.State = stateAddRating
	})
	return reply{text: msgAskRating}, nil
}

// addRating is the commit point: the whole form is written in one insert,
// so an aborted flow leaves no partial rows behind.
func (h *Handlers) addRating(ctx context.Context, userID int64, text string) (reply, error) {
	rating, ok := parseRating(text)
	if !ok {
		return reply{text: msgRatingOutOfRange}, nil
	}
	form := h.sessions.Get(userID).Form.Add
	if form == nil {
		h.sessions.Clear(userID)
		return reply{text: msgFormExpired, markup: mainMenuKeyboard()}, nil
	}
	bookID, err := h.catalog.InsertBook(ctx, form.Title, form.Author, form.GenreID, form.Year, userID, &rating)
	if err != nil {
		return reply{}, err
	}
	h.sessions.Clear(userID)
	logger.Info(ctx, "service.catalog", "book.added",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
		slog.String("genre", form.GenreName),
	)
	return reply{text: msgBookAdded, markup: mainMenuKeyboard()}, nil
}
