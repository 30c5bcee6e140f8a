package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/m3rciful/bookbot/core/logger"
	tgcallbacks "github.com/m3rciful/bookbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/bookbot/core/telegram/helpers"
	"github.com/m3rciful/bookbot/core/telegram/state"
	"github.com/m3rciful/bookbot/internal/catalog"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onUpdate(c tele.Context) error {
	bookID, ok := payloadBookID(c)
	if !ok {
		return tghelpers.SendText(c, msgBadCallback)
	}
	rep, err := h.startUpdate(tghelpers.BuildContext(c), c.Sender().ID, bookID)
	return h.send(c, rep, err)
}

func (h *Handlers) onField(c tele.Context) error {
	rep, err := h.pickField(tghelpers.BuildContext(c), c.Sender().ID, tgcallbacks.CallbackPayload(c))
	return h.send(c, rep, err)
}

func (h *Handlers) onUpdateValue(c tele.Context) error {
	rep, err := h.updateValue(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

// startUpdate reacts to the ✏️ button: remember the target book and offer
// the field keyboard.
func (h *Handlers) startUpdate(_ context.Context, userID, bookID int64) (reply, error) {
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		s.State = stateUpdateField
		s.Form = Form{Update: &updateBookForm{BookID: bookID}}
	})
	return reply{text: msgChooseField, markup: fieldKeyboard(), edit: true}, nil
}

// pickField reacts to a field button. The raw payload is parsed against the
// fixed field set; anything else is rejected before it can reach SQL.
func (h *Handlers) pickField(ctx context.Context, userID int64, raw string) (reply, error) {
	sess := h.sessions.Get(userID)
	if sess.State != stateUpdateField || sess.Form.Update == nil {
		return reply{text: msgFormExpired, markup: mainMenuKeyboard()}, nil
	}
	field, ok := catalog.ParseBookField(raw)
	if !ok {
		return reply{text: msgBadCallback}, nil
	}
	var genres []catalog.Genre
	if field == catalog.FieldGenre {
		var err error
		genres, err = h.catalog.ListGenres(ctx)
		if err != nil {
			return reply{}, err
		}
	}
	h.sessions.Update(userID, func(s *state.Session[Form]) {
		if s.Form.Update == nil {
			return
		}
		s.Form.Update.Field = field
		s.State = stateUpdateValue
	})
	rep := reply{text: msgAskValue(field, genres, maxPublicationYear()), edit: true}
	if field == catalog.FieldGenre {
		// A reply keyboard cannot ride on an edited message.
		rep.edit = false
		rep.markup = genreKeyboard(genres)
	}
	return rep, nil
}

// updateValue validates the new value with the same rules as the add flow,
// then rewrites exactly one column of the user's own book.
func (h *Handlers) updateValue(ctx context.Context, userID int64, text string) (reply, error) {
	sess := h.sessions.Get(userID)
	form := sess.Form.Update
	if form == nil {
		h.sessions.Clear(userID)
		return reply{text: msgFormExpired, markup: mainMenuKeyboard()}, nil
	}

	value, rep, err := h.updateFieldValue(ctx, form.Field, text)
	if err != nil {
		return reply{}, err
	}
	if rep.text != "" {
		// Invalid input re-prompts in place; the state does not advance.
		return rep, nil
	}

	rows, err := h.catalog.UpdateBookField(ctx, form.BookID, userID, form.Field, value)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.sessions.Clear(userID)
			return reply{text: msgBookNotFound, markup: mainMenuKeyboard()}, nil
		}
		return reply{}, err
	}
	h.sessions.Clear(userID)
	if rows == 0 {
		return reply{text: msgBookNotFound, markup: mainMenuKeyboard()}, nil
	}
	logger.Info(ctx, "service.catalog", "book.updated",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", form.BookID),
		slog.String("field", string(form.Field)),
	)
	return reply{text: msgBookUpdated, markup: mainMenuKeyboard()}, nil
}

// updateFieldValue turns raw text into the typed column value for one field.
// A non-empty reply means the input was rejected and the user was re-prompted.
func (h *Handlers) updateFieldValue(ctx context.Context, field catalog.BookField, text string) (any, reply, error) {
	trimmed := strings.TrimSpace(text)
	switch field {
	case catalog.FieldTitle:
		if trimmed == "" {
			return nil, reply{text: msgTitleEmpty}, nil
		}
		return trimmed, reply{}, nil
	case catalog.FieldAuthor:
		if trimmed == "" {
			return nil, reply{text: msgAuthorEmpty}, nil
		}
		return trimmed, reply{}, nil
	case catalog.FieldGenre:
		genreID, err := h.catalog.GenreID(ctx, trimmed)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				genres, gerr := h.catalog.ListGenres(ctx)
				if gerr != nil {
					return nil, reply{}, gerr
				}
				return nil, reply{text: msgUnknownGenre(genres), markup: genreKeyboard(genres)}, nil
			}
			return nil, reply{}, err
		}
		return genreID, reply{}, nil
	case catalog.FieldYear:
		year, ok := parseYear(trimmed)
		if !ok {
			return nil, reply{text: msgYearOutOfRange(maxPublicationYear())}, nil
		}
		return year, reply{}, nil
	case catalog.FieldRating:
		rating, ok := parseRating(trimmed)
		if !ok {
			return nil, reply{text: msgRatingOutOfRange}, nil
		}
		return rating, reply{}, nil
	}
	return nil, reply{text: msgPickFieldButton}, nil
}
