package handlers

import (
	"context"

	"github.com/m3rciful/bookbot/core/logger"
	tghelpers "github.com/m3rciful/bookbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onAddReading(c tele.Context) error {
	bookID, ok := payloadBookID(c)
	if !ok {
		return tghelpers.SendText(c, msgBadCallback)
	}
	rep, err := h.addReading(tghelpers.BuildContext(c), c.Sender().ID, bookID)
	return h.send(c, rep, err)
}

func (h *Handlers) onDelete(c tele.Context) error {
	bookID, ok := payloadBookID(c)
	if !ok {
		return tghelpers.SendText(c, msgBadCallback)
	}
	rep, err := h.deleteBook(tghelpers.BuildContext(c), c.Sender().ID, bookID)
	return h.send(c, rep, err)
}

// addReading saves a shown book to the user's reading list. Pressing the
// same button twice is a no-op thanks to the store's idempotent insert.
func (h *Handlers) addReading(ctx context.Context, userID, bookID int64) (reply, error) {
	if err := h.catalog.AddToReadingList(ctx, userID, bookID); err != nil {
		return reply{}, err
	}
	logger.Debug(ctx, "service.catalog", "reading_list.added",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
	)
	return reply{text: msgAddedToList}, nil
}

// deleteBook removes one of the user's own books. A stale button pointing at
// a foreign or vanished book reports not-found instead of deleting anything.
func (h *Handlers) deleteBook(ctx context.Context, userID, bookID int64) (reply, error) {
	rows, err := h.catalog.DeleteBook(ctx, bookID, userID)
	if err != nil {
		return reply{}, err
	}
	if rows == 0 {
		return reply{text: msgBookNotFound}, nil
	}
	logger.Info(ctx, "service.catalog", "book.deleted",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
	)
	return reply{text: msgBookDeleted}, nil
}
