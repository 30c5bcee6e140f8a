package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/m3rciful/bookbot/core/logger"
	tghelpers "github.com/m3rciful/bookbot/core/telegram/helpers"
	"github.com/m3rciful/bookbot/internal/catalog"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onGenreText(c tele.Context) error {
	rep, err := h.genreText(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return h.send(c, rep, err)
}

// genreText is the free-text fallback: any message that is not a command,
// menu label, or form input is treated as a genre pick. Unknown text
// re-prompts with the genre keyboard and logs nothing.
func (h *Handlers) genreText(ctx context.Context, userID int64, text string) (reply, error) {
	name := strings.TrimSpace(text)
	if _, err := h.catalog.GenreID(ctx, name); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			genres, gerr := h.catalog.ListGenres(ctx)
			if gerr != nil {
				return reply{}, gerr
			}
			return reply{text: msgInvalidGenre, markup: genreKeyboard(genres)}, nil
		}
		return reply{}, err
	}

	books, err := h.catalog.RecommendBooks(ctx, name, h.recommendLimit)
	if err != nil {
		return reply{}, err
	}
	if len(books) == 0 {
		genres, gerr := h.catalog.ListGenres(ctx)
		if gerr != nil {
			return reply{}, gerr
		}
		return reply{text: msgNoGenreBooks(name), markup: genreKeyboard(genres)}, nil
	}

	// One recommendation row per book actually shown.
	for _, b := range books {
		if err := h.catalog.RecordRecommendation(ctx, userID, b.ID); err != nil {
			return reply{}, err
		}
	}
	logger.Info(ctx, "service.catalog", "recommend.shown",
		slog.Int64("user_id", userID),
		slog.String("genre", name),
		slog.Int("books_shown", len(books)),
	)
	return reply{text: msgRecommendations(name, books), markup: readingListKeyboard(books)}, nil
}
