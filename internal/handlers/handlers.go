// Package handlers implements the conversational surface of the bot: the
// main menu, the add/update book form flows, inline callbacks, and the
// genre recommendation fallback.
package handlers

import (
	"context"

	"github.com/m3rciful/bookbot/core/buildinfo"
	"github.com/m3rciful/bookbot/core/logger"
	tg "github.com/m3rciful/bookbot/core/telegram"
	tgcallbacks "github.com/m3rciful/bookbot/core/telegram/callbacks"
	"github.com/m3rciful/bookbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/bookbot/core/telegram/helpers"
	"github.com/m3rciful/bookbot/core/telegram/state"
	"github.com/m3rciful/bookbot/internal/catalog"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Catalog is the slice of the catalog store the handlers depend on.
type Catalog interface {
	EnsureUser(ctx context.Context, id int64, username, firstName, lastName string) error
	ListGenres(ctx context.Context) ([]catalog.Genre, error)
	GenreID(ctx context.Context, name string) (int64, error)
	RecommendBooks(ctx context.Context, genreName string, limit int) ([]catalog.Book, error)
	RandomBook(ctx context.Context) (catalog.Book, error)
	InsertBook(ctx context.Context, title, author string, genreID int64, year int, ownerID int64, rating *int) (int64, error)
	UpdateBookField(ctx context.Context, bookID, ownerID int64, field catalog.BookField, value any) (int64, error)
	DeleteBook(ctx context.Context, bookID, ownerID int64) (int64, error)
	RecordRecommendation(ctx context.Context, userID, bookID int64) error
	AddToReadingList(ctx context.Context, userID, bookID int64) error
	ListOwnedBooks(ctx context.Context, userID int64) ([]catalog.Book, error)
	ListReadingList(ctx context.Context, userID int64) ([]catalog.Book, error)
	UserStats(ctx context.Context, userID int64) (catalog.UserStats, error)
}

// Sessions is the typed dialogue session store used by all flows.
type Sessions = state.Manager[Form]

// Handlers wires the catalog and the session store into bot handlers.
type Handlers struct {
	catalog        Catalog
	sessions       *Sessions
	recommendLimit int
}

// New builds the handler set. recommendLimit caps genre recommendations.
func New(cat Catalog, sessions *Sessions, recommendLimit int) *Handlers {
	if recommendLimit <= 0 {
		recommendLimit = 3
	}
	return &Handlers{
		catalog:        cat,
		sessions:       sessions,
		recommendLimit: recommendLimit,
	}
}

// reply is a single outbound message: Markdown text plus optional keyboard.
// edit asks to rewrite the triggering message in place (callback flows).
type reply struct {
	text   string
	markup *tele.ReplyMarkup
	edit   bool
}

// Register wires commands, menu-label aliases, callbacks, the text fallback,
// and the FSM state handlers.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.onStart,
		Description: "Main menu",
	})
	reg.RegisterCommand("/recommend", commands.Command{
		Handler:     h.onMenuRecommend,
		Description: "Get book recommendations by genre",
		Aliases:     []string{LabelRecommend},
	})
	reg.RegisterCommand("/addbook", commands.Command{
		Handler:     h.onMenuAddBook,
		Description: "Add a book to your library",
		Aliases:     []string{LabelAddBook},
	})
	reg.RegisterCommand("/mybooks", commands.Command{
		Handler:     h.onMenuMyBooks,
		Description: "List your books",
		Aliases:     []string{LabelMyBooks},
	})
	reg.RegisterCommand("/surprise", commands.Command{
		Handler:     h.onMenuSurprise,
		Description: "Get a random book",
		Aliases:     []string{LabelSurprise},
	})
	reg.RegisterCommand("/readinglist", commands.Command{
		Handler:     h.onMenuReadingList,
		Description: "Show your reading list",
		Aliases:     []string{LabelReadingList},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.onMenuStats,
		Description: "Show your usage stats",
		Aliases:     []string{LabelStats},
	})
	reg.RegisterCommand("/version", commands.Command{
		Handler:     h.onVersion,
		Description: "Show build info",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbAddReading, h.onAddReading)
	_ = reg.RegisterCallback(cbDelete, h.onDelete)
	_ = reg.RegisterCallback(cbUpdate, h.onUpdate)
	_ = reg.RegisterCallback(cbField, h.onField)

	reg.SetTextFallback(h.onGenreText)
	reg.SetCallbackNotFound(func(c tele.Context) error {
		return tghelpers.SendText(c, msgUnknownAction)
	})

	h.sessions.Handle(stateAddTitle, h.onAddTitle)
	h.sessions.Handle(stateAddAuthor, h.onAddAuthor)
	h.sessions.Handle(stateAddGenre, h.onAddGenre)
	h.sessions.Handle(stateAddYear, h.onAddYear)
	h.sessions.Handle(stateAddRating, h.onAddRating)
	h.sessions.Handle(stateUpdateValue, h.onUpdateValue)
	// stateUpdateField expects a button press; free text in that state falls
	// through to menu routing on purpose.
}

// send delivers a core-flow result. A non-nil error means the catalog failed;
// the session is left untouched so the user can retry from where they were.
func (h *Handlers) send(c tele.Context, rep reply, err error) error {
	if err != nil {
		ctx := tghelpers.BuildContext(c)
		logger.Error(ctx, "tg", "handler.catalog_error",
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgGenericError)
	}
	if rep.text == "" {
		return nil
	}
	if rep.edit {
		return tghelpers.EditOrSendMD(c, rep.text, rep.markup)
	}
	return tghelpers.SendMD(c, rep.text, rep.markup)
}

func (h *Handlers) onVersion(c tele.Context) error {
	return tghelpers.SendText(c, "bookbot "+buildinfo.Version+" ("+buildinfo.Commit+")")
}

// payloadBookID parses the integer book id carried by an inline callback.
func payloadBookID(c tele.Context) (int64, bool) {
	id, err := tgcallbacks.PayloadInt64(c)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
