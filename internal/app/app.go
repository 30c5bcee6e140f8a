package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/bookbot/core/bootstrap"
	"github.com/m3rciful/bookbot/core/cmd"
	"github.com/m3rciful/bookbot/core/telegram/state"
	"github.com/m3rciful/bookbot/internal/catalog"
	"github.com/m3rciful/bookbot/internal/handlers"

	tg "github.com/m3rciful/bookbot/core/telegram"
	"github.com/m3rciful/bookbot/core/telegram/router"
)

// App holds the initialised infrastructure for a running bot.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    *catalog.Store
	sessions *handlers.Sessions
}

// Bootstrap initialises logging, the database (with migrations and seed
// data), and the catalog store.
func Bootstrap(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders: []bootstrap.Seeder{
			bootstrap.SeederFunc(catalog.SeedGenres),
			bootstrap.SeederFunc(catalog.SeedBooks),
		},
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		db:       res.DB,
		store:    catalog.New(res.DB),
		sessions: state.NewManager[handlers.Form](),
	}, nil
}

// TelegramRunOptions wires handlers, middlewares, and routes for the runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	h := handlers.New(a.store, a.sessions, a.cfg.Catalog.RecommendLimit)
	h.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.sessions, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(context.Context, tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
