// Package app assembles the conversion bot from configuration and bootstrapped infrastructure.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/nbrbbot/core/bootstrap"
	"github.com/m3rciful/nbrbbot/core/cmd"
	coreconfig "github.com/m3rciful/nbrbbot/core/config"
	"github.com/m3rciful/nbrbbot/core/logger"
	coretelegram "github.com/m3rciful/nbrbbot/core/telegram"
	"github.com/m3rciful/nbrbbot/core/telegram/router"
	"github.com/m3rciful/nbrbbot/core/telegram/state"
	"github.com/m3rciful/nbrbbot/internal/convbot"
	"github.com/m3rciful/nbrbbot/internal/nbrb"
)

// App holds the wired bot.
type App struct {
	cfg        *coreconfig.Config
	infra      *bootstrap.Result
	dispatcher *convbot.Dispatcher
	registry   *coretelegram.Registry
}

// Bootstrap initializes infrastructure and builds the App. It matches cmd.Options.Bootstrap.
func Bootstrap(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()
	infra, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
	if err != nil {
		return nil, err
	}
	a, err := New(cfg, infra.DB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	a.infra = infra
	return a, nil
}

// New wires the state store, the NBRB client and the dispatcher.
// db is required only for the postgres state backend.
func New(cfg *coreconfig.Config, db *sqlx.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	backend, err := newBackend(cfg.State.Backend, db)
	if err != nil {
		return nil, err
	}
	store, err := state.NewStore(backend)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	rates := nbrb.NewClient(cfg.Rates.BaseURL, time.Duration(cfg.Rates.TimeoutSeconds)*time.Second)
	d := convbot.NewDispatcher(convbot.NewPendingStore(store), rates)

	reg := coretelegram.NewRegistry()
	d.Register(reg)

	logger.Info(context.Background(), "app", "wired",
		slog.String("state_backend", cfg.State.Backend),
		slog.String("rates_url", cfg.Rates.BaseURL),
		slog.Int("commands", len(reg.Commands())),
	)
	return &App{cfg: cfg, dispatcher: d, registry: reg}, nil
}

func newBackend(kind string, db *sqlx.DB) (state.Backend, error) {
	switch kind {
	case "", coreconfig.StateBackendMemory:
		return state.NewMemoryBackend(), nil
	case coreconfig.StateBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("app: postgres state backend requires a database connection")
		}
		return state.NewPostgresBackend(db), nil
	default:
		return nil, fmt.Errorf("app: unknown state backend %q", kind)
	}
}

// Dispatcher exposes the conversation dispatcher.
func (a *App) Dispatcher() *convbot.Dispatcher {
	return a.dispatcher
}

// TelegramRunOptions describes how to run the bot.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.TextRoutes(a.registry, router.TextOptions{
		UnknownMedia: convbot.UseMenu,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, convbot.TooFast),
		Routes:      routes,
	}, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	return a.infra.Close()
}
