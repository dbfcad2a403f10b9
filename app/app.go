// Package app assembles the service: configuration, logging, storage,
// the web API and the Telegram bot.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/awardsbot/bot"
	coredatabase "github.com/m3rciful/awardsbot/core/database"
	"github.com/m3rciful/awardsbot/core/logger"
	"github.com/m3rciful/awardsbot/httpapi"
	"github.com/m3rciful/awardsbot/voting"
)

// App holds the initialized application components.
type App struct {
	Config *Config
	DB     *sqlx.DB
	Store  *voting.Store
	Bot    *bot.Bot
}

// New runs the bootstrap pipeline: logger, database connection, migrations
// and seeding, then wires the bot.
func New(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}

	if err := coredatabase.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	store := voting.NewStore(db)
	if err := store.Seed(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: seeding failed: %w", err)
	}

	return &App{
		Config: cfg,
		DB:     db,
		Store:  store,
		Bot:    bot.New(cfg.CoreConfig(), store),
	}, nil
}

// Run serves the web API and the Telegram bot until the context is cancelled
// or either surface fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.Bot.Run(ctx)
	}()
	go func() {
		errCh <- httpapi.Run(ctx, a.Config.HTTP, a.Store)
	}()

	// First failure (or clean exit) stops the other surface too.
	err := <-errCh
	cancel()
	if other := <-errCh; err == nil {
		err = other
	}
	return err
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
