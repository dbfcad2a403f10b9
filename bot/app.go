// Package bot implements the Telegram surface of the awards service: the
// command set, the inline category keyboard, and the nominee conversation.
package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/awardsbot/core/config"
	tg "github.com/m3rciful/awardsbot/core/telegram"
	"github.com/m3rciful/awardsbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/awardsbot/core/telegram/helpers"
	"github.com/m3rciful/awardsbot/core/telegram/router"
	"github.com/m3rciful/awardsbot/core/telegram/state"
	"github.com/m3rciful/awardsbot/voting"
)

// Bot wires the voting store and per-user sessions into Telegram handlers.
type Bot struct {
	cfg      *coreconfig.Config
	store    *voting.Store
	sessions state.Manager
	registry *tg.Registry
}

// New assembles the bot: commands, callbacks and the nominee conversation
// handler are registered once, routes are built at Run time.
func New(cfg *coreconfig.Config, store *voting.Store) *Bot {
	b := &Bot{
		cfg:      cfg,
		store:    store,
		sessions: state.NewMemoryManager(),
		registry: tg.NewRegistry(),
	}
	b.registerCommands()
	b.registerCallbacks()
	state.RegisterHandler(state.StateAwaitingNominee, b.handleNominee)
	return b
}

func (b *Bot) registerCommands() {
	b.registry.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Welcome message",
	})
	b.registry.RegisterCommand("/help", commands.Command{
		Handler:     b.handleHelp,
		Description: "Show help",
	})
	b.registry.RegisterCommand("/vote", commands.Command{
		Handler:     b.handleVote,
		Description: "Start voting",
	})
	b.registry.RegisterCommand("/mystatus", commands.Command{
		Handler:     b.handleMyStatus,
		Description: "Check your voting status",
	})
	b.registry.RegisterCommand("/admin", commands.Command{
		Handler:     b.handleAdmin,
		Description: "Admin panel",
		AdminOnly:   true,
	})
	b.registry.RegisterCommand("/results", commands.Command{
		Handler:     b.handleResults,
		Description: "View current results",
		AdminOnly:   true,
	})
	b.registry.RegisterCommand("/toggle", commands.Command{
		Handler:     b.handleToggle,
		Description: "Toggle voting open/closed",
		AdminOnly:   true,
	})
	b.registry.RegisterCommand("/stats", commands.Command{
		Handler:     b.handleStats,
		Description: "View voting statistics",
		AdminOnly:   true,
	})
}

func (b *Bot) registerCallbacks() {
	_ = b.registry.RegisterCallback(callbackVote, b.handleVoteCallback)
	_ = b.registry.RegisterCallback(callbackFinish, b.handleFinishCallback)
}

// Run starts the bot and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	routes := router.CommandRoutes(b.registry, router.CommandRouteOptions{
		IsAdmin: b.cfg.IsAdmin,
		OnAdminReject: func(c tele.Context) error {
			return tghelpers.SendText(c, "❌ You do not have admin access.")
		},
	})
	routes = append(routes, router.CallbackRoute(b.registry, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(b.sessions, b.registry, router.TextOptions{}))

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      b.cfg,
		Registry:    b.registry,
		Middlewares: tg.DefaultMiddlewares(b.cfg, nil),
		Routes:      routes,
	})
}

// identity returns the sender's voting identity on the Telegram channel.
func (b *Bot) identity(c tele.Context) voting.Identity {
	return voting.ChatIdentity(c.Sender().ID)
}

// votedCategories returns the set of category ids the sender already voted in.
func (b *Bot) votedCategories(c tele.Context) (map[int64]bool, error) {
	votes, err := b.store.VoterVotes(tghelpers.BuildContext(c), b.identity(c))
	if err != nil {
		return nil, err
	}
	voted := make(map[int64]bool, len(votes))
	for _, v := range votes {
		voted[v.CategoryID] = true
	}
	return voted, nil
}
