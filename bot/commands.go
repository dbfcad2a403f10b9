package bot

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/awardsbot/core/logger"
	tghelpers "github.com/m3rciful/awardsbot/core/telegram/helpers"
)

const errGeneric = "❌ An error occurred. Please try again."

func (b *Bot) handleStart(c tele.Context) error {
	user := c.Sender()
	firstName, admin := "", false
	if user != nil {
		firstName = user.FirstName
		admin = b.cfg.IsAdmin(user.ID)
	}
	return tghelpers.SendMD(c, welcomeMessage(firstName, admin))
}

func (b *Bot) handleHelp(c tele.Context) error {
	admin := c.Sender() != nil && b.cfg.IsAdmin(c.Sender().ID)
	return tghelpers.SendMD(c, helpMessage(admin))
}

func (b *Bot) handleVote(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	open, err := b.store.VotingOpen(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "vote.flag_check", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	if !open {
		return tghelpers.SendText(c, "❌ Voting is currently closed. Please check back later.")
	}

	userID := c.Sender().ID
	voted, err := b.votedCategories(c)
	if err != nil {
		return tghelpers.SendText(c, errGeneric)
	}

	categories, err := b.store.Categories(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "vote.categories", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}

	b.sessions.Begin(userID)

	return tghelpers.SendMD(c,
		"🗳️ *Select a category to vote:*\n\n✅ = Already voted\nTap a category to cast your vote!",
		categoriesKeyboard(categories, voted))
}

func (b *Bot) handleMyStatus(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	votes, err := b.store.VoterVotes(ctx, b.identity(c))
	if err != nil {
		logger.Error(ctx, "bot", "mystatus.votes", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	categories, err := b.store.Categories(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "mystatus.categories", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}

	return tghelpers.SendMD(c, renderStatus(votes, categories))
}

func (b *Bot) handleAdmin(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	open, err := b.store.VotingOpen(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "admin.flag_check", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	statusEmoji, statusText := "🔴", "Closed"
	if open {
		statusEmoji, statusText = "🟢", "Open"
	}

	return tghelpers.SendMD(c,
		"🔐 *Admin Panel*\n\n"+
			statusEmoji+" Voting Status: *"+statusText+"*\n\n"+
			"*Available Commands:*\n"+
			"/results - View current results\n"+
			"/toggle - Toggle voting open/closed\n"+
			"/stats - View voting statistics")
}

func (b *Bot) handleResults(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	results, err := b.store.Results(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "results.fetch", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}

	message := renderResults(results)
	for _, chunk := range chunkMessage(message, maxMessageLen) {
		if err := tghelpers.SendMD(c, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleToggle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	open, err := b.store.ToggleVoting(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "toggle", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	if open {
		return tghelpers.SendMD(c, "🟢 Voting is now *OPEN*")
	}
	return tghelpers.SendMD(c, "🔴 Voting is now *CLOSED*")
}

func (b *Bot) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	stats, err := b.store.Statistics(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "stats.fetch", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	open, err := b.store.VotingOpen(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "stats.flag_check", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}

	return tghelpers.SendMD(c, renderStats(stats, open))
}
