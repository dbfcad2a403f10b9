package bot

import (
	"errors"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/awardsbot/core/logger"
	"github.com/m3rciful/awardsbot/core/telegram/format"
	tghelpers "github.com/m3rciful/awardsbot/core/telegram/helpers"
	"github.com/m3rciful/awardsbot/voting"
)

// handleNominee consumes the text message that follows a category selection
// and records the vote.
func (b *Bot) handleNominee(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	categoryID, _, ok := b.sessions.Current(userID)
	if !ok {
		return nil
	}

	nominee := strings.TrimSpace(c.Text())
	if nominee == "" {
		return tghelpers.SendText(c, "❌ Please enter a valid name.")
	}

	open, err := b.store.VotingOpen(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "nominee.flag_check", slog.String("err", err.Error()))
		return tghelpers.SendText(c, "❌ An error occurred. Please try /vote to start again.")
	}
	if !open {
		b.sessions.ClearCurrent(userID)
		return tghelpers.SendText(c, "❌ "+voting.ErrVotingClosed.Error())
	}

	err = b.store.SubmitVote(ctx, voting.Vote{
		CategoryID: categoryID,
		VoterName:  voterDisplayName(c.Sender()),
		Identity:   b.identity(c),
		Nominee:    nominee,
	})
	if err != nil {
		b.sessions.ClearCurrent(userID)
		if errors.Is(err, voting.ErrAlreadyVoted) || errors.Is(err, voting.ErrInvalidVote) {
			return tghelpers.SendText(c, "❌ "+err.Error())
		}
		logger.Error(ctx, "bot", "nominee.submit", slog.String("err", err.Error()))
		return tghelpers.SendText(c, "❌ An error occurred. Please try /vote to start again.")
	}

	b.sessions.ClearCurrent(userID)

	if err := tghelpers.SendMD(c, "✅ Vote recorded for *"+format.EscapeMarkdown(nominee)+"*!\n\n"+
		"Continue voting or tap Finish when done."); err != nil {
		return err
	}

	// Re-offer the keyboard with the fresh voted set.
	voted, err := b.votedCategories(c)
	if err != nil {
		return nil
	}
	categories, err := b.store.Categories(ctx)
	if err != nil {
		return nil
	}
	return tghelpers.SendMD(c,
		"🗳️ *Select another category:*\n\n✅ = Already voted",
		categoriesKeyboard(categories, voted))
}
