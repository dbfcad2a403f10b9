package bot

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/awardsbot/core/logger"
	"github.com/m3rciful/awardsbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/awardsbot/core/telegram/helpers"
)

// handleVoteCallback reacts to a category button press: the chosen category is
// stored in the session and the user is prompted for a nominee name.
func (b *Bot) handleVoteCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, "❌ Unsupported action.")
	}
	userID := c.Sender().ID

	// Check storage, not the session: votes from a previous session or
	// another device count too.
	votes, err := b.store.VoterVotes(ctx, b.identity(c))
	if err != nil {
		logger.Error(ctx, "bot", "callback.vote", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	for _, v := range votes {
		if v.CategoryID == categoryID {
			return tghelpers.SendText(c, "You have already voted in this category!")
		}
	}

	categories, err := b.store.Categories(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "callback.vote", slog.String("err", err.Error()))
		return tghelpers.SendText(c, errGeneric)
	}
	var name string
	var displayOrder int
	for _, cat := range categories {
		if cat.ID == categoryID {
			name = cat.Name
			displayOrder = cat.DisplayOrder
			break
		}
	}
	if name == "" {
		return tghelpers.SendText(c, "❌ Unknown category.")
	}

	if !b.sessions.InProgress(userID) {
		b.sessions.Begin(userID)
	}
	b.sessions.SetCurrent(userID, categoryID, name)

	return tghelpers.SendMD(c, fmt.Sprintf(
		"%s *%s*\n\nPlease enter the name of the person you want to nominate:",
		categoryIcon(displayOrder), name))
}

// handleFinishCallback ends the session and replaces the keyboard message.
func (b *Bot) handleFinishCallback(c tele.Context) error {
	b.sessions.Finish(c.Sender().ID)

	return tghelpers.EditOrSendMD(c,
		"✅ *Voting Complete!*\n\n"+
			"Thank you for participating in the Office Awards 2026!\n\n"+
			"Use /mystatus to see your votes.")
}
