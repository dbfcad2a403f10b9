package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/awardsbot/core/telegram/format"
	"github.com/m3rciful/awardsbot/core/telegram/keyboard"
	"github.com/m3rciful/awardsbot/voting"
)

// categoryIcons decorate category buttons and headings, indexed by display
// position. Categories past the end of the list fall back to the trophy.
var categoryIcons = []string{"👔", "😂", "😊", "🤝", "✨", "💻", "🍕", "🦸", "😄", "☕", "🎯"}

const (
	callbackVote   = "vote"
	callbackFinish = "finish"

	// maxMessageLen keeps rendered messages under the Telegram limit.
	maxMessageLen = 4000
)

func categoryIcon(displayOrder int) string {
	idx := displayOrder - 1
	if idx >= 0 && idx < len(categoryIcons) {
		return categoryIcons[idx]
	}
	return "🏆"
}

// voterDisplayName derives the stored voter name from the Telegram profile.
func voterDisplayName(user *tele.User) string {
	if user == nil {
		return "Anonymous"
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		return "Anonymous"
	}
	return name
}

// categoriesKeyboard renders one button per category, marking already voted
// ones, with a finish button at the bottom.
func categoriesKeyboard(categories []voting.Category, voted map[int64]bool) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(categories)+1)
	for _, cat := range categories {
		label := fmt.Sprintf("%s %s", categoryIcon(cat.DisplayOrder), cat.Name)
		if voted[cat.ID] {
			label = "✅ " + label
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   label,
			Unique: callbackVote,
			Data:   fmt.Sprintf("%d", cat.ID),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{
		Text:   "✓ Finish Voting",
		Unique: callbackFinish,
	}})
	return keyboard.InlineButtonsRows(rows...)
}

func welcomeMessage(firstName string, admin bool) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 *Welcome to Office Awards 2026, %s!*\n\n", format.EscapeMarkdown(name))
	b.WriteString("Vote for your amazing colleagues in the award categories.\n\n")
	b.WriteString("*Available Commands:*\n")
	b.WriteString("/vote - Start voting\n")
	b.WriteString("/mystatus - Check your voting status\n")
	b.WriteString("/help - Show this message\n\n")
	if admin {
		b.WriteString("*Admin Commands:*\n/admin - Admin panel\n/results - View results\n/toggle - Toggle voting\n\n")
	}
	b.WriteString("Let's celebrate our awesome team! 🌟")
	return b.String()
}

func helpMessage(admin bool) string {
	var b strings.Builder
	b.WriteString("*Office Awards 2026 - Help*\n\n")
	b.WriteString("*User Commands:*\n")
	b.WriteString("/start - Welcome message\n")
	b.WriteString("/vote - Start voting for colleagues\n")
	b.WriteString("/mystatus - Check which categories you've voted in\n")
	b.WriteString("/help - Show this help message\n\n")
	if admin {
		b.WriteString("*Admin Commands:*\n/admin - Show admin panel\n/results - View current results\n/toggle - Toggle voting open/closed\n/stats - View voting statistics\n\n")
	}
	b.WriteString("*How to Vote:*\n")
	b.WriteString("1. Send /vote command\n")
	b.WriteString("2. Select a category from the list\n")
	b.WriteString("3. Enter the nominee's name\n")
	b.WriteString("4. Continue voting or finish\n\n")
	b.WriteString("You can vote once per category. Choose wisely! 🎯")
	return b.String()
}

// renderStatus summarizes the voter's progress across all categories.
func renderStatus(votes []voting.VoterVote, categories []voting.Category) string {
	if len(votes) == 0 {
		return "📊 *Your Voting Status*\n\n" +
			"You haven't voted in any categories yet.\n\n" +
			"Use /vote to start voting! 🗳️"
	}

	byID := make(map[int64]voting.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	var lines []string
	for _, v := range votes {
		cat, ok := byID[v.CategoryID]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("✅ %s %s: *%s*",
			categoryIcon(cat.DisplayOrder), cat.Name, format.EscapeMarkdown(v.Nominee)))
	}

	total := len(categories)
	done := len(votes)
	progress := 0
	if total > 0 {
		progress = int(float64(done)/float64(total)*100 + 0.5)
	}
	closing := "Use /vote to continue voting! 🗳️"
	if done >= total {
		closing = "You've voted in all categories! 🎉"
	}

	return fmt.Sprintf("📊 *Your Voting Status*\n\n%s\n\nProgress: %d/%d categories (%d%%)\n\n%s",
		strings.Join(lines, "\n"), done, total, progress, closing)
}

// renderResults formats the admin results view: top five nominees per
// category with medals for the podium.
func renderResults(results []voting.CategoryResult) string {
	var b strings.Builder
	b.WriteString("📊 *Current Results*\n\n")

	for _, r := range results {
		fmt.Fprintf(&b, "%s *%s*\n", categoryIcon(r.Category.DisplayOrder), r.Category.Name)
		if len(r.Nominees) == 0 {
			b.WriteString("  No votes yet\n\n")
			continue
		}
		top := r.Nominees
		if len(top) > 5 {
			top = top[:5]
		}
		for i, n := range top {
			medal := "  "
			switch i {
			case 0:
				medal = "🥇"
			case 1:
				medal = "🥈"
			case 2:
				medal = "🥉"
			}
			plural := ""
			if n.Votes != 1 {
				plural = "s"
			}
			fmt.Fprintf(&b, "%s %s: %d vote%s\n", medal, format.EscapeMarkdown(n.Nominee), n.Votes, plural)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderStats(stats voting.Stats, open bool) string {
	statusEmoji, statusText := "🔴", "Closed"
	if open {
		statusEmoji, statusText = "🟢", "Open"
	}

	var byCategory strings.Builder
	for _, c := range stats.ByCategory {
		fmt.Fprintf(&byCategory, "  %s: %d\n", c.Name, c.Count)
	}
	categoryLines := strings.TrimRight(byCategory.String(), "\n")
	if categoryLines == "" {
		categoryLines = "  No votes yet"
	}

	return fmt.Sprintf("📈 *Voting Statistics*\n\n"+
		"%s Status: %s\n"+
		"👥 Total Voters: %d\n"+
		"🗳️ Total Votes: %d\n"+
		"📊 Average Votes per Person: %.1f\n\n"+
		"*Votes by Category:*\n%s",
		statusEmoji, statusText, stats.TotalVoters, stats.TotalVotes, stats.AvgPerVoter, categoryLines)
}

// chunkMessage splits text into rune-safe pieces below the send limit.
func chunkMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := limit
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
