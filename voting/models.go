package voting

import (
	"strings"
	"time"
)

// Category is an award category nominees are voted into. Categories are seeded
// once at startup and never updated or deleted afterwards.
type Category struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

// Identity is a voter identity on exactly one of the two channels: a web
// voter is distinguished by email, a Telegram voter by chat-user id. The two
// identity spaces are independent uniqueness domains.
type Identity struct {
	Email      string
	TelegramID int64
}

// WebIdentity builds a web-channel identity from an email address.
// The email is normalized to its lower-cased, trimmed form.
func WebIdentity(email string) Identity {
	return Identity{Email: strings.ToLower(strings.TrimSpace(email))}
}

// ChatIdentity builds a Telegram-channel identity from a chat-user id.
func ChatIdentity(telegramID int64) Identity {
	return Identity{TelegramID: telegramID}
}

// Valid reports whether exactly one channel identity is set.
func (i Identity) Valid() bool {
	return (i.Email != "") != (i.TelegramID != 0)
}

// Vote is a single vote submission: one nominee in one category by one
// channel identity.
type Vote struct {
	CategoryID int64
	VoterName  string
	Identity   Identity
	Nominee    string
}

// VoterVote is one already-cast vote as seen by the voter themselves.
type VoterVote struct {
	CategoryID int64  `db:"category_id" json:"category_id"`
	Nominee    string `db:"nominee_name" json:"nominee_name"`
}

// NomineeCount is one aggregated result line: a nominee and their vote count.
type NomineeCount struct {
	Nominee string `db:"nominee_name" json:"nominee"`
	Votes   int    `db:"vote_count" json:"votes"`
}

// CategoryResult holds the aggregated results of one category, counts
// descending. Categories with no votes carry an empty (non-nil) Nominees list.
type CategoryResult struct {
	Category Category
	Nominees []NomineeCount
}

// CategoryCount is a per-category vote total used by statistics.
type CategoryCount struct {
	CategoryID int64  `db:"id"`
	Name       string `db:"name"`
	Count      int    `db:"vote_count"`
}

// Stats summarizes overall voting activity. Web emails and Telegram ids are
// counted as one voter domain: a voter is distinguished by email or, absent
// one, by chat-user id.
type Stats struct {
	TotalVotes  int
	TotalVoters int
	AvgPerVoter float64
	ByCategory  []CategoryCount
	GeneratedAt time.Time
}
