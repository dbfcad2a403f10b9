package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/awardsbot/core/logger"
)

// Settings keys. The flag defaults to open when the row is absent; the admin
// password is seeded once and has no mutation path.
const (
	settingVotingOpen    = "voting_open"
	settingAdminPassword = "admin_password"
)

// Store owns the durable voting state: categories, votes and settings.
// It is the single place the at-most-one-vote-per-(category, identity)
// invariant is enforced, via the two partial unique indexes on votes.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle. The handle's lifecycle belongs to
// the caller: opened at startup, closed at shutdown.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Categories returns all award categories ordered by display order.
func (s *Store) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, display_order FROM categories ORDER BY display_order`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// VotingOpen reports whether voting is currently open. A missing settings row
// counts as open.
func (s *Store) VotingOpen(ctx context.Context) (bool, error) {
	var value string
	q := s.db.Rebind(`SELECT value FROM settings WHERE key = ?`)
	err := s.db.GetContext(ctx, &value, q, settingVotingOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read voting flag: %w", err)
	}
	return value == "true", nil
}

// ToggleVoting flips the voting-open flag and returns the new state. It is a
// pure toggle: callers cannot force a specific state through it.
func (s *Store) ToggleVoting(ctx context.Context) (bool, error) {
	current, err := s.VotingOpen(ctx)
	if err != nil {
		return false, err
	}
	next := "true"
	if current {
		next = "false"
	}
	q := s.db.Rebind(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`)
	if _, err := s.db.ExecContext(ctx, q, settingVotingOpen, next); err != nil {
		return false, fmt.Errorf("toggle voting: %w", err)
	}
	open := next == "true"
	logger.Info(ctx, "store", "voting.toggle", slog.Bool("open", open))
	return open, nil
}

// SubmitVote inserts one vote row. Uniqueness per (category, identity) is
// enforced by the storage constraints, not by any cached state; a violation
// maps to ErrAlreadyVoted and leaves no row behind.
func (s *Store) SubmitVote(ctx context.Context, v Vote) error {
	voterName := strings.TrimSpace(v.VoterName)
	if voterName == "" {
		return fmt.Errorf("%w: voter name is required", ErrInvalidVote)
	}
	nominee := strings.TrimSpace(v.Nominee)
	if nominee == "" {
		return fmt.Errorf("%w: nominee name is required", ErrInvalidVote)
	}
	if !v.Identity.Valid() {
		return fmt.Errorf("%w: exactly one of email or telegram id is required", ErrInvalidVote)
	}

	var email, telegramID any
	if v.Identity.Email != "" {
		email = v.Identity.Email
	}
	if v.Identity.TelegramID != 0 {
		telegramID = v.Identity.TelegramID
	}

	q := s.db.Rebind(`INSERT INTO votes
		(category_id, voter_name, voter_email, telegram_id, nominee_name, voted_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, q,
		v.CategoryID, voterName, email, telegramID, nominee, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("insert vote: %w", err)
	}

	logger.Info(ctx, "store", "vote.submitted",
		slog.Int64("category_id", v.CategoryID),
		slog.Bool("web", v.Identity.Email != ""),
	)
	return nil
}

// VoterVotes returns all votes cast by the given identity across categories.
func (s *Store) VoterVotes(ctx context.Context, id Identity) ([]VoterVote, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: exactly one of email or telegram id is required", ErrInvalidVote)
	}
	var (
		q   string
		arg any
	)
	if id.Email != "" {
		q = `SELECT category_id, nominee_name FROM votes WHERE voter_email = ?`
		arg = id.Email
	} else {
		q = `SELECT category_id, nominee_name FROM votes WHERE telegram_id = ?`
		arg = id.TelegramID
	}
	var out []VoterVote
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), arg); err != nil {
		return nil, fmt.Errorf("list voter votes: %w", err)
	}
	return out, nil
}

// Results aggregates votes per category, counts descending. Every category is
// present in display order; categories without votes carry an empty list.
// Ties keep the encounter order of the grouped rows.
func (s *Store) Results(ctx context.Context) ([]CategoryResult, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	type resultRow struct {
		CategoryID int64  `db:"category_id"`
		Nominee    string `db:"nominee_name"`
		Votes      int    `db:"vote_count"`
	}
	var rows []resultRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT v.category_id, v.nominee_name, COUNT(*) AS vote_count
		FROM votes v
		JOIN categories c ON c.id = v.category_id
		GROUP BY v.category_id, v.nominee_name, c.display_order
		ORDER BY c.display_order, vote_count DESC, MIN(v.id)`)
	if err != nil {
		return nil, fmt.Errorf("aggregate results: %w", err)
	}

	byCategory := make(map[int64][]NomineeCount, len(categories))
	for _, r := range rows {
		byCategory[r.CategoryID] = append(byCategory[r.CategoryID], NomineeCount{
			Nominee: r.Nominee,
			Votes:   r.Votes,
		})
	}

	out := make([]CategoryResult, 0, len(categories))
	for _, c := range categories {
		nominees := byCategory[c.ID]
		if nominees == nil {
			nominees = []NomineeCount{}
		}
		out = append(out, CategoryResult{Category: c, Nominees: nominees})
	}
	return out, nil
}

// Statistics computes overall totals: votes, distinct voters across both
// identity spaces, the one-decimal average votes per voter (0 with no
// voters), and per-category counts in display order.
func (s *Store) Statistics(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := s.db.GetContext(ctx, &stats.TotalVotes,
		`SELECT COUNT(*) FROM votes`); err != nil {
		return Stats{}, fmt.Errorf("count votes: %w", err)
	}

	if err := s.db.GetContext(ctx, &stats.TotalVoters, `
		SELECT COUNT(DISTINCT COALESCE(voter_email, CAST(telegram_id AS TEXT)))
		FROM votes`); err != nil {
		return Stats{}, fmt.Errorf("count voters: %w", err)
	}

	if stats.TotalVoters > 0 {
		avg := float64(stats.TotalVotes) / float64(stats.TotalVoters)
		stats.AvgPerVoter = math.Round(avg*10) / 10
	}

	err := s.db.SelectContext(ctx, &stats.ByCategory, `
		SELECT c.id, c.name, COUNT(v.id) AS vote_count
		FROM categories c
		LEFT JOIN votes v ON v.category_id = c.id
		GROUP BY c.id, c.name, c.display_order
		ORDER BY c.display_order`)
	if err != nil {
		return Stats{}, fmt.Errorf("count votes by category: %w", err)
	}

	stats.GeneratedAt = time.Now().UTC()
	return stats, nil
}

// VerifyAdminPassword compares the candidate against the stored admin
// password. Plaintext comparison; there is no hashing, rate limiting or
// lockout, and the password has no mutation path.
func (s *Store) VerifyAdminPassword(ctx context.Context, candidate string) (bool, error) {
	var stored string
	q := s.db.Rebind(`SELECT value FROM settings WHERE key = ?`)
	err := s.db.GetContext(ctx, &stored, q, settingAdminPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read admin password: %w", err)
	}
	return stored == candidate, nil
}
