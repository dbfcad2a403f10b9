package voting

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrAlreadyVoted indicates the identity already holds a vote in the
	// category. Not fatal; reported to the voter and never retried.
	ErrAlreadyVoted = errors.New("you have already voted in this category")

	// ErrVotingClosed indicates submissions are rejected because voting is
	// currently closed.
	ErrVotingClosed = errors.New("voting is currently closed")

	// ErrInvalidVote indicates a validation failure; no row is written.
	ErrInvalidVote = errors.New("invalid vote")
)

// isUniqueViolation recognizes a uniqueness-constraint failure from either
// supported engine: Postgres in production, SQLite in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
