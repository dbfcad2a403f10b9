// Package votingtest provides an in-memory database fixture for store tests.
// Tests run on SQLite; production runs on Postgres. The schema below mirrors
// the final migrated shape, including both partial unique indexes on votes.
package votingtest

import (
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var bindOnce sync.Once

const schema = `
CREATE TABLE categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE votes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL REFERENCES categories (id),
	voter_name TEXT NOT NULL,
	voter_email TEXT,
	telegram_id BIGINT,
	nominee_name TEXT NOT NULL,
	voted_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX idx_votes_web
	ON votes (category_id, voter_email) WHERE voter_email IS NOT NULL;

CREATE UNIQUE INDEX idx_votes_telegram
	ON votes (category_id, telegram_id) WHERE telegram_id IS NOT NULL;

CREATE TABLE settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// NewDB opens a fresh in-memory database with the full schema applied.
// The single-connection pool keeps every query on the same in-memory handle.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	bindOnce.Do(func() {
		sqlx.BindDriver("sqlite", sqlx.QUESTION)
	})

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}
