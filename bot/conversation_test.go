package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/awardsbot/core/config"
	"github.com/m3rciful/awardsbot/core/telegram/state"
	"github.com/m3rciful/awardsbot/voting"
	"github.com/m3rciful/awardsbot/voting/votingtest"
)

// fakeTeleCtx implements the slice of tele.Context the conversation handlers
// touch: sender, text, callback data, per-update storage and outbound sends.
type fakeTeleCtx struct {
	tele.Context
	user *tele.User
	text string
	data string
	kv   map[string]any
	sent []string
}

func newFakeCtx(user *tele.User) *fakeTeleCtx {
	return &fakeTeleCtx{user: user, kv: make(map[string]any)}
}

func (c *fakeTeleCtx) Update() tele.Update { return tele.Update{ID: 1} }
func (c *fakeTeleCtx) Sender() *tele.User  { return c.user }
func (c *fakeTeleCtx) Chat() *tele.Chat    { return &tele.Chat{ID: c.user.ID} }
func (c *fakeTeleCtx) Text() string        { return c.text }

func (c *fakeTeleCtx) Callback() *tele.Callback {
	if c.data == "" {
		return nil
	}
	return &tele.Callback{Data: c.data}
}

func (c *fakeTeleCtx) Get(key string) any      { return c.kv[key] }
func (c *fakeTeleCtx) Set(key string, val any) { c.kv[key] = val }

func (c *fakeTeleCtx) Send(what any, _ ...any) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *fakeTeleCtx) EditOrSend(what any, opts ...any) error { return c.Send(what, opts...) }

func (c *fakeTeleCtx) lastSent(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	store := voting.NewStore(votingtest.NewDB(t))
	require.NoError(t, store.Seed(context.Background()))
	return New(&coreconfig.Config{}, store)
}

func TestVoteConversationRecordsVote(t *testing.T) {
	b := newTestBot(t)
	user := &tele.User{ID: 111, FirstName: "Priya"}

	sel := newFakeCtx(user)
	sel.data = "\fvote|1"
	require.NoError(t, b.handleVoteCallback(sel))
	assert.Equal(t, state.StateAwaitingNominee, b.sessions.State(user.ID))
	assert.Contains(t, sel.lastSent(t), "enter the name")

	// The nominee text goes through the session dispatcher, as in production.
	msg := newFakeCtx(user)
	msg.text = "Priya"
	require.NoError(t, b.sessions.ManagerHandler(msg))
	assert.Equal(t, state.StateSelecting, b.sessions.State(user.ID))

	votes, err := b.store.VoterVotes(context.Background(), voting.ChatIdentity(user.ID))
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, int64(1), votes[0].CategoryID)
	assert.Equal(t, "Priya", votes[0].Nominee)
}

func TestReselectingVotedCategoryIsRejected(t *testing.T) {
	b := newTestBot(t)
	user := &tele.User{ID: 111, FirstName: "Priya"}

	require.NoError(t, b.store.SubmitVote(context.Background(), voting.Vote{
		CategoryID: 1,
		VoterName:  "Priya",
		Identity:   voting.ChatIdentity(user.ID),
		Nominee:    "Sam",
	}))
	b.sessions.Begin(user.ID)

	sel := newFakeCtx(user)
	sel.data = "\fvote|1"
	require.NoError(t, b.handleVoteCallback(sel))

	assert.Contains(t, sel.lastSent(t), "already voted")
	assert.Equal(t, state.StateSelecting, b.sessions.State(user.ID),
		"a rejected selection must not change state")
}

func TestEmptyNomineeKeepsAwaitingState(t *testing.T) {
	b := newTestBot(t)
	user := &tele.User{ID: 111, FirstName: "Priya"}

	sel := newFakeCtx(user)
	sel.data = "\fvote|2"
	require.NoError(t, b.handleVoteCallback(sel))

	msg := newFakeCtx(user)
	msg.text = "   "
	require.NoError(t, b.handleNominee(msg))

	assert.Contains(t, msg.lastSent(t), "valid name")
	assert.Equal(t, state.StateAwaitingNominee, b.sessions.State(user.ID))

	votes, err := b.store.VoterVotes(context.Background(), voting.ChatIdentity(user.ID))
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestFinishCallbackEndsSession(t *testing.T) {
	b := newTestBot(t)
	user := &tele.User{ID: 111, FirstName: "Priya"}
	b.sessions.Begin(user.ID)

	c := newFakeCtx(user)
	c.data = "\ffinish"
	require.NoError(t, b.handleFinishCallback(c))

	assert.Equal(t, state.StateIdle, b.sessions.State(user.ID))
	assert.Contains(t, c.lastSent(t), "Voting Complete")
}
