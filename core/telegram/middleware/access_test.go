package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

// senderCtx exposes only the sender; everything else panics if touched.
type senderCtx struct {
	tele.Context
	user *tele.User
}

func (c *senderCtx) Sender() *tele.User { return c.user }

func TestAdminOnlyMiddleware(t *testing.T) {
	var handled, rejected bool
	h := AdminOnlyMiddleware(AdminOptions{
		IsAdmin:  func(id int64) bool { return id == 42 },
		OnReject: func(tele.Context) error { rejected = true; return nil },
	})(func(tele.Context) error { handled = true; return nil })

	require.NoError(t, h(&senderCtx{user: &tele.User{ID: 42}}))
	assert.True(t, handled)
	assert.False(t, rejected)

	handled, rejected = false, false
	require.NoError(t, h(&senderCtx{user: &tele.User{ID: 7}}))
	assert.False(t, handled, "non-allow-listed sender must not reach the handler")
	assert.True(t, rejected)
}

func TestAdminOnlyMiddlewareRejectsWithoutPredicate(t *testing.T) {
	var handled bool
	h := AdminOnlyMiddleware(AdminOptions{})(func(tele.Context) error { handled = true; return nil })

	require.NoError(t, h(&senderCtx{user: &tele.User{ID: 42}}))
	assert.False(t, handled)

	// Updates without a sender are rejected too.
	require.NoError(t, h(&senderCtx{}))
	assert.False(t, handled)
}
