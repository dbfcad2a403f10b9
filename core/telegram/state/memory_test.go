package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(100)

	assert.Equal(t, StateIdle, m.State(userID))
	assert.False(t, m.InProgress(userID))

	m.Begin(userID)
	assert.Equal(t, StateSelecting, m.State(userID))
	assert.True(t, m.InProgress(userID))
	_, _, ok := m.Current(userID)
	assert.False(t, ok)

	m.SetCurrent(userID, 3, "Tech Guru Award")
	assert.Equal(t, StateAwaitingNominee, m.State(userID))
	id, name, ok := m.Current(userID)
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "Tech Guru Award", name)

	m.ClearCurrent(userID)
	assert.Equal(t, StateSelecting, m.State(userID))
	_, _, ok = m.Current(userID)
	assert.False(t, ok)

	m.Finish(userID)
	assert.Equal(t, StateIdle, m.State(userID))
	assert.False(t, m.InProgress(userID))
}

func TestBeginResetsPendingCategory(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(7)

	m.Begin(userID)
	m.SetCurrent(userID, 5, "Best Smile Award")
	m.Begin(userID)

	assert.Equal(t, StateSelecting, m.State(userID))
	_, _, ok := m.Current(userID)
	assert.False(t, ok)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewMemoryManager()

	m.Begin(1)
	m.SetCurrent(1, 2, "Office Comedian Award")

	assert.Equal(t, StateIdle, m.State(2))
	m.Begin(2)
	assert.Equal(t, StateAwaitingNominee, m.State(1))
	assert.Equal(t, StateSelecting, m.State(2))
}

func TestConcurrentAccess(t *testing.T) {
	m := NewMemoryManager()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			m.Begin(userID)
			m.SetCurrent(userID, userID, "cat")
			_, _, _ = m.Current(userID)
			m.Finish(userID)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		assert.False(t, m.InProgress(i))
	}
}
