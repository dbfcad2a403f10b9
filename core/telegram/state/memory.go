package state

import (
	"sync"

	"github.com/m3rciful/awardsbot/core/logger"
	tghelpers "github.com/m3rciful/awardsbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager constructs an in-memory Manager implementation.
// Sessions do not survive a restart; cast votes do, they live in storage.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

// Begin opens a fresh session in the selecting state, replacing any previous one.
func (m *memoryManager) Begin(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &Session{State: StateSelecting}
}

// SetCurrent records the category awaiting a nominee and advances the state.
func (m *memoryManager) SetCurrent(userID int64, categoryID int64, categoryName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{}
		m.sessions[userID] = sess
	}
	sess.State = StateAwaitingNominee
	sess.CurrentID = categoryID
	sess.CurrentName = categoryName
}

// Current returns the category awaiting a nominee, if any.
func (m *memoryManager) Current(userID int64) (int64, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok || sess.State != StateAwaitingNominee {
		return 0, "", false
	}
	return sess.CurrentID, sess.CurrentName, true
}

// ClearCurrent drops the pending category and returns to the selecting state.
func (m *memoryManager) ClearCurrent(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return
	}
	sess.State = StateSelecting
	sess.CurrentID = 0
	sess.CurrentName = ""
}

// Finish removes the session entirely.
func (m *memoryManager) Finish(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// State returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) State(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// InProgress reports whether the user currently has an active session.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}

// ManagerHandler executes the handler function registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.State(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
