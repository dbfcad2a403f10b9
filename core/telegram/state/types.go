package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step in the voting conversation.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateSelecting indicates the user is picking a category from the keyboard.
	StateSelecting State = "selecting"
	// StateAwaitingNominee indicates the user picked a category and the next
	// text message is taken as the nominee name.
	StateAwaitingNominee State = "awaiting_nominee"
)

// Session stores the voting conversation progress for one user. Current*
// fields are meaningful only in StateAwaitingNominee.
type Session struct {
	State       State
	CurrentID   int64
	CurrentName string
}

// Manager orchestrates per-user voting sessions and state transitions.
type Manager interface {
	// Begin opens (or resets) a session in the selecting state.
	Begin(userID int64)
	// SetCurrent records the category awaiting a nominee and advances the state.
	SetCurrent(userID int64, categoryID int64, categoryName string)
	// Current returns the category awaiting a nominee, if any.
	Current(userID int64) (int64, string, bool)
	// ClearCurrent drops the pending category and returns to selecting.
	ClearCurrent(userID int64)
	// Finish removes the session entirely.
	Finish(userID int64)

	State(userID int64) State
	InProgress(userID int64) bool

	// ManagerHandler dispatches an incoming update to the handler registered
	// for the user's current state.
	ManagerHandler(c tele.Context) error
}
