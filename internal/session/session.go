// Package session tracks per-user conversation state. A session exists only
// while a dialogue is active: it is created on dialogue entry, overwritten on
// re-entry, and destroyed on completion or cancellation.
package session

// State identifies a finite-state-machine step in a conversation.
type State string

const (
	// StateIdle indicates there is no active dialogue with the user.
	StateIdle State = "idle"

	// Registration dialogue.
	StateAwaitName    State = "await_name"
	StateAwaitContact State = "await_contact"

	// Budget setup dialogue.
	StateAwaitBudget State = "await_budget"

	// Schedule setup dialogue.
	StateAwaitTime State = "await_time"

	// Expense entry dialogue.
	StateAwaitItemName State = "await_item_name"
	StateAwaitAmount   State = "await_amount"
)

// Pending field keys collected while a dialogue is in flight.
const (
	PendingName = "display_name"
	PendingItem = "item_label"
)

// Session stores the current dialogue step and partially collected answers.
type Session struct {
	State   State
	Pending map[string]string
}

// NewSession returns a session positioned at the given entry state.
func NewSession(st State) *Session {
	return &Session{State: st, Pending: make(map[string]string)}
}
