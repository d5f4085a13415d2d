package session

import "sync"

// Manager orchestrates user sessions and FSM state transitions. All methods
// are safe for concurrent use; Guard additionally provides the per-user
// mutual exclusion that serializes dialogue steps against scheduled report
// fires for the same user.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewManager constructs an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Begin enters a dialogue at the given state, overwriting any active
// session for the user. Dialogues do not stack.
func (m *Manager) Begin(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = NewSession(st)
}

// State returns the current FSM state of a user, or StateIdle if none exists.
func (m *Manager) State(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// Advance moves an active session to the next state. It is a no-op when the
// user has no session.
func (m *Manager) Advance(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.State = st
	}
}

// SetPending stores a partially collected answer for the active session.
func (m *Manager) SetPending(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.Pending[key] = value
	}
}

// Pending retrieves a partially collected answer for the active session.
func (m *Manager) Pending(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return "", false
	}
	v, ok := sess.Pending[key]
	return v, ok
}

// Clear destroys the session for a user. Reaching a dialogue END calls this
// synchronously; the next trigger must be a fresh entry point.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user currently has an active dialogue.
func (m *Manager) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}

// Guard acquires the per-user lock and returns its release function.
// Dialogue steps, profile writes, and job replacement for one user run
// under this lock; rendering and delivery happen after release.
func (m *Manager) Guard(userID int64) func() {
	m.locksMu.Lock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	m.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
