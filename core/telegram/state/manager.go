package state

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Manager orchestrates per-user sessions and FSM state transitions.
// Sessions are keyed by Telegram user id; there is no cross-user interaction.
type Manager[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]*Session[T]
	handlers map[State]tele.HandlerFunc
}

// NewManager constructs an in-memory session manager.
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		sessions: make(map[int64]*Session[T]),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// Get returns a copy of the user's session. Unknown users get an idle
// session with a zero form; the lookup never fails.
func (m *Manager[T]) Get(userID int64) Session[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return *sess
	}
	return Session[T]{State: StateIdle}
}

// SetState sets the FSM state for the given user, keeping the form payload.
func (m *Manager[T]) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).State = st
}

// State returns the current FSM state of a user, or StateIdle if none exists.
func (m *Manager[T]) State(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// Update mutates the user's session under the write lock. The session is
// created on first use. Last write wins per user.
func (m *Manager[T]) Update(userID int64, fn func(*Session[T])) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.session(userID))
}

// Clear removes the entire session for a user, discarding any partial form.
func (m *Manager[T]) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user currently has an active FSM state.
func (m *Manager[T]) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}

// session returns the live session, creating it if needed. Callers must hold
// the write lock.
func (m *Manager[T]) session(userID int64) *Session[T] {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session[T]{State: StateIdle}
		m.sessions[userID] = sess
	}
	return sess
}

// Handle associates a state with its free-text handler. States that expect
// button input register nothing; their text falls through to the router.
func (m *Manager[T]) Handle(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.handlers[st] = h
}

// HandlerFor returns the handler registered for the user's current state.
func (m *Manager[T]) HandlerFor(userID int64) (tele.HandlerFunc, bool) {
	st := m.State(userID)
	h, ok := m.handlers[st]
	return h, ok
}
