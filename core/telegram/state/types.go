package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores the conversation state and the typed form payload for a user.
// The zero value is a valid idle session.
type Session[T any] struct {
	State State
	Form  T
}
