package session

// State names a point in the retrieval session lifecycle.
type State string

const (
	StateIdle                       State = "idle"
	StateNavigating                 State = "navigating"
	StateAwaitingInteractiveElement State = "awaiting_interactive_element"
	StateSubmitting                 State = "submitting"
	StateAwaitingResults            State = "awaiting_results"
	StateDone                       State = "done"
	StateFailed                     State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Terminal reports whether the session has finished, successfully or not.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
