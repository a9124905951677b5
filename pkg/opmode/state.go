package opmode

// State represents the lifecycle state of an op mode session.
type State int

const (
	StateCreated State = iota
	StateInitializing
	StateInitPolling
	StateRunning
	StateStopped
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateInitializing:
		return "Initializing"
	case StateInitPolling:
		return "InitPolling"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when the session state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// allowed lists the states reachable from each state.
var allowed = map[State][]State{
	StateCreated:      {StateInitializing},
	StateInitializing: {StateInitPolling, StateRunning, StateStopped},
	StateInitPolling:  {StateInitPolling, StateRunning, StateStopped},
	StateRunning:      {StateRunning, StateStopped},
}

// CanTransition reports whether a session may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}
