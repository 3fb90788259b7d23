package playback

// State is a stage of a playback session.
type State int

const (
	// StateIdle is a session that has not rendered anything.
	StateIdle State = iota
	// StateRunning is a session rendering frames.
	StateRunning
	// StateCompleted is a session that rendered every frame.
	StateCompleted
	// StateInterrupted is a session stopped by a keystroke or cancellation.
	StateInterrupted
	// StateCleanup is a session clearing its frame area.
	StateCleanup
	// StateDone is a finished session.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateInterrupted:
		return "interrupted"
	case StateCleanup:
		return "cleanup"
	case StateDone:
		return "done"
	}

	return "unknown"
}

// Result describes how a session ended.
type Result struct {
	// State is [StateCompleted] or [StateInterrupted] for a session that ran,
	// or [StateIdle] when the sink was not a terminal.
	State State
	// Rendered is the number of frames written.
	Rendered int
}
