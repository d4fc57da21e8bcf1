package control

// Kind identifies a decoded control command.
type Kind int

const (
	// Toggle starts a recording when idle and stops and transcribes when
	// recording.
	Toggle Kind = iota
	// Cancel discards an in-flight recording without transcription.
	Cancel
	// Shutdown requests daemon termination.
	Shutdown
)

func (k Kind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case Cancel:
		return "cancel"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Command is a decoded external control event. Source records where it came
// from (signal, socket, watchdog) for logging.
type Command struct {
	Kind   Kind
	Source string
}
