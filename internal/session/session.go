package session

import "fmt"

// State identifies the daemon session phase.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
)

// String returns the lowercase state name used on the control socket.
func (s State) String() string {
	return string(s)
}

// InvalidTransitionError reports a command that is illegal in the current
// state. The session is left unchanged when it is returned.
type InvalidTransitionError struct {
	From   State
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.From)
}

// Session is the recording lifecycle state machine.
//
// Legal transitions:
//
//	idle -> recording       (StartRecording)
//	recording -> processing (StopRecording)
//	recording -> idle       (CancelRecording)
//	processing -> idle      (CompleteProcessing)
//
// Every other transition is rejected with InvalidTransitionError. Session is
// not safe for concurrent use; it is owned by the controller dispatch loop.
type Session struct {
	state      State
	generation uint64
}

// New returns a session in the idle state with generation zero.
func New() *Session {
	return &Session{state: StateIdle}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Generation returns the tag of the most recently started recording. It
// increments on every StartRecording and is used to discard stale async
// completions from a superseded or cancelled recording.
func (s *Session) Generation() uint64 {
	return s.generation
}

func (s *Session) IsIdle() bool       { return s.state == StateIdle }
func (s *Session) IsRecording() bool  { return s.state == StateRecording }
func (s *Session) IsProcessing() bool { return s.state == StateProcessing }

// StartRecording transitions idle -> recording and bumps the generation.
func (s *Session) StartRecording() error {
	if s.state != StateIdle {
		return &InvalidTransitionError{From: s.state, Action: "start recording"}
	}
	s.state = StateRecording
	s.generation++
	return nil
}

// StopRecording transitions recording -> processing.
func (s *Session) StopRecording() error {
	if s.state != StateRecording {
		return &InvalidTransitionError{From: s.state, Action: "stop recording"}
	}
	s.state = StateProcessing
	return nil
}

// CancelRecording transitions recording -> idle, discarding the recording.
func (s *Session) CancelRecording() error {
	if s.state != StateRecording {
		return &InvalidTransitionError{From: s.state, Action: "cancel recording"}
	}
	s.state = StateIdle
	return nil
}

// CompleteProcessing transitions processing -> idle.
func (s *Session) CompleteProcessing() error {
	if s.state != StateProcessing {
		return &InvalidTransitionError{From: s.state, Action: "complete processing"}
	}
	s.state = StateIdle
	return nil
}
