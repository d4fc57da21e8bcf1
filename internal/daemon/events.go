package daemon

import (
	"time"

	"scribe/internal/session"
)

// EventKind identifies a lifecycle event published by the controller.
type EventKind string

const (
	EventRecordingStarted    EventKind = "recording_started"
	EventCaptureFailed       EventKind = "capture_failed"
	EventRecordingStopped    EventKind = "recording_stopped"
	EventRecordingCancelled  EventKind = "recording_cancelled"
	EventDeadlineReached     EventKind = "deadline_reached"
	EventTranscriptReady     EventKind = "transcript_ready"
	EventTranscriptionFailed EventKind = "transcription_failed"
	EventShutdown            EventKind = "shutdown"
)

// Event describes a controller state change for observers. Transcript text
// rides along on EventTranscriptReady only.
type Event struct {
	Kind       EventKind     `json:"kind"`
	State      session.State `json:"state"`
	Generation uint64        `json:"generation"`
	Transcript string        `json:"transcript,omitempty"`
	Error      string        `json:"error,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`
	At         time.Time     `json:"at"`
}

// EventSink receives controller events. Publish must not block; slow
// consumers drop events rather than stall the dispatch loop.
type EventSink interface {
	Publish(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Publish(evt Event) { f(evt) }

type multiSink []EventSink

func (m multiSink) Publish(evt Event) {
	for _, sink := range m {
		if sink != nil {
			sink.Publish(evt)
		}
	}
}

// CombineSinks fans one event stream out to several sinks. Nil sinks are
// tolerated so callers can wire optional observers unconditionally.
func CombineSinks(sinks ...EventSink) EventSink {
	filtered := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
