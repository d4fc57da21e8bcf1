package recording

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyRecording reports a Start while a capture is in flight.
	ErrAlreadyRecording = errors.New("recording already in progress")
	// ErrNotRecording reports a Stop or Cancel without an active capture.
	ErrNotRecording = errors.New("no recording in progress")
)

// Recorder is the audio capture port consumed by the daemon controller.
//
// Start and Cancel must return promptly (they spawn or signal the capture
// process); Stop may block while the capture finalizes and is called off the
// controller dispatch loop. At most one capture exists at a time.
type Recorder interface {
	// Start begins capturing from the configured source.
	Start(ctx context.Context) error
	// Stop finalizes the capture and returns the completed clip.
	Stop(ctx context.Context) (*Clip, error)
	// Cancel aborts the capture and discards any buffered audio.
	Cancel(ctx context.Context) error
	// Recording reports whether a capture is in flight.
	Recording() bool
	// Elapsed returns how long the current capture has been running, or
	// zero when idle.
	Elapsed() time.Duration
}
