package daemon

import (
	"sync"
	"time"
)

// Watchdog bounds the length of a recording. Arm schedules a one-shot timer
// tagged with the recording generation; when it fires, the tag lets the
// controller discard deadlines that outlived their recording.
type Watchdog struct {
	mu    sync.Mutex
	timer *time.Timer
	fire  func(generation uint64)
}

// NewWatchdog builds a watchdog that invokes fire from the timer goroutine.
// fire must not block.
func NewWatchdog(fire func(generation uint64)) *Watchdog {
	return &Watchdog{fire: fire}
}

// Arm schedules the deadline for the given generation, replacing any timer
// still pending.
func (w *Watchdog) Arm(generation uint64, d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(d, func() {
		w.fire(generation)
	})
}

// Disarm stops the pending timer if one exists. A timer that already fired
// is harmless; its generation tag no longer matches.
func (w *Watchdog) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
