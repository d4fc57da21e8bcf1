package control

import (
	"log/slog"
	"sync"

	"scribe/internal/logging"
)

// Queue is the bounded single-consumer dispatch queue between the control
// surfaces and the daemon controller. Producers never block: when the queue
// is full the command is dropped with a warning, which keeps signal-decode
// and socket goroutines responsive under a command flood.
type Queue struct {
	logger *slog.Logger

	mu     sync.Mutex
	ch     chan Command
	closed bool
}

// NewQueue builds a queue with the given capacity.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{
		logger: logging.NewComponentLogger(logger, "control"),
		ch:     make(chan Command, size),
	}
}

// Push enqueues a command without blocking. It reports whether the command
// was accepted.
func (q *Queue) Push(cmd Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- cmd:
		q.logger.Debug("command queued",
			logging.String("command", cmd.Kind.String()),
			logging.String("source", cmd.Source))
		return true
	default:
		q.logger.Warn("command queue full, dropping command",
			logging.String("command", cmd.Kind.String()),
			logging.String("source", cmd.Source),
			logging.String(logging.FieldImpact, "the dropped command has no effect"))
		return false
	}
}

// Commands exposes the consumer side. Exactly one goroutine should receive
// from it.
func (q *Queue) Commands() <-chan Command {
	return q.ch
}

// Close stops the queue; subsequent pushes are rejected and the consumer
// channel drains then closes.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
