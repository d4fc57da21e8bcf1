package control

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"scribe/internal/logging"
)

// Signal mapping of the control surface: SIGUSR1 toggles, SIGUSR2 cancels,
// SIGINT/SIGTERM shut the daemon down.
var signalCommands = map[os.Signal]Kind{
	unix.SIGUSR1: Toggle,
	unix.SIGUSR2: Cancel,
	unix.SIGINT:  Shutdown,
	unix.SIGTERM: Shutdown,
}

// SignalChannel decodes POSIX signals into control commands and enqueues
// them. The decode loop only pushes onto the bounded queue; no blocking work
// happens on the signal path.
type SignalChannel struct {
	queue  *Queue
	logger *slog.Logger

	sigs chan os.Signal
	once sync.Once
	done chan struct{}
}

// NewSignalChannel builds the signal-based control surface feeding queue.
func NewSignalChannel(queue *Queue, logger *slog.Logger) *SignalChannel {
	return &SignalChannel{
		queue:  queue,
		logger: logging.NewComponentLogger(logger, "signals"),
		sigs:   make(chan os.Signal, 8),
		done:   make(chan struct{}),
	}
}

// Start registers the handlers and launches the decode loop.
func (s *SignalChannel) Start(ctx context.Context) {
	signal.Notify(s.sigs, unix.SIGUSR1, unix.SIGUSR2, unix.SIGINT, unix.SIGTERM)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case sig := <-s.sigs:
				kind, ok := signalCommands[sig]
				if !ok {
					continue
				}
				s.logger.Debug("signal received",
					logging.String("signal", sig.String()),
					logging.String("command", kind.String()))
				s.queue.Push(Command{Kind: kind, Source: "signal:" + sig.String()})
			}
		}
	}()
	s.logger.Info("signal control surface ready",
		logging.String("toggle", unix.SignalName(unix.SIGUSR1)),
		logging.String("cancel", unix.SignalName(unix.SIGUSR2)))
}

// Close unregisters the handlers and stops the decode loop.
func (s *SignalChannel) Close() {
	s.once.Do(func() {
		signal.Stop(s.sigs)
		close(s.done)
	})
}

// DecodeSignal maps an OS signal to its control command. The second return
// reports whether the signal is part of the control surface.
func DecodeSignal(sig os.Signal) (Kind, bool) {
	kind, ok := signalCommands[sig]
	return kind, ok
}
