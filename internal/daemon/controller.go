package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"scribe/internal/control"
	"scribe/internal/logging"
	"scribe/internal/output"
	"scribe/internal/recording"
	"scribe/internal/session"
	"scribe/internal/transcribe"
)

// Deps carries the collaborators the controller drives.
type Deps struct {
	Recorder    recording.Recorder
	Transcriber transcribe.Transcriber
	Outputs     []output.Sink
	Events      EventSink
}

// Options tunes controller behavior.
type Options struct {
	// MaxDuration bounds a single recording; the watchdog force-stops at
	// this deadline.
	MaxDuration time.Duration
	// Prompt is the system instruction handed to the transcriber.
	Prompt string
}

// Snapshot is a point-in-time view of the controller for status queries.
// It is safe to read from any goroutine.
type Snapshot struct {
	State              session.State `json:"state"`
	Generation         uint64        `json:"generation"`
	RecordingStartedAt time.Time     `json:"recording_started_at,omitempty"`
	ChangedAt          time.Time     `json:"changed_at"`
}

// Elapsed reports how long the current recording has been running, or zero
// when not recording.
func (s Snapshot) Elapsed() time.Duration {
	if s.State != session.StateRecording || s.RecordingStartedAt.IsZero() {
		return 0
	}
	return time.Since(s.RecordingStartedAt)
}

type transcriptionResult struct {
	generation uint64
	transcript string
	clip       *recording.Clip
	elapsed    time.Duration
	err        error
}

// Controller owns the session state machine and serializes every command
// onto a single dispatch loop. Recorder.Start and Cancel run inline because
// they return promptly; Stop and transcription run on a worker goroutine
// whose outcome is posted back into the loop.
type Controller struct {
	opts   Options
	deps   Deps
	queue  *control.Queue
	logger *slog.Logger

	sess      *session.Session
	watchdog  *Watchdog
	deadlines chan uint64
	results   chan transcriptionResult

	workCtx    context.Context
	workCancel context.CancelFunc
	wg         sync.WaitGroup

	startedAt         time.Time
	shutdownRequested bool
	snapshot          atomic.Value
}

// NewController wires a controller around queue. Events may be nil.
func NewController(queue *control.Queue, deps Deps, opts Options, logger *slog.Logger) (*Controller, error) {
	if queue == nil {
		return nil, fmt.Errorf("controller requires a command queue")
	}
	if deps.Recorder == nil || deps.Transcriber == nil {
		return nil, fmt.Errorf("controller requires a recorder and a transcriber")
	}
	if opts.MaxDuration <= 0 {
		return nil, fmt.Errorf("max duration must be positive, got %s", opts.MaxDuration)
	}
	if deps.Events == nil {
		deps.Events = CombineSinks()
	}
	workCtx, workCancel := context.WithCancel(context.Background())
	c := &Controller{
		opts:       opts,
		deps:       deps,
		queue:      queue,
		logger:     logging.NewComponentLogger(logger, "controller"),
		sess:       session.New(),
		deadlines:  make(chan uint64, 1),
		results:    make(chan transcriptionResult, 1),
		workCtx:    workCtx,
		workCancel: workCancel,
	}
	c.watchdog = NewWatchdog(c.postDeadline)
	c.storeSnapshot()
	return c, nil
}

// Status returns the latest published snapshot.
func (c *Controller) Status() Snapshot {
	return c.snapshot.Load().(Snapshot)
}

// Run drains the command queue until a shutdown command arrives or ctx is
// canceled. It returns after in-flight transcription has settled.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("controller ready",
		logging.Duration("max_duration", c.opts.MaxDuration))

	ctxDone := ctx.Done()
	for {
		select {
		case <-ctxDone:
			ctxDone = nil
			if c.requestShutdown(ctx, "context") {
				return c.finish()
			}
		case cmd, ok := <-c.queue.Commands():
			if !ok {
				return c.finish()
			}
			if cmd.Kind == control.Shutdown {
				if c.requestShutdown(ctx, cmd.Source) {
					return c.finish()
				}
				continue
			}
			c.dispatch(ctx, cmd)
		case generation := <-c.deadlines:
			c.onDeadline(generation)
		case res := <-c.results:
			if c.onResult(res) && c.shutdownRequested {
				return c.finish()
			}
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, cmd control.Command) {
	switch cmd.Kind {
	case control.Toggle:
		switch c.sess.State() {
		case session.StateIdle:
			c.startRecording(ctx, cmd.Source)
		case session.StateRecording:
			c.stopAndTranscribe("toggle")
		case session.StateProcessing:
			c.logger.Warn("toggle ignored, transcription in flight",
				logging.String("source", cmd.Source),
				logging.String(logging.FieldState, string(session.StateProcessing)))
		}
	case control.Cancel:
		if c.sess.IsRecording() {
			c.cancelRecording(cmd.Source)
			return
		}
		c.logger.Warn("cancel ignored, nothing to cancel",
			logging.String("source", cmd.Source),
			logging.String(logging.FieldState, string(c.sess.State())))
	default:
		c.logger.Warn("unknown command dropped", logging.String("source", cmd.Source))
	}
}

func (c *Controller) startRecording(ctx context.Context, source string) {
	if err := c.sess.StartRecording(); err != nil {
		c.logger.Warn("start recording rejected", logging.Error(err))
		return
	}
	generation := c.sess.Generation()
	if err := c.deps.Recorder.Start(ctx); err != nil {
		_ = c.sess.CancelRecording()
		c.storeSnapshot()
		c.logger.Error("audio capture failed to start",
			logging.Error(err),
			logging.Uint64(logging.FieldGeneration, generation),
			logging.String(logging.FieldErrorHint, "check the capture device and ffmpeg installation"))
		c.publish(Event{Kind: EventCaptureFailed, Error: err.Error()})
		return
	}
	c.startedAt = time.Now()
	c.watchdog.Arm(generation, c.opts.MaxDuration)
	c.storeSnapshot()
	c.logger.Info("recording started",
		logging.Uint64(logging.FieldGeneration, generation),
		logging.String("source", source))
	c.publish(Event{Kind: EventRecordingStarted})
}

func (c *Controller) stopAndTranscribe(trigger string) {
	if err := c.sess.StopRecording(); err != nil {
		c.logger.Warn("stop recording rejected", logging.Error(err))
		return
	}
	generation := c.sess.Generation()
	elapsed := time.Since(c.startedAt)
	c.watchdog.Disarm()
	c.storeSnapshot()
	c.logger.Info("recording stopped",
		logging.Uint64(logging.FieldGeneration, generation),
		logging.Duration("elapsed", elapsed),
		logging.String("trigger", trigger))
	c.publish(Event{Kind: EventRecordingStopped, Elapsed: elapsed})

	c.wg.Add(1)
	go c.transcribeWorker(generation, elapsed)
}

func (c *Controller) cancelRecording(source string) {
	c.watchdog.Disarm()
	if err := c.deps.Recorder.Cancel(c.workCtx); err != nil {
		c.logger.Warn("recorder cancel reported error", logging.Error(err))
	}
	generation := c.sess.Generation()
	if err := c.sess.CancelRecording(); err != nil {
		c.logger.Warn("cancel recording rejected", logging.Error(err))
		return
	}
	c.storeSnapshot()
	c.logger.Info("recording cancelled",
		logging.Uint64(logging.FieldGeneration, generation),
		logging.String("source", source))
	c.publish(Event{Kind: EventRecordingCancelled, Generation: generation})
}

// transcribeWorker finalizes the capture, runs transcription, and delivers
// the transcript. It never touches the session; the outcome goes back to the
// dispatch loop through results.
func (c *Controller) transcribeWorker(generation uint64, elapsed time.Duration) {
	defer c.wg.Done()

	clip, err := c.deps.Recorder.Stop(c.workCtx)
	if err != nil {
		c.results <- transcriptionResult{generation: generation, elapsed: elapsed, err: fmt.Errorf("finalize capture: %w", err)}
		return
	}
	c.logger.Debug("clip captured",
		logging.Uint64(logging.FieldGeneration, generation),
		logging.String(logging.FieldClipID, clip.ID),
		logging.String("size", clip.HumanSize()))

	text, err := c.deps.Transcriber.Transcribe(c.workCtx, clip, c.opts.Prompt)
	if err != nil {
		c.results <- transcriptionResult{generation: generation, clip: clip, elapsed: elapsed, err: fmt.Errorf("transcribe clip %s: %w", clip.ID, err)}
		return
	}

	c.deliver(text)
	c.results <- transcriptionResult{generation: generation, transcript: text, clip: clip, elapsed: elapsed}
}

func (c *Controller) deliver(text string) {
	for _, sink := range c.deps.Outputs {
		if sink == nil {
			continue
		}
		if err := sink.Deliver(c.workCtx, text); err != nil {
			c.logger.Warn("transcript delivery failed",
				logging.String("sink", sink.Name()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "transcript may not reach this output"))
		}
	}
}

// onResult applies a worker outcome. The generation guard drops results that
// no longer match the session, which cannot happen on the stop path but
// keeps the loop safe against reordered deliveries.
func (c *Controller) onResult(res transcriptionResult) bool {
	if !c.sess.IsProcessing() || res.generation != c.sess.Generation() {
		c.logger.Debug("stale transcription result dropped",
			logging.Uint64(logging.FieldGeneration, res.generation))
		return false
	}
	if err := c.sess.CompleteProcessing(); err != nil {
		c.logger.Warn("complete processing rejected", logging.Error(err))
	}
	c.storeSnapshot()
	if res.err != nil {
		c.logger.Error("transcription failed",
			logging.Error(res.err),
			logging.Uint64(logging.FieldGeneration, res.generation),
			logging.String(logging.FieldErrorHint, "check the API key and network connectivity"))
		c.publish(Event{Kind: EventTranscriptionFailed, Generation: res.generation, Error: res.err.Error(), Elapsed: res.elapsed})
	} else {
		c.logger.Info("transcript ready",
			logging.Uint64(logging.FieldGeneration, res.generation),
			logging.Int("chars", len(res.transcript)),
			logging.Duration("recording_elapsed", res.elapsed))
		c.publish(Event{Kind: EventTranscriptReady, Generation: res.generation, Transcript: res.transcript, Elapsed: res.elapsed})
	}
	return true
}

func (c *Controller) onDeadline(generation uint64) {
	if !c.sess.IsRecording() || generation != c.sess.Generation() {
		c.logger.Debug("stale watchdog deadline ignored",
			logging.Uint64(logging.FieldGeneration, generation))
		return
	}
	c.logger.Warn("recording hit the maximum duration",
		logging.Uint64(logging.FieldGeneration, generation),
		logging.Duration("max_duration", c.opts.MaxDuration))
	c.publish(Event{Kind: EventDeadlineReached})
	c.stopAndTranscribe("deadline")
}

// requestShutdown reports whether the loop may exit now. A recording is
// discarded; an in-flight transcription is allowed to settle first.
func (c *Controller) requestShutdown(ctx context.Context, source string) bool {
	switch c.sess.State() {
	case session.StateRecording:
		c.logger.Info("shutdown requested, discarding active recording",
			logging.String("source", source))
		c.cancelRecording(source)
		return true
	case session.StateProcessing:
		if !c.shutdownRequested {
			c.shutdownRequested = true
			c.logger.Info("shutdown requested, waiting for transcription to finish",
				logging.String("source", source))
		}
		return false
	default:
		c.logger.Info("shutdown requested", logging.String("source", source))
		return true
	}
}

func (c *Controller) finish() error {
	c.watchdog.Disarm()
	c.wg.Wait()
	c.workCancel()
	c.publish(Event{Kind: EventShutdown})
	c.logger.Info("controller stopped")
	return nil
}

// postDeadline runs on the watchdog timer goroutine. The buffered channel
// plus non-blocking send keeps the timer from ever stalling; at most one
// deadline can be pending and newer arms disarm older timers first.
func (c *Controller) postDeadline(generation uint64) {
	select {
	case c.deadlines <- generation:
	default:
	}
}

func (c *Controller) publish(evt Event) {
	evt.State = c.sess.State()
	if evt.Generation == 0 {
		evt.Generation = c.sess.Generation()
	}
	evt.At = time.Now()
	c.deps.Events.Publish(evt)
}

func (c *Controller) storeSnapshot() {
	snap := Snapshot{
		State:      c.sess.State(),
		Generation: c.sess.Generation(),
		ChangedAt:  time.Now(),
	}
	if snap.State == session.StateRecording {
		snap.RecordingStartedAt = c.startedAt
	}
	c.snapshot.Store(snap)
}
