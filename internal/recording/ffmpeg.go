package recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"scribe/internal/logging"
)

// finalizeTimeout bounds how long Stop waits for ffmpeg to flush the
// container after the quit command before the process is killed.
const finalizeTimeout = 5 * time.Second

// FFmpegOptions configures the capture adapter.
type FFmpegOptions struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
	// CaptureFormat is the ffmpeg input format, e.g. "pulse" or "alsa".
	CaptureFormat string
	// CaptureDevice is the input device name, e.g. "default".
	CaptureDevice string
	// WorkDir receives temporary capture files; empty means os.TempDir.
	WorkDir string
}

// FFmpegRecorder captures microphone audio by running ffmpeg against the
// configured source. Output is mono 16kHz PCM WAV, the format the
// transcription backend accepts without conversion.
type FFmpegRecorder struct {
	opts   FFmpegOptions
	logger *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	path    string
	clipID  string
	started time.Time
	done    chan error
}

// NewFFmpegRecorder builds a recorder from options, applying defaults for
// any empty field.
func NewFFmpegRecorder(opts FFmpegOptions, logger *slog.Logger) *FFmpegRecorder {
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.CaptureFormat == "" {
		opts.CaptureFormat = "pulse"
	}
	if opts.CaptureDevice == "" {
		opts.CaptureDevice = "default"
	}
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}
	return &FFmpegRecorder{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "recorder"),
	}
}

// Start spawns the capture process.
func (r *FFmpegRecorder) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	clipID := uuid.NewString()
	path := filepath.Join(r.opts.WorkDir, fmt.Sprintf("scribe-%s.wav", clipID))
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", r.opts.CaptureFormat,
		"-i", r.opts.CaptureDevice,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		path,
	}

	cmd := exec.Command(r.opts.Binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg capture: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	r.cmd = cmd
	r.stdin = stdin
	r.path = path
	r.clipID = clipID
	r.started = time.Now()
	r.done = done
	r.logger.Debug("capture started",
		logging.String(logging.FieldClipID, clipID),
		logging.String("path", path))
	return nil
}

// Stop finalizes the capture and returns the clip. The temporary capture
// file is removed regardless of outcome.
func (r *FFmpegRecorder) Stop(ctx context.Context) (*Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return nil, ErrNotRecording
	}

	clipID := r.clipID
	path := r.path
	elapsed := time.Since(r.started)

	// Ask ffmpeg to finish writing the container, falling back to SIGINT
	// when stdin is gone.
	if _, err := io.WriteString(r.stdin, "q"); err != nil {
		_ = r.cmd.Process.Signal(os.Interrupt)
	}
	_ = r.stdin.Close()

	waitErr := r.waitLocked(ctx)
	r.resetLocked()
	defer os.Remove(path)

	if waitErr != nil && !isExpectedExit(waitErr) {
		return nil, fmt.Errorf("finalize ffmpeg capture: %w", waitErr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("capture file %s is empty", path)
	}

	clip := &Clip{ID: clipID, Data: data, MIMEType: "audio/wav", Duration: elapsed}
	r.logger.Debug("capture finalized",
		logging.String(logging.FieldClipID, clipID),
		logging.String("size", clip.HumanSize()),
		logging.Duration("duration", elapsed))
	return clip, nil
}

// Cancel kills the capture process and discards the partial file.
func (r *FFmpegRecorder) Cancel(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return ErrNotRecording
	}

	clipID := r.clipID
	path := r.path
	_ = r.stdin.Close()
	_ = r.cmd.Process.Kill()
	_ = r.waitLocked(ctx)
	r.resetLocked()
	_ = os.Remove(path)

	r.logger.Debug("capture cancelled", logging.String(logging.FieldClipID, clipID))
	return nil
}

// Recording reports whether a capture is in flight.
func (r *FFmpegRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Elapsed returns the age of the current capture.
func (r *FFmpegRecorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return 0
	}
	return time.Since(r.started)
}

func (r *FFmpegRecorder) waitLocked(ctx context.Context) error {
	select {
	case err := <-r.done:
		return err
	case <-time.After(finalizeTimeout):
	case <-ctx.Done():
	}
	_ = r.cmd.Process.Kill()
	return <-r.done
}

func (r *FFmpegRecorder) resetLocked() {
	r.cmd = nil
	r.stdin = nil
	r.path = ""
	r.clipID = ""
	r.done = nil
}

// isExpectedExit filters the exit statuses ffmpeg reports for a signalled or
// quit-command shutdown; those still produce a valid capture file.
func isExpectedExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 255 is ffmpeg's exit code for the interactive quit command.
	code := exitErr.ExitCode()
	return code == 255 || code == -1 || code == 0
}
