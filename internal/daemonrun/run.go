package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"scribe/internal/api"
	"scribe/internal/config"
	"scribe/internal/control"
	"scribe/internal/daemon"
	"scribe/internal/deps"
	"scribe/internal/instance"
	"scribe/internal/ipc"
	"scribe/internal/logging"
	"scribe/internal/output"
	"scribe/internal/recording"
	"scribe/internal/transcribe"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run wires the daemon together and blocks until shutdown. SIGINT and
// SIGTERM arrive through the command queue like every other control input,
// so an in-flight transcription still settles before exit.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", cfg.LogFilePath()},
		ErrorOutputPaths: []string{"stderr", cfg.LogFilePath()},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	guard := instance.NewGuard(cfg.PIDFilePath(), logger)
	if err := guard.Acquire(); err != nil {
		var conflict *instance.LockConflictError
		if errors.As(err, &conflict) {
			return conflict
		}
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	defer guard.Release()

	logDependencySnapshot(logger, cfg)

	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return fmt.Errorf("no API key configured, set transcription.api_key or GEMINI_API_KEY")
	}
	transcriber := transcribe.NewGeminiClient(transcribe.GeminiOptions{
		APIKey:  apiKey,
		Model:   cfg.Transcription.Model,
		BaseURL: cfg.Transcription.BaseURL,
		Timeout: time.Duration(cfg.Transcription.TimeoutSeconds) * time.Second,
	}, logger)

	domain, err := transcribe.ParseDomain(cfg.Transcription.Domain)
	if err != nil {
		return err
	}

	recorder := recording.NewFFmpegRecorder(recording.FFmpegOptions{
		Binary:        cfg.Recording.FFmpegBinary,
		CaptureFormat: cfg.Recording.CaptureFormat,
		CaptureDevice: cfg.Recording.CaptureDevice,
		WorkDir:       cfg.Paths.StateDir,
	}, logger)

	queue := control.NewQueue(cfg.Daemon.CommandQueueSize, logger)
	signals := control.NewSignalChannel(queue, logger)
	signals.Start(ctx)
	defer signals.Close()

	sinks := buildSinks(cfg, logger)
	notifier := buildNotifier(cfg, logger)
	cues := buildCuePlayer(cfg, logger)

	eventSinks := []daemon.EventSink{notifierSink(notifier, logger), cueSink(cues, logger)}
	var hub *api.Hub
	if cfg.Paths.APIBind != "" {
		hub = api.NewHub()
		eventSinks = append(eventSinks, daemon.EventSinkFunc(func(evt daemon.Event) {
			hub.BroadcastJSON(evt)
		}))
	}

	controller, err := daemon.NewController(queue, daemon.Deps{
		Recorder:    recorder,
		Transcriber: transcriber,
		Outputs:     sinks,
		Events:      daemon.CombineSinks(eventSinks...),
	}, daemon.Options{
		MaxDuration: time.Duration(cfg.Daemon.MaxDurationSeconds) * time.Second,
		Prompt:      transcribe.BuildPrompt(domain),
	}, logger)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), queue, func() string {
		return string(controller.Status().State)
	}, logger)
	if err != nil {
		return fmt.Errorf("start control socket: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if hub != nil {
		apiServer, err := api.NewServer(cfg.Paths.APIBind, controller.Status, hub, logger)
		if err != nil {
			return fmt.Errorf("create api server: %w", err)
		}
		if err := apiServer.Start(ctx); err != nil {
			return fmt.Errorf("start api server: %w", err)
		}
		defer apiServer.Close()
	}

	logger.Info("scribe daemon ready",
		logging.String("socket", cfg.SocketPath()),
		logging.String("domain", string(domain)),
		logging.String("model", cfg.Transcription.Model))

	return controller.Run(ctx)
}

func buildSinks(cfg *config.Config, logger *slog.Logger) []output.Sink {
	var sinks []output.Sink
	if cfg.Output.Clipboard {
		clipboard, err := output.NewClipboardSink()
		if err != nil {
			logger.Warn("clipboard delivery disabled",
				logging.Error(err),
				logging.String(logging.FieldImpact, "transcripts will not reach the clipboard"))
		} else {
			sinks = append(sinks, clipboard)
			logger.Info("clipboard delivery enabled", logging.String("sink", clipboard.Name()))
		}
	}
	if cfg.Output.Keystroke {
		keystroke, err := output.NewKeystrokeSink(cfg.Output.KeystrokeTool)
		if err != nil {
			logger.Warn("keystroke delivery disabled",
				logging.Error(err),
				logging.String(logging.FieldImpact, "transcripts will not be typed into the focused window"))
		} else {
			sinks = append(sinks, keystroke)
			logger.Info("keystroke delivery enabled", logging.String("tool", keystroke.Tool()))
		}
	}
	return sinks
}

func buildNotifier(cfg *config.Config, logger *slog.Logger) output.Notifier {
	if !cfg.Output.Notify {
		return output.NoopNotifier{}
	}
	notifier, err := output.NewDesktopNotifier()
	if err != nil {
		logger.Warn("desktop notifications disabled", logging.Error(err))
		return output.NoopNotifier{}
	}
	return notifier
}

func buildCuePlayer(cfg *config.Config, logger *slog.Logger) output.CuePlayer {
	if !cfg.Output.SoundCues {
		return output.NoopCuePlayer{}
	}
	player, err := output.NewSoundCuePlayer()
	if err != nil {
		logger.Warn("sound cues disabled", logging.Error(err))
		return output.NoopCuePlayer{}
	}
	logger.Info("sound cues enabled", logging.String("tool", player.Tool()))
	return player
}

// cueSink plays audible feedback around recording transitions. Playback runs
// on a fresh goroutine so a stalled sound server cannot delay dispatch.
func cueSink(player output.CuePlayer, logger *slog.Logger) daemon.EventSink {
	return daemon.EventSinkFunc(func(evt daemon.Event) {
		cue, ok := cueFor(evt.Kind)
		if !ok {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := player.Play(ctx, cue); err != nil {
				logger.Debug("cue playback failed", logging.Error(err))
			}
		}()
	})
}

func cueFor(kind daemon.EventKind) (output.Cue, bool) {
	switch kind {
	case daemon.EventRecordingStarted:
		return output.CueRecordingStart, true
	case daemon.EventRecordingStopped:
		return output.CueRecordingStop, true
	case daemon.EventRecordingCancelled:
		return output.CueRecordingCancel, true
	default:
		return "", false
	}
}

// notifierSink maps controller events onto desktop notifications. Delivery
// happens on a fresh goroutine because notify-send can stall on a busy
// session bus.
func notifierSink(notifier output.Notifier, logger *slog.Logger) daemon.EventSink {
	return daemon.EventSinkFunc(func(evt daemon.Event) {
		title, body, icon := notificationFor(evt)
		if title == "" {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := notifier.Notify(ctx, title, body, icon); err != nil {
				logger.Debug("notification failed", logging.Error(err))
			}
		}()
	})
}

func notificationFor(evt daemon.Event) (title, body, icon string) {
	switch evt.Kind {
	case daemon.EventRecordingStarted:
		return "Recording", "Listening. Toggle again to transcribe.", "audio-input-microphone"
	case daemon.EventRecordingCancelled:
		return "Recording cancelled", "The clip was discarded.", "dialog-information"
	case daemon.EventDeadlineReached:
		return "Recording stopped", "Maximum duration reached.", "dialog-information"
	case daemon.EventTranscriptReady:
		return "Transcript ready", truncate(evt.Transcript, 120), "dialog-information"
	case daemon.EventTranscriptionFailed:
		return "Transcription failed", evt.Error, "dialog-error"
	case daemon.EventCaptureFailed:
		return "Recording failed", evt.Error, "dialog-error"
	default:
		return "", "", ""
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so a multi-byte character is never split.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	statuses := deps.Check(cfg.Recording.FFmpegBinary)
	attrs := make([]any, 0, len(statuses))
	for _, status := range statuses {
		attrs = append(attrs, logging.Bool(strings.ToLower(status.Name)+"_available", status.Available))
		if !status.Available && status.Required {
			logger.Warn("required tool missing",
				logging.String("tool", status.Name),
				logging.String("detail", status.Detail),
				logging.String(logging.FieldErrorHint, "install "+status.Command+" before recording"))
		}
	}
	logger.Info("dependency snapshot", attrs...)
}
