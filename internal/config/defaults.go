package config

const (
	defaultStateDir           = "~/.local/state/scribe"
	defaultLogDir             = "~/.local/share/scribe/logs"
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
	defaultMaxDurationSeconds = 60
	defaultCommandQueueSize   = 16
	defaultModel              = "gemini-2.0-flash-lite"
	defaultBaseURL            = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultTranscribeTimeout  = 60
	defaultDomain             = "general"
	defaultFFmpegBinary       = "ffmpeg"
	defaultCaptureFormat      = "pulse"
	defaultCaptureDevice      = "default"
	defaultKeystrokeTool      = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Daemon: Daemon{
			MaxDurationSeconds: defaultMaxDurationSeconds,
			CommandQueueSize:   defaultCommandQueueSize,
		},
		Transcription: Transcription{
			Model:          defaultModel,
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTranscribeTimeout,
			Domain:         defaultDomain,
		},
		Recording: Recording{
			FFmpegBinary:  defaultFFmpegBinary,
			CaptureFormat: defaultCaptureFormat,
			CaptureDevice: defaultCaptureDevice,
		},
		Output: Output{
			KeystrokeTool: defaultKeystrokeTool,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
