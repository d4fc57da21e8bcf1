package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
}

// Daemon contains control-loop configuration.
type Daemon struct {
	MaxDurationSeconds int `toml:"max_duration_seconds"`
	CommandQueueSize   int `toml:"command_queue_size"`
}

// Transcription contains Gemini transcription backend configuration.
type Transcription struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Domain         string `toml:"domain"`
}

// Recording contains audio capture configuration.
type Recording struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	CaptureFormat string `toml:"capture_format"`
	CaptureDevice string `toml:"capture_device"`
}

// Output contains best-effort text delivery configuration.
type Output struct {
	Clipboard     bool   `toml:"clipboard"`
	Keystroke     bool   `toml:"keystroke"`
	KeystrokeTool string `toml:"keystroke_tool"`
	Notify        bool   `toml:"notify"`
	SoundCues     bool   `toml:"sound_cues"`
}

// Logging contains log level and format configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root scribe configuration.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Daemon        Daemon        `toml:"daemon"`
	Transcription Transcription `toml:"transcription"`
	Recording     Recording     `toml:"recording"`
	Output        Output        `toml:"output"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults apply. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcription.BaseURL), "/")
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = defaultBaseURL
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscribeTimeout
	}
	c.Transcription.Domain = strings.ToLower(strings.TrimSpace(c.Transcription.Domain))
	if c.Transcription.Domain == "" {
		c.Transcription.Domain = defaultDomain
	}

	if c.Daemon.MaxDurationSeconds <= 0 {
		c.Daemon.MaxDurationSeconds = defaultMaxDurationSeconds
	}
	if c.Daemon.CommandQueueSize <= 0 {
		c.Daemon.CommandQueueSize = defaultCommandQueueSize
	}

	if strings.TrimSpace(c.Recording.FFmpegBinary) == "" {
		c.Recording.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Recording.CaptureFormat) == "" {
		c.Recording.CaptureFormat = defaultCaptureFormat
	}
	if strings.TrimSpace(c.Recording.CaptureDevice) == "" {
		c.Recording.CaptureDevice = defaultCaptureDevice
	}

	c.Output.KeystrokeTool = strings.ToLower(strings.TrimSpace(c.Output.KeystrokeTool))
	if c.Output.KeystrokeTool == "" {
		c.Output.KeystrokeTool = defaultKeystrokeTool
	}

	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

// EnsureDirectories creates the directories the daemon writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PIDFilePath returns the well-known pid file location of the daemon.
func (c *Config) PIDFilePath() string {
	return filepath.Join(c.Paths.StateDir, "scribe.pid")
}

// SocketPath returns the control socket location of the daemon.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "scribe.sock")
}

// LogFilePath returns the daemon log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "scribe.log")
}

// ResolveAPIKey returns the Gemini API key from the environment or the
// config file, environment taking precedence.
func (c *Config) ResolveAPIKey() string {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key
	}
	return strings.TrimSpace(c.Transcription.APIKey)
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample configuration to path, refusing to overwrite
// an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
