package config

import (
	"fmt"

	"scribe/internal/transcribe"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDaemon() error {
	if c.Daemon.MaxDurationSeconds > 3600 {
		return fmt.Errorf("daemon.max_duration_seconds: %d exceeds the one hour ceiling", c.Daemon.MaxDurationSeconds)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if _, err := transcribe.ParseDomain(c.Transcription.Domain); err != nil {
		return fmt.Errorf("transcription.domain: %w", err)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.KeystrokeTool {
	case "auto", "wtype", "xdotool", "ydotool":
		return nil
	default:
		return fmt.Errorf("output.keystroke_tool: unsupported value %q", c.Output.KeystrokeTool)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
