package output

import (
	"context"
	"os/exec"
)

const notifyAppName = "scribe"

// Notifier posts desktop notifications about dictation progress.
type Notifier interface {
	Notify(ctx context.Context, title, body, icon string) error
}

// DesktopNotifier shells out to notify-send.
type DesktopNotifier struct{}

// NewDesktopNotifier verifies notify-send is installed.
func NewDesktopNotifier() (*DesktopNotifier, error) {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return nil, err
	}
	return &DesktopNotifier{}, nil
}

func (n *DesktopNotifier) Notify(ctx context.Context, title, body, icon string) error {
	args := []string{"--app-name", notifyAppName}
	if icon != "" {
		args = append(args, "--icon", icon)
	}
	args = append(args, title, body)
	return runTool(ctx, "", "notify-send", args...)
}

// NoopNotifier drops every notification. Used when notifications are
// disabled or notify-send is missing.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, string, string) error { return nil }
