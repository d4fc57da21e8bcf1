package output

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// KeystrokeSink types transcripts into the focused window using a desktop
// automation tool.
type KeystrokeSink struct {
	tool string
}

// NewKeystrokeSink builds a sink around the named tool. "auto" probes for
// the best available tool: ydotool when its daemon socket is up, then
// wtype on Wayland, then xdotool on X11.
func NewKeystrokeSink(tool string) (*KeystrokeSink, error) {
	switch tool {
	case "", "auto":
		detected, ok := detectKeystrokeTool()
		if !ok {
			return nil, fmt.Errorf("no keystroke tool found, install wtype, xdotool, or ydotool")
		}
		return &KeystrokeSink{tool: detected}, nil
	case "wtype", "xdotool", "ydotool":
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("keystroke tool %s: %w", tool, err)
		}
		return &KeystrokeSink{tool: tool}, nil
	default:
		return nil, fmt.Errorf("unsupported keystroke tool %q", tool)
	}
}

func (s *KeystrokeSink) Name() string { return "keystroke/" + s.tool }

// Tool reports which automation tool was selected.
func (s *KeystrokeSink) Tool() string { return s.tool }

func (s *KeystrokeSink) Deliver(ctx context.Context, text string) error {
	switch s.tool {
	case "wtype":
		return runTool(ctx, "", "wtype", text)
	case "xdotool":
		return runTool(ctx, "", "xdotool", "type", "--clearmodifiers", "--", text)
	case "ydotool":
		return runTool(ctx, "", "ydotool", "type", "--", text)
	default:
		return fmt.Errorf("unsupported keystroke tool %q", s.tool)
	}
}

func detectKeystrokeTool() (string, bool) {
	if ydotoolAvailable() {
		return "ydotool", true
	}
	if _, err := exec.LookPath("wtype"); err == nil {
		return "wtype", true
	}
	if _, err := exec.LookPath("xdotool"); err == nil {
		return "xdotool", true
	}
	return "", false
}

// ydotoolAvailable requires both the binary and a running ydotoold, whose
// socket lives under XDG_RUNTIME_DIR or /tmp.
func ydotoolAvailable() bool {
	if _, err := exec.LookPath("ydotool"); err != nil {
		return false
	}
	candidates := []string{"/tmp/.ydotool_socket"}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		candidates = append([]string{filepath.Join(runtimeDir, ".ydotool_socket")}, candidates...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
