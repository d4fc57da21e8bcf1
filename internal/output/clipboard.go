package output

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ClipboardSink copies transcripts to the desktop clipboard through wl-copy
// on Wayland or xclip on X11.
type ClipboardSink struct {
	tool string
	args []string
}

// NewClipboardSink resolves a clipboard helper for the current session.
func NewClipboardSink() (*ClipboardSink, error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if _, err := exec.LookPath("wl-copy"); err == nil {
			return &ClipboardSink{tool: "wl-copy"}, nil
		}
	}
	if _, err := exec.LookPath("xclip"); err == nil {
		return &ClipboardSink{tool: "xclip", args: []string{"-selection", "clipboard"}}, nil
	}
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return &ClipboardSink{tool: "wl-copy"}, nil
	}
	return nil, fmt.Errorf("no clipboard tool found, install wl-copy or xclip")
}

func (s *ClipboardSink) Name() string { return "clipboard/" + s.tool }

func (s *ClipboardSink) Deliver(ctx context.Context, text string) error {
	return runTool(ctx, text, s.tool, s.args...)
}
