// Package deps probes the external tools scribe shells out to, for the
// startup dependency snapshot and the status command.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Status describes one external tool and whether it is installed.
type Status struct {
	Name      string
	Command   string
	Purpose   string
	Required  bool
	Available bool
	Detail    string
}

// Check probes every tool scribe can use. The ffmpeg binary comes from
// configuration; everything else is fixed. Only audio capture is required,
// the delivery and feedback tools degrade gracefully when absent.
func Check(ffmpegBinary string) []Status {
	statuses := []Status{
		{Name: "FFmpeg", Command: ffmpegBinary, Purpose: "Captures microphone audio", Required: true},
		{Name: "wl-copy", Command: "wl-copy", Purpose: "Wayland clipboard delivery"},
		{Name: "xclip", Command: "xclip", Purpose: "X11 clipboard delivery"},
		{Name: "wtype", Command: "wtype", Purpose: "Wayland keystroke injection"},
		{Name: "xdotool", Command: "xdotool", Purpose: "X11 keystroke injection"},
		{Name: "ydotool", Command: "ydotool", Purpose: "Universal keystroke injection"},
		{Name: "notify-send", Command: "notify-send", Purpose: "Desktop notifications"},
		{Name: "canberra-gtk-play", Command: "canberra-gtk-play", Purpose: "Recording sound cues"},
		{Name: "paplay", Command: "paplay", Purpose: "Recording sound cues (fallback)"},
	}
	for i := range statuses {
		probe(&statuses[i])
	}
	return statuses
}

func probe(s *Status) {
	s.Command = strings.TrimSpace(s.Command)
	if s.Command == "" {
		s.Detail = "command not configured"
		return
	}
	if _, err := exec.LookPath(s.Command); err != nil {
		s.Detail = fmt.Sprintf("binary %q not found", s.Command)
		return
	}
	s.Available = true
}
