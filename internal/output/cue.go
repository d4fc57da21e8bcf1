package output

import (
	"context"
	"fmt"
	"os/exec"
)

// Cue identifies an audible feedback moment in the dictation lifecycle.
type Cue string

const (
	CueRecordingStart  Cue = "recording-start"
	CueRecordingStop   Cue = "recording-stop"
	CueRecordingCancel Cue = "recording-cancel"
)

// freedesktop sound theme events: an ascending chime on start, the matching
// descending chime on stop, a warning tone on cancel.
var cueEventIDs = map[Cue]string{
	CueRecordingStart:  "device-added",
	CueRecordingStop:   "device-removed",
	CueRecordingCancel: "dialog-warning",
}

const freedesktopSoundDir = "/usr/share/sounds/freedesktop/stereo"

// CuePlayer plays short feedback sounds around recording transitions.
type CuePlayer interface {
	Play(ctx context.Context, cue Cue) error
}

// SoundCuePlayer shells out to a sound theme player.
type SoundCuePlayer struct {
	tool string
}

// NewSoundCuePlayer picks the first available playback tool.
// canberra-gtk-play resolves event sounds through the active desktop theme;
// paplay falls back to the stock freedesktop files.
func NewSoundCuePlayer() (*SoundCuePlayer, error) {
	for _, tool := range []string{"canberra-gtk-play", "paplay"} {
		if _, err := exec.LookPath(tool); err == nil {
			return &SoundCuePlayer{tool: tool}, nil
		}
	}
	return nil, fmt.Errorf("no cue playback tool found (tried canberra-gtk-play, paplay)")
}

// Tool reports the playback binary in use.
func (p *SoundCuePlayer) Tool() string { return p.tool }

func (p *SoundCuePlayer) Play(ctx context.Context, cue Cue) error {
	event, ok := cueEventIDs[cue]
	if !ok {
		return fmt.Errorf("unknown cue %q", cue)
	}
	if p.tool == "canberra-gtk-play" {
		return runTool(ctx, "", p.tool, "-i", event)
	}
	return runTool(ctx, "", p.tool, freedesktopSoundDir+"/"+event+".oga")
}

// NoopCuePlayer drops every cue. Used when sound cues are disabled or no
// playback tool is installed.
type NoopCuePlayer struct{}

func (NoopCuePlayer) Play(context.Context, Cue) error { return nil }
