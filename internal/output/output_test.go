package output

import (
	"context"
	"strings"
	"testing"
)

func TestNewKeystrokeSinkRejectsUnknownTool(t *testing.T) {
	if _, err := NewKeystrokeSink("typomatic"); err == nil {
		t.Fatal("unknown tool should be rejected")
	}
}

func TestKeystrokeSinkName(t *testing.T) {
	s := &KeystrokeSink{tool: "wtype"}
	if s.Name() != "keystroke/wtype" {
		t.Fatalf("name = %q", s.Name())
	}
	if s.Tool() != "wtype" {
		t.Fatalf("tool = %q", s.Tool())
	}
}

func TestClipboardSinkName(t *testing.T) {
	s := &ClipboardSink{tool: "wl-copy"}
	if s.Name() != "clipboard/wl-copy" {
		t.Fatalf("name = %q", s.Name())
	}
}

func TestNoopNotifier(t *testing.T) {
	if err := (NoopNotifier{}).Notify(context.Background(), "title", "body", ""); err != nil {
		t.Fatalf("noop notifier returned %v", err)
	}
}

func TestSoundCuePlayerRejectsUnknownCue(t *testing.T) {
	p := &SoundCuePlayer{tool: "paplay"}
	if err := p.Play(context.Background(), Cue("applause")); err == nil {
		t.Fatal("unknown cue should be rejected")
	}
}

func TestCueEventIDsCoverAllCues(t *testing.T) {
	for _, cue := range []Cue{CueRecordingStart, CueRecordingStop, CueRecordingCancel} {
		if _, ok := cueEventIDs[cue]; !ok {
			t.Fatalf("no sound event mapped for %q", cue)
		}
	}
}

func TestNoopCuePlayer(t *testing.T) {
	if err := (NoopCuePlayer{}).Play(context.Background(), CueRecordingStart); err != nil {
		t.Fatalf("noop cue player returned %v", err)
	}
}

func TestRunToolReportsStderr(t *testing.T) {
	err := runTool(context.Background(), "", "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("stderr not folded into error: %v", err)
	}
}

func TestRunToolFeedsStdin(t *testing.T) {
	// cat exits non-zero only if stdin handling breaks.
	if err := runTool(context.Background(), "hello", "sh", "-c", "cat >/dev/null"); err != nil {
		t.Fatalf("runTool: %v", err)
	}
}
