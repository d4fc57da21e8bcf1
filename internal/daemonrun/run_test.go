package daemonrun

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"scribe/internal/daemon"
	"scribe/internal/logging"
	"scribe/internal/output"
)

func TestTruncateShortStringUnchanged(t *testing.T) {
	if got := truncate("hello", 120); got != "hello" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestTruncateCutsLongString(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := truncate(long, 120)
	if got != strings.Repeat("a", 120)+"…" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// Every rune is three bytes, so a byte limit of 4 lands mid-rune.
	got := truncate("日本語テキスト", 4)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != "日…" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestCueForRecordingTransitions(t *testing.T) {
	cases := []struct {
		kind daemon.EventKind
		cue  output.Cue
		want bool
	}{
		{daemon.EventRecordingStarted, output.CueRecordingStart, true},
		{daemon.EventRecordingStopped, output.CueRecordingStop, true},
		{daemon.EventRecordingCancelled, output.CueRecordingCancel, true},
		{daemon.EventTranscriptReady, "", false},
		{daemon.EventShutdown, "", false},
	}
	for _, tc := range cases {
		cue, ok := cueFor(tc.kind)
		if ok != tc.want || cue != tc.cue {
			t.Fatalf("cueFor(%s) = %q, %v", tc.kind, cue, ok)
		}
	}
}

type recordingCuePlayer struct {
	played chan output.Cue
}

func (p *recordingCuePlayer) Play(_ context.Context, cue output.Cue) error {
	p.played <- cue
	return nil
}

func TestCueSinkPlaysOnRecordingEvents(t *testing.T) {
	player := &recordingCuePlayer{played: make(chan output.Cue, 4)}
	sink := cueSink(player, logging.NewNop())

	sink.Publish(daemon.Event{Kind: daemon.EventRecordingStarted})
	select {
	case cue := <-player.played:
		if cue != output.CueRecordingStart {
			t.Fatalf("cue = %q", cue)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("start cue never played")
	}

	// Non-transition events stay silent.
	sink.Publish(daemon.Event{Kind: daemon.EventTranscriptReady})
	select {
	case cue := <-player.played:
		t.Fatalf("unexpected cue %q", cue)
	case <-time.After(50 * time.Millisecond):
	}
}
