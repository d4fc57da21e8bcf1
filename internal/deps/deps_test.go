package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckReportsConfiguredFFmpeg(t *testing.T) {
	binDir := t.TempDir()
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(ffmpeg, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	statuses := Check(ffmpeg)
	if len(statuses) == 0 {
		t.Fatal("no statuses returned")
	}
	first := statuses[0]
	if first.Name != "FFmpeg" || first.Command != ffmpeg {
		t.Fatalf("ffmpeg status = %#v", first)
	}
	if !first.Required {
		t.Fatal("ffmpeg must be required")
	}
	if !first.Available || first.Detail != "" {
		t.Fatalf("stub ffmpeg should be available, got %#v", first)
	}
	for _, s := range statuses[1:] {
		if s.Required {
			t.Fatalf("%s should be optional", s.Name)
		}
	}
}

func TestCheckFlagsMissingFFmpeg(t *testing.T) {
	statuses := Check("clearly-not-present-binary")
	if statuses[0].Available {
		t.Fatal("missing binary reported available")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
}

func TestCheckFlagsUnconfiguredCommand(t *testing.T) {
	statuses := Check("  ")
	if statuses[0].Available || statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", statuses[0])
	}
}

func TestCheckCoversDeliveryAndFeedbackTools(t *testing.T) {
	want := map[string]bool{
		"wl-copy": false, "xclip": false,
		"wtype": false, "xdotool": false, "ydotool": false,
		"notify-send": false, "canberra-gtk-play": false, "paplay": false,
	}
	for _, s := range Check("ffmpeg") {
		if _, ok := want[s.Command]; ok {
			want[s.Command] = true
		}
	}
	for cmd, seen := range want {
		if !seen {
			t.Fatalf("%s missing from the tool probe", cmd)
		}
	}
}
