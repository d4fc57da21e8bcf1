package recording_test

import (
	"testing"

	"scribe/internal/recording"
)

func TestClipHumanSize(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1 << 10, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tc := range tests {
		clip := &recording.Clip{Data: make([]byte, tc.size)}
		if got := clip.HumanSize(); got != tc.want {
			t.Fatalf("HumanSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}
