package logs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scribe.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLastLinesReturnsTail(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")

	lines, offset, err := LastLines(path, 2)
	if err != nil {
		t.Fatalf("last lines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "three" || lines[1] != "four" {
		t.Fatalf("lines = %v", lines)
	}
	if offset == 0 {
		t.Fatal("offset should point past the file end")
	}
}

func TestLastLinesShortFile(t *testing.T) {
	path := writeLog(t, "only\n")

	lines, _, err := LastLines(path, 10)
	if err != nil {
		t.Fatalf("last lines: %v", err)
	}
	if len(lines) != 1 || lines[0] != "only" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestLastLinesMissingFile(t *testing.T) {
	lines, offset, err := LastLines(filepath.Join(t.TempDir(), "missing.log"), 5)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(lines) != 0 || offset != 0 {
		t.Fatalf("lines=%v offset=%d", lines, offset)
	}
}

func TestReadFromPicksUpAppends(t *testing.T) {
	path := writeLog(t, "first\n")
	_, offset, err := LastLines(path, 10)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	lines, newOffset, err := ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if len(lines) != 1 || lines[0] != "second" {
		t.Fatalf("lines = %v", lines)
	}
	if newOffset <= offset {
		t.Fatalf("offset did not advance: %d -> %d", offset, newOffset)
	}
}

func TestReadFromResetsOnTruncation(t *testing.T) {
	path := writeLog(t, "replaced\n")

	lines, _, err := ReadFrom(path, 1<<20)
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if len(lines) != 1 || lines[0] != "replaced" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestFollowStopsWithContext(t *testing.T) {
	path := writeLog(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var got []string
	err := Follow(ctx, path, 0, func(line string) { got = append(got, line) })
	if err != context.DeadlineExceeded {
		t.Fatalf("follow returned %v", err)
	}
}
