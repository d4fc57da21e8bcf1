package instance

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"scribe/internal/logging"
)

func TestGuardAcquireRelease(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "scribe.pid")
	g := NewGuard(pidPath, logging.NewNop())
	if err := g.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	pid, err := ReadPID(pidPath)
	if err != nil {
		t.Fatalf("read pid: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid file holds %d, want %d", pid, os.Getpid())
	}

	g.Release()
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("pid file should be removed after release, stat err=%v", err)
	}
}

func TestGuardConflictWithLiveProcess(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "scribe.pid")
	// pid 1 is always alive.
	if err := os.WriteFile(pidPath, []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGuard(pidPath, logging.NewNop())
	err := g.Acquire()
	var conflict *LockConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected LockConflictError, got %v", err)
	}
	if conflict.PID != 1 {
		t.Fatalf("conflict pid = %d, want 1", conflict.PID)
	}
}

func TestGuardReclaimsStalePIDFile(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "scribe.pid")
	// Far above any realistic pid ceiling, so the liveness probe fails.
	stale := strconv.Itoa(1 << 30)
	if err := os.WriteFile(pidPath, []byte(stale+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGuard(pidPath, logging.NewNop())
	if err := g.Acquire(); err != nil {
		t.Fatalf("stale pid file should be reclaimed: %v", err)
	}
	defer g.Release()

	pid, err := ReadPID(pidPath)
	if err != nil {
		t.Fatalf("read pid: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid file holds %d, want %d", pid, os.Getpid())
	}
}

func TestGuardReclaimsGarbagePIDFile(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "scribe.pid")
	if err := os.WriteFile(pidPath, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGuard(pidPath, logging.NewNop())
	if err := g.Acquire(); err != nil {
		t.Fatalf("garbage pid file should be replaced: %v", err)
	}
	g.Release()
}

func TestReadPIDErrors(t *testing.T) {
	if _, err := ReadPID(filepath.Join(t.TempDir(), "missing.pid")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "zero.pid")
	if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPID(path); err == nil {
		t.Fatal("pid 0 should be rejected")
	}
}

func TestProcessAlive(t *testing.T) {
	if !ProcessAlive(os.Getpid()) {
		t.Fatal("current process should be alive")
	}
	if ProcessAlive(0) || ProcessAlive(-5) {
		t.Fatal("non-positive pids should never be alive")
	}
	if ProcessAlive(1 << 30) {
		t.Fatal("absurd pid should not be alive")
	}
}
