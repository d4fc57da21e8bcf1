package instance

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"scribe/internal/logging"
)

// LockConflictError reports that another live daemon owns the pid file.
type LockConflictError struct {
	PID  int
	Path string
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("another scribe daemon is already running (pid %d, %s)", e.PID, e.Path)
}

// Guard enforces single-instance execution. A flock on a sibling lock file
// serializes acquisition; the pid file itself carries the owner's pid so
// other processes can probe liveness and clients can find the daemon.
type Guard struct {
	pidPath  string
	lockPath string
	lock     *flock.Flock
	logger   *slog.Logger

	acquired bool
}

// NewGuard builds a guard around pidPath. Nothing is locked until Acquire.
func NewGuard(pidPath string, logger *slog.Logger) *Guard {
	lockPath := pidPath + ".lock"
	return &Guard{
		pidPath:  pidPath,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		logger:   logging.NewComponentLogger(logger, "instance"),
	}
}

// Acquire claims the pid file for the current process. A pid file naming a
// live process yields LockConflictError; a stale pid file (dead owner) is
// reclaimed after a warning.
func (g *Guard) Acquire() error {
	if g.acquired {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(g.pidPath), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	ok, err := g.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !ok {
		pid, _ := ReadPID(g.pidPath)
		return &LockConflictError{PID: pid, Path: g.pidPath}
	}

	pid, readErr := ReadPID(g.pidPath)
	switch {
	case readErr == nil && ProcessAlive(pid):
		_ = g.lock.Unlock()
		return &LockConflictError{PID: pid, Path: g.pidPath}
	case readErr == nil:
		g.logger.Warn("reclaiming stale pid file",
			logging.Int("stale_pid", pid),
			logging.String("path", g.pidPath),
			logging.String(logging.FieldImpact, "previous daemon exited without cleanup"))
	case !errors.Is(readErr, os.ErrNotExist):
		g.logger.Warn("replacing unreadable pid file",
			logging.Error(readErr),
			logging.String("path", g.pidPath))
	}

	value := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(g.pidPath, []byte(value), 0o644); err != nil {
		_ = g.lock.Unlock()
		return fmt.Errorf("write pid file: %w", err)
	}
	g.acquired = true
	g.logger.Info("instance lock acquired",
		logging.Int("pid", os.Getpid()),
		logging.String("path", g.pidPath))
	return nil
}

// Release removes the pid file and drops the lock. Safe to call more than
// once; only the acquiring process should call it.
func (g *Guard) Release() {
	if !g.acquired {
		return
	}
	if err := os.Remove(g.pidPath); err != nil && !os.IsNotExist(err) {
		g.logger.Warn("failed to remove pid file", logging.Error(err))
	}
	if err := g.lock.Unlock(); err != nil {
		g.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	g.acquired = false
}

// PIDPath returns the pid file path the guard manages.
func (g *Guard) PIDPath() string {
	return g.pidPath
}

// ReadPID parses the pid recorded at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file %s: %w", path, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("pid file %s holds invalid pid %d", path, pid)
	}
	return pid, nil
}

// ProcessAlive probes pid with a null signal. EPERM counts as alive: the
// process exists even though we may not signal it.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, unix.EPERM)
}
