// Package daemonctl orchestrates the daemon process from the CLI: launching
// a detached daemon, waiting for its control socket, and stopping it through
// the pid file.
package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"scribe/internal/instance"
	"scribe/internal/ipc"
)

// ErrNotRunning indicates the daemon's control socket is unavailable.
var ErrNotRunning = errors.New("daemon not running")

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	LogLevel   string
}

// Launch starts a detached scribe daemon process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"daemon"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for the control socket and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted connects to a running daemon or launches one and waits for
// its socket. The boolean reports whether a new process was launched.
func EnsureStarted(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (bool, error) {
	client, err := ipc.Dial(socketPath)
	if err == nil {
		_ = client.Close()
		return false, nil
	}
	if err := Launch(executablePath, opts); err != nil {
		return false, err
	}
	client, err = WaitForClient(socketPath, waitTimeout)
	if err != nil {
		return false, err
	}
	_ = client.Close()
	return true, nil
}

// Stop asks the daemon to shut down via SIGTERM and waits for the control
// socket to disappear. The daemon finishes an in-flight transcription before
// exiting, so the grace period should cover one transcription round-trip.
func Stop(pidPath, socketPath string, gracePeriod time.Duration) (int, error) {
	pid, err := instance.ReadPID(pidPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotRunning
		}
		return 0, err
	}
	if !instance.ProcessAlive(pid) {
		return pid, ErrNotRunning
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return pid, fmt.Errorf("signal daemon %d: %w", pid, err)
	}
	if err := WaitForShutdown(socketPath, pid, gracePeriod); err != nil {
		return pid, err
	}
	return pid, nil
}

// WaitForShutdown polls until the daemon process exits and its socket stops
// accepting connections.
func WaitForShutdown(socketPath string, pid int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !instance.ProcessAlive(pid) {
			return nil
		}
		client, err := ipc.Dial(socketPath)
		if err != nil {
			if isUnavailable(err) {
				return nil
			}
		} else {
			_ = client.Close()
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon %d did not stop within %s", pid, timeout)
}

// Running reports whether a daemon answers on the control socket, returning
// its state name when it does.
func Running(socketPath string) (bool, string, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isUnavailable(err) {
			return false, "", nil
		}
		return false, "", err
	}
	defer client.Close()
	state, err := client.Status()
	if err != nil {
		return true, "", err
	}
	return true, state, nil
}

func isUnavailable(err error) bool {
	return os.IsNotExist(err) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
