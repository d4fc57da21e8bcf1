// Package session implements the pure recording-lifecycle state machine.
// It performs no I/O; the daemon controller owns the single instance and is
// the only mutator.
package session
