// Package daemon hosts the dictation controller. A single dispatch loop owns
// the session state machine and consumes commands, watchdog deadlines, and
// transcription outcomes one at a time, so every transition is serialized.
// Capture finalization and transcription run off the loop on a worker
// goroutine, keeping toggle and cancel responsive while audio is uploaded.
package daemon
