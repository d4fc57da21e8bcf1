// Package logs provides bounded-memory tailing of the daemon log file for
// the `scribe logs` command: last-N-lines reads, offset-based incremental
// reads, and a polling follow mode that stops with its context.
package logs
