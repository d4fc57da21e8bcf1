// Package ipc provides daemon control over a Unix domain socket using a
// newline-delimited text protocol. toggle and cancel are enqueued for the
// controller; status is answered synchronously from the latest snapshot so
// a query never waits behind an in-flight transcription.
package ipc
