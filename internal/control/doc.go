// Package control carries commands from the daemon's input surfaces to the
// controller. Signals and socket requests are decoded into Command values
// and pushed onto a single bounded queue; the controller drains that queue
// from one goroutine, which keeps dispatch strictly serialized no matter how
// many surfaces fire at once.
package control
