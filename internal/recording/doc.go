// Package recording defines the audio capture port consumed by the daemon
// controller and an ffmpeg-backed implementation of it.
package recording
