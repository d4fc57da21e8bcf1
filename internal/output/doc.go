// Package output delivers finished transcripts to the desktop. Sinks wrap
// the session's clipboard and keystroke-injection tools, and the notifier
// surfaces progress through notify-send. Tool selection happens once at
// startup so a missing helper fails loudly rather than on the first
// transcript.
package output
