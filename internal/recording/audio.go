package recording

import (
	"fmt"
	"time"
)

// Clip is a finalized recording ready for transcription.
type Clip struct {
	// ID uniquely identifies the recording across logs and events.
	ID string
	// Data holds the encoded audio bytes.
	Data []byte
	// MIMEType describes the encoding, e.g. "audio/wav".
	MIMEType string
	// Duration is the captured wall-clock length.
	Duration time.Duration
}

// HumanSize renders the clip payload size for logs and notifications.
func (c *Clip) HumanSize() string {
	size := len(c.Data)
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/float64(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
