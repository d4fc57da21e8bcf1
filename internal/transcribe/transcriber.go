package transcribe

import (
	"context"
	"errors"

	"scribe/internal/recording"
)

// ErrEmptyTranscript reports a response that contained no usable text.
var ErrEmptyTranscript = errors.New("transcription returned no text")

// Transcriber is the speech-to-text port consumed by the daemon controller.
type Transcriber interface {
	// Transcribe converts the clip to text, steered by the system prompt.
	Transcribe(ctx context.Context, clip *recording.Clip, prompt string) (string, error)
}
