package transcribe

import "fmt"

// baseInstruction is shared by every transcription request; domain presets
// append context to it.
const baseInstruction = `You are a voice-to-text assistant that transcribes audio into grammatically correct, context-aware text output.

Instructions:
- Remove filler words (um, ah, like, you know)
- Must have correct grammar and punctuation
- Do NOT transcribe stutters, false starts, or repeated words
- Output ONLY the final cleaned text
- Do NOT include meta-commentary or explanations`

// BuildPrompt combines the base instruction with the domain preset into the
// system prompt sent alongside the audio.
func BuildPrompt(domain Domain) string {
	return fmt.Sprintf("%s\n\nDomain Context: %s\n%s", baseInstruction, domain.Label(), domain.Instructions())
}
