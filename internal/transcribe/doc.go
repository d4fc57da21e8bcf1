// Package transcribe provides the speech-to-text port, the domain preset
// vocabulary, the system prompt builder, and the Gemini-backed client.
package transcribe
