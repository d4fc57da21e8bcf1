package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/recording"
)

// DefaultBaseURL is the production Gemini generateContent endpoint root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiOptions configures the Gemini transcription client.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient implements Transcriber against the Gemini generateContent
// REST API.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Gemini wire types.

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiGenConfig struct {
	Temperature     float32               `json:"temperature"`
	ThinkingConfig  *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
	MaxOutputTokens int                   `json:"maxOutputTokens,omitempty"`
}

type geminiThinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiAPIError   `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiAPIError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewGeminiClient builds a transcription client, applying defaults for any
// empty option.
func NewGeminiClient(opts GeminiOptions, logger *slog.Logger) *GeminiClient {
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash-lite"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &GeminiClient{
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  &http.Client{Timeout: opts.Timeout},
		logger:  logging.NewComponentLogger(logger, "transcriber"),
	}
}

// Transcribe sends the clip inline with the system prompt and returns the
// cleaned transcript text.
func (g *GeminiClient) Transcribe(ctx context.Context, clip *recording.Clip, prompt string) (string, error) {
	if clip == nil || len(clip.Data) == 0 {
		return "", fmt.Errorf("transcribe: empty audio clip")
	}

	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: "Transcribe this audio."},
				{InlineData: &geminiInlineData{
					MimeType: clip.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(clip.Data),
				}},
			},
		}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: prompt}}},
		GenerationConfig: &geminiGenConfig{
			Temperature:    0,
			ThinkingConfig: &geminiThinkingConfig{ThinkingBudget: 0},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode transcription request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode transcription response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return "", fmt.Errorf("gemini api error %d (%s): %s", decoded.Error.Code, decoded.Error.Status, decoded.Error.Message)
		}
		return "", fmt.Errorf("gemini api returned status %d", resp.StatusCode)
	}

	text := extractText(decoded)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	g.logger.Debug("transcription complete",
		logging.String(logging.FieldClipID, clip.ID),
		logging.Duration("latency", time.Since(started)),
		logging.Int("chars", len(text)))
	return text, nil
}

func extractText(resp geminiResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
		if builder.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(builder.String())
}
