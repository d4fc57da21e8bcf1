package transcribe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scribe/internal/recording"
	"scribe/internal/transcribe"
)

func testClip() *recording.Clip {
	return &recording.Clip{
		ID:       "clip-1",
		Data:     []byte("RIFFxxxxWAVE"),
		MIMEType: "audio/wav",
		Duration: 2 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*transcribe.GeminiClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := transcribe.NewGeminiClient(transcribe.GeminiOptions{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash-lite",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
	return client, server
}

func TestTranscribeReturnsText(t *testing.T) {
	var gotPath string
	var gotKey string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  hello world \n"}]}}]}`))
	})

	text, err := client.Transcribe(context.Background(), testClip(), "prompt text")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("text = %q, want %q", text, "hello world")
	}
	if gotPath != "/gemini-2.0-flash-lite:generateContent" {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if _, ok := gotBody["systemInstruction"]; !ok {
		t.Fatal("request missing systemInstruction")
	}
}

func TestTranscribeSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad audio"}}`))
	})

	_, err := client.Transcribe(context.Background(), testClip(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "INVALID_ARGUMENT") || !strings.Contains(err.Error(), "bad audio") {
		t.Fatalf("error missing api detail: %v", err)
	}
}

func TestTranscribeEmptyCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Transcribe(context.Background(), testClip(), "prompt")
	if err != transcribe.ErrEmptyTranscript {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestTranscribeRejectsEmptyClip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := client.Transcribe(context.Background(), &recording.Clip{}, "prompt"); err == nil {
		t.Fatal("expected error for empty clip")
	}
}
