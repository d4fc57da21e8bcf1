package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"scribe/internal/daemon"
	"scribe/internal/logging"
	"scribe/internal/session"
)

func startTestServer(t *testing.T, status StatusFunc) *Server {
	t.Helper()
	hub := NewHub()
	srv, err := NewServer("127.0.0.1:0", status, hub, logging.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func TestStatusEndpoint(t *testing.T) {
	srv := startTestServer(t, func() daemon.Snapshot {
		return daemon.Snapshot{
			State:      session.StateRecording,
			Generation: 3,
			ChangedAt:  time.Now(),
		}
	})

	resp, err := http.Get("http://" + srv.Addr() + "/api/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var payload struct {
		State      string `json:"state"`
		Generation uint64 `json:"generation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.State != "recording" || payload.Generation != 3 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestStatusRejectsNonGET(t *testing.T) {
	srv := startTestServer(t, func() daemon.Snapshot {
		return daemon.Snapshot{State: session.StateIdle}
	})

	resp, err := http.Post("http://"+srv.Addr()+"/api/status", "text/plain", nil)
	if err != nil {
		t.Fatalf("post status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status code = %d", resp.StatusCode)
	}
}

func TestEventStreamDeliversBroadcasts(t *testing.T) {
	srv := startTestServer(t, func() daemon.Snapshot {
		return daemon.Snapshot{State: session.StateIdle}
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/api/events", nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	// Registration is async; give the hub loop a moment to admit the client.
	time.Sleep(50 * time.Millisecond)
	srv.Publish(daemon.Event{
		Kind:       daemon.EventRecordingStarted,
		State:      session.StateRecording,
		Generation: 1,
		At:         time.Now(),
	})

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var evt daemon.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if evt.Kind != daemon.EventRecordingStarted || evt.Generation != 1 {
		t.Fatalf("event = %+v", evt)
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(":0", nil, NewHub(), logging.NewNop()); err == nil {
		t.Fatal("nil status should be rejected")
	}
	if _, err := NewServer(":0", func() daemon.Snapshot { return daemon.Snapshot{} }, nil, logging.NewNop()); err == nil {
		t.Fatal("nil hub should be rejected")
	}
}
