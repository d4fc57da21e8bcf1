package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"scribe/internal/daemon"
	"scribe/internal/logging"
)

// StatusFunc supplies the current controller snapshot.
type StatusFunc func() daemon.Snapshot

// Server exposes a read-only HTTP surface: /api/status returns the current
// snapshot and /api/events streams controller events over WebSocket.
type Server struct {
	addr   string
	status StatusFunc
	hub    *Hub
	logger *slog.Logger

	httpServer *http.Server
	listener   net.Listener
	cancel     context.CancelFunc
	done       chan struct{}
}

type statusPayload struct {
	State          string    `json:"state"`
	Generation     uint64    `json:"generation"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	ChangedAt      time.Time `json:"changed_at"`
}

// NewServer builds the API server bound to addr.
func NewServer(addr string, status StatusFunc, hub *Hub, logger *slog.Logger) (*Server, error) {
	if status == nil || hub == nil {
		return nil, errors.New("api server requires a status function and a hub")
	}
	s := &Server{
		addr:   addr,
		status: status,
		hub:    hub,
		logger: logging.NewComponentLogger(logger, "api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.Handle("/api/events", hub.Handler())
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Start binds the listener and serves until Close. The hub loop runs as
// part of the server lifetime.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	hubCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.hub.Run(hubCtx)
	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("http server stopped",
				logging.Error(err),
				logging.String(logging.FieldImpact, "status API unavailable"))
		}
	}()
	s.logger.Info("api listening", logging.String("addr", listener.Addr().String()))
	return nil
}

// Addr reports the bound address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Close drains connections and stops the hub.
func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Debug("http shutdown", logging.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

// Publish implements daemon.EventSink by broadcasting events to WebSocket
// subscribers.
func (s *Server) Publish(evt daemon.Event) {
	s.hub.BroadcastJSON(evt)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.status()
	payload := statusPayload{
		State:          string(snap.State),
		Generation:     snap.Generation,
		ElapsedSeconds: snap.Elapsed().Seconds(),
		ChangedAt:      snap.ChangedAt,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Debug("encode status", logging.Error(err))
	}
}
