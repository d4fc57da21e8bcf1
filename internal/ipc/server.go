package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"scribe/internal/control"
	"scribe/internal/logging"
)

const (
	responseOK             = "ok"
	responseBusy           = "error: busy"
	responseUnknownCommand = "error: unknown command"

	connReadTimeout = 30 * time.Second
)

// Server exposes daemon control over a Unix domain socket. The protocol is
// newline-delimited text: clients send one command per line (toggle, cancel,
// status) and read one response line back. Commands are enqueued, never
// executed on the connection goroutine, so the controller stays the single
// consumer.
type Server struct {
	path     string
	queue    *control.Queue
	status   func() string
	logger   *slog.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer binds the control socket at path. status answers status queries
// synchronously and must be safe to call from any goroutine.
func NewServer(ctx context.Context, path string, queue *control.Queue, status func() string, logger *slog.Logger) (*Server, error) {
	if queue == nil || status == nil {
		return nil, errors.New("ipc server requires a queue and a status function")
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:     path,
		queue:    queue,
		status:   status,
		logger:   logging.NewComponentLogger(logger, "ipc"),
		listener: listener,
		ctx:      serverCtx,
		cancel:   cancel,
	}, nil
}

// Serve starts accepting connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("control socket listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.handleConn(c)
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale socket may block future starts"))
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(connReadTimeout))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := s.handleCommand(line)
		if _, err := fmt.Fprintln(conn, reply); err != nil {
			s.logger.Debug("write to client failed", logging.Error(err))
			return
		}
	}
}

func (s *Server) handleCommand(line string) string {
	switch strings.ToLower(line) {
	case "toggle":
		return s.enqueue(control.Toggle)
	case "cancel":
		return s.enqueue(control.Cancel)
	case "status":
		return s.status()
	default:
		s.logger.Warn("unknown socket command", logging.String("command", line))
		return responseUnknownCommand
	}
}

func (s *Server) enqueue(kind control.Kind) string {
	if !s.queue.Push(control.Command{Kind: kind, Source: "socket"}) {
		return responseBusy
	}
	return responseOK
}
