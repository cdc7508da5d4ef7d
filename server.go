package relaymcp

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Server is a WebSocket RPC server instance. It owns the current tool
// registry as an atomic pointer so a hot reload can publish a new snapshot
// without blocking or disrupting calls dispatched against the old one
// (spec section 3/4.2).
//
// Thread safety: Server's exported methods are safe for concurrent use.
// ServeHTTP serves each accepted connection on the goroutine net/http calls
// it on, and spawns one further goroutine per inbound frame on that
// connection, so a slow tool call never blocks the next frame on the same
// connection.
type Server struct {
	registry atomic.Pointer[Registry]

	logger   *slog.Logger
	executor *Executor
	conns    *ConnectionManager
	upgrader websocket.Upgrader

	wg       sync.WaitGroup
	shutdown atomic.Bool
}

// ServerOption configures a Server at construction time.
type ServerOption func(*Server)

// WithLogger overrides the server's logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithExecutor overrides the server's executor, primarily for tests that
// want to inject a synchronous worker pool.
func WithExecutor(e *Executor) ServerOption {
	return func(s *Server) { s.executor = e }
}

// NewServer builds a Server with an initial registry snapshot.
func NewServer(initial *Registry, opts ...ServerOption) *Server {
	s := &Server{
		logger: slog.Default(),
		conns:  NewConnectionManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.registry.Store(initial)
	for _, opt := range opts {
		opt(s)
	}
	if s.executor == nil {
		s.executor = NewExecutor(s.logger, nil)
	}
	return s
}

// SetRegistry atomically publishes a new registry snapshot. Existing
// in-flight calls keep the snapshot they already captured; only calls
// dispatched after this Store observe the new one.
func (s *Server) SetRegistry(r *Registry) {
	s.registry.Store(r)
	s.logger.Info("registry updated", "tool_count", r.Len())
}

// Registry returns the currently published snapshot.
func (s *Server) Registry() *Registry {
	return s.registry.Load()
}

// ConnectionCount reports how many connections are currently open.
func (s *Server) ConnectionCount() int {
	return s.conns.Len()
}

// ServeHTTP upgrades the request to a WebSocket connection and serves it
// until the client disconnects or the server shuts down.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.shutdown.Load() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	conn := NewConnection(wsConn)
	s.conns.Add(conn)
	s.logger.Info("connection opened", "connection_id", conn.ID, "remote", r.RemoteAddr)

	s.serveConnection(conn)
}

// serveConnection reads frames serially off one connection, dispatching
// each frame's processing to its own goroutine tracked by s.wg so Shutdown
// can wait for in-flight work to drain.
func (s *Server) serveConnection(conn *Connection) {
	defer func() {
		s.conns.Remove(conn)
		_ = conn.Close()
		s.logger.Info("connection closed", "connection_id", conn.ID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		s.wg.Add(1)
		go func(frame []byte) {
			defer s.wg.Done()
			s.handleFrame(conn, frame)
		}(data)
	}
}

// handleFrame runs one request through validate -> route -> execute -> send.
func (s *Server) handleFrame(conn *Connection, frame []byte) {
	req, errResp := ParseRequest(frame)
	if errResp != nil {
		s.sendResponse(conn, errResp)
		return
	}

	if resp := Route(req); resp != nil {
		s.sendResponse(conn, resp)
		return
	}

	snapshot := s.registry.Load()
	resp := s.executor.Execute(context.Background(), req, snapshot)
	s.sendResponse(conn, resp)
}

func (s *Server) sendResponse(conn *Connection, resp *Response) {
	if err := conn.Send(resp); err != nil {
		s.logger.Debug("failed to send response, connection likely closed",
			"connection_id", conn.ID, "correlation_id", resp.Header.CorrelationID, "error", err)
	}
}

// Shutdown marks the server as no longer accepting new connections, closes
// every open connection to unblock their read loops, and waits up to
// timeout for in-flight frame handlers to finish.
func (s *Server) Shutdown(timeout time.Duration) {
	s.shutdown.Store(true)
	s.conns.CloseAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("shutdown complete, all in-flight calls finished")
	case <-time.After(timeout):
		s.logger.Warn("shutdown timed out waiting for in-flight calls", "timeout", timeout)
	}
}
