// pattern: Imperative Shell

package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"devframe/internal/fit"
	"devframe/internal/logging"
)

// Server is the HTTP inspector: it serves the latest fit geometry, pushes
// fit results over SSE and websocket, and forwards simulator actions to the
// preview.
type Server struct {
	httpServer *http.Server
	store      *Store
	notify     func(any)
	logger     *logging.ScopedLogger
	addr       string
	listener   net.Listener
	events     *eventBroker
	stream     *streamHub
	sessionID  string
	startedAt  time.Time
}

// Config holds web server configuration.
type Config struct {
	Bind      string
	Port      int
	SessionID string
}

// New creates a web server.
// notify is called with an events.ActionMsg for every accepted action; main
// wires it to p.Send(). A nil store gets a fresh one.
// logProvider must implement logging.LoggerProvider (both *logging.Manager and
// *logging.TestLogManager satisfy this interface).
func New(cfg Config, store *Store, notify func(any), logProvider logging.LoggerProvider) *Server {
	logger := logProvider.For("web")
	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	if store == nil {
		store = NewStore()
	}
	if notify == nil {
		notify = func(any) {}
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:     store,
		notify:    notify,
		logger:    logger,
		addr:      addr,
		events:    newEventBroker(),
		stream:    newStreamHub(),
		sessionID: cfg.SessionID,
		startedAt: time.Now(),
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/geometry", s.handleGeometry)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/stream", s.HandleStream)
	mux.HandleFunc("GET /api/actions", s.handleListActions)
	mux.HandleFunc("POST /api/actions/{name}", s.handleAction)

	return s
}

// Publish records a fit result and fans it out to SSE and websocket
// subscribers. It is safe to call from any goroutine.
func (s *Server) Publish(g fit.Geometry) {
	s.store.Set(g)
	s.events.Notify()
	s.stream.Broadcast(g)
}

// Store returns the geometry store.
func (s *Server) Store() *Store {
	return s.store
}

// Listen binds the server to its configured address and returns the listener.
// Call Serve() after Listen() to start accepting connections.
// This two-step approach allows callers to obtain the actual bound address
// (useful for ephemeral port 0 in tests) before the server blocks on Serve().
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	return ln, nil
}

// Serve accepts connections on the listener. Blocks until the server stops.
// Must call Listen() first.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("web server started", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Start binds and serves in one call. Blocks until the server stops.
func (s *Server) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Addr returns the address the server is listening on.
// Only valid after Listen() or Start() has been called.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	return s.httpServer.Shutdown(ctx)
}
