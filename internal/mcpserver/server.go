// Package mcpserver exposes a picker session to MCP clients. Agents can
// inspect relations, toggle candidates, pick everything matching a filter,
// undo, and read the resulting selection, with the same cascade semantics
// as the interactive picker.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/pickgraph/internal/logger"
	"github.com/papapumpkin/pickgraph/internal/session"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// DefaultPort is the port used when none is configured.
const DefaultPort = 8392

// Server serves one session over MCP (SSE over HTTP). Tool calls may
// arrive concurrently; the session itself is single-goroutine, so every
// call holds mu.
type Server struct {
	mu   sync.Mutex
	sess *session.Session

	mcp  *mcp.Server
	log  *logger.Logger
	port int
	srv  *http.Server
	ln   net.Listener
}

// New creates a server over sess and registers the picker tools. A nil log
// discards output.
func New(sess *session.Session, port int, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		sess: sess,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "pickgraph",
			Version: Version,
		}, nil),
		log:  log,
		port: port,
	}
	s.registerTools()
	return s
}

// Start listens on the configured port and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("mcpserver: listen on port %d: %w", s.port, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("mcp serve failed", "error", err)
		}
	}()
	s.log.Info("mcp server listening", "addr", ln.Addr().String(), "session", s.sess.ID())
	return nil
}

// Addr returns the listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Session runs fn with exclusive access to the session.
func (s *Server) Session(fn func(*session.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.sess)
}
