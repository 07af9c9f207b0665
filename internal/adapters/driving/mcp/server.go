package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/formflow/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ShutdownTimeout bounds how long RunHTTP waits for in-flight tool calls
// once its context is cancelled.
const ShutdownTimeout = 15 * time.Second

// Server exposes form submission and stored entries to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers the submit_form and list_entries tools and the form
// resources over the given ports. Ports.Entries may be nil, in which case
// entry listings are empty.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "formflow",
			Title:   "formflow submissions",
			Version: Version,
		}, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves one client over stdin/stdout until ctx is cancelled or the
// client disconnects. A submit_form call that is still running when ctx
// is cancelled sees the cancellation and stores nothing.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving formflow over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves streamable HTTP clients on addr until ctx is cancelled.
// Cancellation stops accepting connections and gives running tool calls
// up to ShutdownTimeout to finish, so an accepted submission is either
// indexed or reported as failed to its caller. A clean shutdown returns nil.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutting down %s: %v", addr, err)
		}
	}()

	logger.Debug("mcp: serving formflow on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serving %s: %w", addr, err)
}
