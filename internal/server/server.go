// Package server assembles the MCP server: it binds the discovered tool
// registry and the capability context to a transport and runs it.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/config"
	"sentinelmcp/internal/tools"
	"sentinelmcp/pkg/logging"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server hosts the tool registry over an MCP transport.
type Server struct {
	cfg      config.Config
	registry *tools.Registry
	azctx    *azure.Context
	version  string
}

// New creates a server for an already-discovered registry. The registry and
// capability context are immutable from here on; all steady-state access is
// read-only.
func New(cfg config.Config, registry *tools.Registry, azctx *azure.Context, version string) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		azctx:    azctx,
		version:  version,
	}
}

// Run serves until the transport ends (stdio EOF) or the context is
// cancelled (SSE).
func (s *Server) Run(ctx context.Context) error {
	mcpServer := mcpserver.NewMCPServer(
		"sentinelmcp",
		s.version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	mcpServer.AddTools(s.registry.ServerTools(s.azctx)...)

	logging.Info("Server", "Serving %d tools over %s", s.registry.Len(), s.cfg.Server.Transport)

	switch s.cfg.Server.Transport {
	case config.TransportSSE:
		return s.runSSE(ctx, mcpServer)
	case config.TransportStdio, "":
		return mcpserver.ServeStdio(mcpServer)
	default:
		return fmt.Errorf("unknown transport %q (expected %q or %q)",
			s.cfg.Server.Transport, config.TransportStdio, config.TransportSSE)
	}
}

func (s *Server) runSSE(ctx context.Context, mcpServer *mcpserver.MCPServer) error {
	baseURL := fmt.Sprintf("http://%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	sseServer := mcpserver.NewSSEServer(
		mcpServer,
		mcpserver.WithBaseURL(baseURL),
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/message"),
		mcpserver.WithKeepAlive(true),
		mcpserver.WithKeepAliveInterval(30*time.Second),
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	logging.Info("Server", "SSE endpoint available at %s/sse", baseURL)

	errCh := make(chan error, 1)
	go func() {
		if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("SSE server error: %w", err)
	case <-ctx.Done():
	}

	logging.Info("Server", "Shutting down SSE server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server", err, "Error shutting down SSE server")
	}
	return nil
}
