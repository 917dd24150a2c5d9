package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/config"
	"sentinelmcp/internal/operations"
	"sentinelmcp/internal/server"
	"sentinelmcp/internal/tools"
	"sentinelmcp/pkg/logging"

	"github.com/spf13/cobra"
)

// serveTransport overrides the configured transport when set.
var serveTransport string

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveLogFormat overrides the configured log format ("text" or "json").
var serveLogFormat string

// serveCmd starts the MCP server. This is the main command of sentinelmcp.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Sentinel MCP server",
	Long: `Starts the MCP server exposing the Sentinel query tool catalogue.

Two transports are supported:

1. stdio (default):
   - Speaks MCP over stdin/stdout, for clients that spawn the server as a
     subprocess (Claude Desktop, Cursor, ...). Logs go to stderr.

2. sse (using --transport sse):
   - Serves an HTTP SSE endpoint on the configured host and port for clients
     that connect over the network.

Configuration:
  sentinelmcp loads configuration from ~/.config/sentinelmcp/config.yaml and
  ./.sentinelmcp/config.yaml, with AZURE_* environment variables taking
  precedence. Azure credentials are resolved once at startup through the
  default credential chain (CLI login, managed identity, environment).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if serveLogFormat != "" {
		cfg.Logging.Format = serveLogFormat
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if serveDebug {
		level = logging.LevelDebug
	}
	// Stdout carries the MCP protocol stream in stdio mode, so logs always
	// go to stderr.
	logging.Init(level, cfg.Logging.Format, os.Stderr)

	azctx := azure.NewContext(cfg)

	registry, err := tools.Discover(operations.Providers(cfg))
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, registry, azctx, rootCmd.Version).Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport to use: stdio or sse (overrides config)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format: text or json (overrides config)")
}
