// Package tools defines the tool invocation contract: the Tool interface
// every operation implements, the Registry that makes operations addressable
// by name, the uniform Result shape, and parameter extraction across the two
// accepted argument shapes.
package tools

import (
	"context"

	"sentinelmcp/internal/azure"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is one named, self-contained read-only operation exposed through the
// registry. Implementations are stateless and instantiated once at
// registration; Run may be called from many goroutines concurrently.
type Tool interface {
	// Name is the stable identity of the tool, unique across the registry.
	Name() string
	// Definition declares the tool to MCP clients: description and
	// parameter contract.
	Definition() mcp.Tool
	// Run executes the operation. Implementations must turn every failure —
	// bad arguments, missing capabilities, timeouts, backend errors — into
	// an invalid Result rather than letting it escape.
	Run(ctx context.Context, azctx *azure.Context, args map[string]any) *Result
}
