package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"sentinelmcp/internal/azure"
	"sentinelmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ErrDuplicateTool indicates two providers tried to register the same tool
// name. Unlike other registration failures this one is fatal: silently
// shadowing one tool with another is an unrecoverable configuration error.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Provider is the registration entry point of one operation source. It is
// called exactly once during discovery, must not perform blocking I/O, and
// only registers metadata and handlers.
type Provider func(*Registry) error

// Registry holds the callable tool surface. It is built once at startup,
// before concurrent dispatch begins, and is read-only afterwards, so
// steady-state access needs no locking.
type Registry struct {
	byName map[string]Tool
	order  []string
}

// Discover builds a registry by running each provider once. A provider that
// returns an error or panics is skipped — its tools are rolled back and the
// failure logged — so one broken operation cannot keep the rest of the
// catalogue from loading. The exception is a duplicate tool name, which
// fails discovery outright.
func Discover(providers []Provider) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool)}

	for i, provider := range providers {
		if err := r.runProvider(provider); err != nil {
			if errors.Is(err, ErrDuplicateTool) {
				return nil, err
			}
			logging.Error("Registry", err, "Skipping tool provider %d", i)
		}
	}

	logging.Info("Registry", "Discovered %d tools", len(r.order))
	return r, nil
}

// runProvider executes one provider, recovering panics and rolling back any
// tools it registered before failing.
func (r *Registry) runProvider(provider Provider) (err error) {
	before := len(r.order)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool provider panicked: %v", rec)
		}
		if err != nil && !errors.Is(err, ErrDuplicateTool) {
			for _, name := range r.order[before:] {
				delete(r.byName, name)
			}
			r.order = r.order[:before]
		}
	}()

	return provider(r)
}

// Register adds one tool. Duplicate names fail with ErrDuplicateTool.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool registered with empty name")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}

	r.byName[name] = t
	r.order = append(r.order, name)
	logging.Debug("Registry", "Registered tool %s", name)
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Dispatch runs the named tool with the raw invocation arguments. An unknown
// name comes back as a structured invalid result, never a fault.
func (r *Registry) Dispatch(ctx context.Context, azctx *azure.Context, name string, args map[string]any) *Result {
	tool, ok := r.byName[name]
	if !ok {
		return Fail("Unknown tool: %s", name)
	}
	return tool.Run(ctx, azctx, Normalize(args))
}

// ServerTools wraps every registered tool into an MCP server tool whose
// handler dispatches through the registry with the shared capability context.
func (r *Registry) ServerTools(azctx *azure.Context) []server.ServerTool {
	serverTools := make([]server.ServerTool, 0, len(r.order))

	for _, name := range r.order {
		tool := r.byName[name]
		toolName := name

		serverTools = append(serverTools, server.ServerTool{
			Tool: tool.Definition(),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := map[string]any{}
				if req.Params.Arguments != nil {
					if m, ok := req.Params.Arguments.(map[string]any); ok {
						args = m
					}
				}
				return r.Dispatch(ctx, azctx, toolName, args).MCP(), nil
			},
		})
	}

	return serverTools
}
