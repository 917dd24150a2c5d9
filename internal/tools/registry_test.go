package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sentinelmcp/internal/azure"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool records the arguments it last ran with.
type fakeTool struct {
	name     string
	lastArgs map[string]any
}

func (f *fakeTool) Name() string { return f.name }

func (f *fakeTool) Definition() mcp.Tool {
	return mcp.NewTool(f.name, mcp.WithDescription("test tool "+f.name))
}

func (f *fakeTool) Run(ctx context.Context, azctx *azure.Context, args map[string]any) *Result {
	f.lastArgs = args
	r := NewResult()
	r.Message = f.name + " ran"
	return r
}

func providerFor(tools ...Tool) Provider {
	return func(r *Registry) error {
		for _, t := range tools {
			if err := r.Register(t); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestDiscoverRegistersAllProviders(t *testing.T) {
	registry, err := Discover([]Provider{
		providerFor(&fakeTool{name: "alpha"}),
		providerFor(&fakeTool{name: "beta"}, &fakeTool{name: "gamma"}),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, registry.Len())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, registry.Names())

	_, ok := registry.Get("beta")
	assert.True(t, ok)
	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestDiscoverSkipsFailingProvider(t *testing.T) {
	registry, err := Discover([]Provider{
		providerFor(&fakeTool{name: "alpha"}),
		func(r *Registry) error { return fmt.Errorf("backend unavailable") },
		providerFor(&fakeTool{name: "beta"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, registry.Names())
}

func TestDiscoverSkipsPanickingProvider(t *testing.T) {
	registry, err := Discover([]Provider{
		func(r *Registry) error { panic("bad wiring") },
		providerFor(&fakeTool{name: "alpha"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha"}, registry.Names())
}

func TestDiscoverRollsBackPartialRegistration(t *testing.T) {
	// A provider that registers a tool and then fails must not leave the
	// half-registered tool behind.
	registry, err := Discover([]Provider{
		func(r *Registry) error {
			if err := r.Register(&fakeTool{name: "orphan"}); err != nil {
				return err
			}
			return fmt.Errorf("second registration failed")
		},
		providerFor(&fakeTool{name: "alpha"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha"}, registry.Names())
	_, ok := registry.Get("orphan")
	assert.False(t, ok)
}

func TestDiscoverDuplicateNameIsFatal(t *testing.T) {
	_, err := Discover([]Provider{
		providerFor(&fakeTool{name: "alpha"}),
		providerFor(&fakeTool{name: "alpha"}),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Contains(t, err.Error(), "alpha")
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	registry, err := Discover(nil)
	require.NoError(t, err)

	err = registry.Register(&fakeTool{name: ""})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicateTool))
}

func TestDispatchUnknownTool(t *testing.T) {
	registry, err := Discover(nil)
	require.NoError(t, err)

	result := registry.Dispatch(context.Background(), nil, "nope", nil)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "Unknown tool: nope")
}

func TestDispatchNormalizesArguments(t *testing.T) {
	tool := &fakeTool{name: "alpha"}
	registry, err := Discover([]Provider{providerFor(tool)})
	require.NoError(t, err)

	inner := map[string]any{"query": "SecurityEvent"}
	result := registry.Dispatch(context.Background(), nil, "alpha", map[string]any{"kwargs": inner})

	assert.True(t, result.Valid)
	assert.Equal(t, inner, tool.lastArgs)
}

func TestServerToolsWrapEveryTool(t *testing.T) {
	registry, err := Discover([]Provider{
		providerFor(&fakeTool{name: "alpha"}, &fakeTool{name: "beta"}),
	})
	require.NoError(t, err)

	serverTools := registry.ServerTools(nil)
	require.Len(t, serverTools, 2)
	assert.Equal(t, "alpha", serverTools[0].Tool.Name)
	assert.Equal(t, "beta", serverTools[1].Tool.Name)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"query": "Heartbeat"}
	out, err := serverTools[0].Handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, out.IsError)
}
