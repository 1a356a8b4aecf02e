package mcp

import (
	"context"
	"encoding/json"
	"testing"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/schema"
	"github.com/Inventure71/EvolveProject/tool"
	"github.com/Inventure71/EvolveProject/tool/builtin"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	greet := tool.NewCatalog("test").Add(tool.Definition{
		Name: "greet",
		Doc: `Greet someone.

Args:
    name: Who to greet.
    greeting: Word to use.`,
		Params: []tool.Param{
			tool.Required("name", "str"),
			tool.Optional("greeting", "str", "Hello"),
		},
		Func: func(ctx context.Context, args tool.Args) (any, error) {
			return args.String("greeting") + ", " + args.String("name") + "!", nil
		},
	})
	registry := tool.NewRegistry(builtin.Catalog(builtin.Config{WorkDir: t.TempDir()}), greet)
	require.NoError(t, registry.Reload(context.Background()))
	return registry
}

func startClient(t *testing.T, registry *tool.Registry) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer(registry, WithName("test-server")))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	return c
}

func TestToMCPTool(t *testing.T) {
	params := json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`)
	mcpTool := ToMCPTool(evolve.Tool{Name: "greet", Description: "Greet someone", Parameters: params})

	assert.Equal(t, "greet", mcpTool.Name)
	assert.Equal(t, "Greet someone", mcpTool.Description)
	assert.Equal(t, params, mcpTool.RawInputSchema)
}

func TestDefinitionParts(t *testing.T) {
	t.Run("structured schema", func(t *testing.T) {
		mcpTool := mcp.NewTool("search",
			mcp.WithDescription("Search the web"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithNumber("limit", mcp.Description("Max results")),
		)

		params, doc, err := definitionParts(mcpTool)
		require.NoError(t, err)

		require.Len(t, params, 2)
		assert.Equal(t, "limit", params[0].Name)
		assert.True(t, params[0].HasDefault)
		assert.Equal(t, "query", params[1].Name)
		assert.False(t, params[1].HasDefault)

		derived, err := tool.SchemaFor(tool.Definition{
			Name:   "search",
			Doc:    doc,
			Params: params,
			Func:   func(context.Context, tool.Args) (any, error) { return nil, nil },
		})
		require.NoError(t, err)
		assert.Equal(t, "Search the web", derived.Description)
		assert.Equal(t, []string{"query"}, derived.Required)
		require.Len(t, derived.Parameters, 2)
		assert.Equal(t, tool.TypeNumber, derived.Parameters[0].Type)
		assert.Equal(t, "Max results", derived.Parameters[0].Description)
		assert.Equal(t, "Search query", derived.Parameters[1].Description)
	})

	t.Run("raw schema", func(t *testing.T) {
		mcpTool := mcp.NewToolWithRawSchema("raw", "Raw tool",
			json.RawMessage(`{"type":"object","properties":{"flag":{"type":"boolean"}},"required":["flag"]}`))

		params, doc, err := definitionParts(mcpTool)
		require.NoError(t, err)
		assert.Equal(t, "Raw tool", doc)
		require.Len(t, params, 1)
		assert.Equal(t, "flag", params[0].Name)
	})

	t.Run("remote default", func(t *testing.T) {
		mcpTool := mcp.NewToolWithRawSchema("page", "Fetch a page",
			json.RawMessage(`{"type":"object","properties":{"n":{"type":"integer","default":2}}}`))

		params, _, err := definitionParts(mcpTool)
		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.True(t, params[0].HasDefault)
		assert.Equal(t, float64(2), params[0].Default)
	})

	t.Run("non-object schema", func(t *testing.T) {
		_, _, err := definitionParts(mcp.NewToolWithRawSchema("bad", "", json.RawMessage(`{"type":"string"}`)))
		assert.ErrorIs(t, err, schema.ErrNotObject)
	})

	t.Run("invalid raw schema", func(t *testing.T) {
		_, _, err := definitionParts(mcp.NewToolWithRawSchema("bad", "", json.RawMessage(`[`)))
		assert.Error(t, err)
	})
}

func TestResultText(t *testing.T) {
	assert.Equal(t, "", ResultText(nil))
	assert.Equal(t, "hello", ResultText(mcp.NewToolResultText("hello")))

	res := mcp.NewToolResultError("boom")
	assert.Equal(t, "boom", ResultText(res))
	assert.True(t, res.IsError)
}

func TestServer(t *testing.T) {
	c := startClient(t, testRegistry(t))
	ctx := context.Background()

	t.Run("lists every registry tool", func(t *testing.T) {
		result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		require.NoError(t, err)

		names := make([]string, len(result.Tools))
		for i, tl := range result.Tools {
			names[i] = tl.Name
		}
		assert.Contains(t, names, "calculator")
		assert.Contains(t, names, "greet")
	})

	t.Run("applies defaults", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "greet", Arguments: map[string]any{"name": "World"}},
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "Hello, World!", ResultText(result))
	})

	t.Run("reports missing arguments as tool errors", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "greet", Arguments: map[string]any{}},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, ResultText(result), "name")
	})

	t.Run("reports tool failures", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "calculator", Arguments: map[string]any{
				"operation": "divide", "number1": 1, "number2": 0,
			}},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, ResultText(result), "division by zero")
	})
}

func TestSource(t *testing.T) {
	inner, err := client.NewInProcessClient(NewServer(testRegistry(t)))
	require.NoError(t, err)

	ctx := context.Background()
	src, err := Connect(ctx, "remote", inner)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "mcp:remote", src.Name())

	registry := tool.NewRegistry(src)
	require.NoError(t, registry.Reload(ctx))
	assert.Contains(t, registry.Names(), "calculator")
	assert.Equal(t, "mcp:remote", registry.SourceOf("calculator"))

	t.Run("forwards calls", func(t *testing.T) {
		out, err := registry.Invoke(ctx, "calculator", map[string]any{
			"operation": "multiply", "number1": 5.0, "number2": 4.0,
		})
		require.NoError(t, err)
		assert.Equal(t, "20", out.Content)
		assert.False(t, out.IsError)
	})

	t.Run("omits unset optional arguments", func(t *testing.T) {
		out, err := registry.Invoke(ctx, "greet", map[string]any{"name": "Ada"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Ada!", out.Content)
	})

	t.Run("remote errors become error output", func(t *testing.T) {
		out, err := registry.Invoke(ctx, "calculator", map[string]any{
			"operation": "divide", "number1": 1.0, "number2": 0.0,
		})
		require.NoError(t, err)
		assert.True(t, out.IsError)
		assert.Contains(t, out.Content, "division by zero")
	})

	t.Run("required arguments are enforced locally", func(t *testing.T) {
		_, err := registry.Invoke(ctx, "calculator", map[string]any{"operation": "add"})
		var missing *tool.ErrMissingArguments
		assert.ErrorAs(t, err, &missing)
	})
}
