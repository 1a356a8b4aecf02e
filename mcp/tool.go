// Package mcp connects the tool registry to the Model Context Protocol.
//
// The integration works both ways:
//
//   - Server: expose a [tool.Registry] over MCP so that any MCP client can
//     list and call the agent's tools.
//   - Source: connect to an MCP server and load its tools into a registry
//     next to the builtin and manifest tools.
//
// # Exposing Tools
//
//	registry := tool.NewRegistry(builtin.Catalog(builtin.Config{}))
//	if err := registry.Reload(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming Servers
//
//	src, err := mcp.NewStdioSource(ctx, "files", "./files-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
//	registry := tool.NewRegistry(builtin.Catalog(cfg), src)
package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/schema"
	"github.com/Inventure71/EvolveProject/tool"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCPTool converts a tool declaration to an MCP Tool.
// Parameters is used verbatim as the raw input schema.
func ToMCPTool(t evolve.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// definitionParts derives the parameter list and a doc string from an MCP
// tool's input schema. The doc carries the parameter descriptions in an
// Args section so that schema derivation recovers them.
func definitionParts(t mcp.Tool) ([]tool.Param, string, error) {
	raw := t.RawInputSchema
	if len(raw) == 0 {
		data, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, "", fmt.Errorf("encode input schema: %w", err)
		}
		raw = data
	}

	root, err := schema.Parse(raw)
	if err != nil {
		return nil, "", err
	}

	names := root.Names()
	params := make([]tool.Param, 0, len(names))
	var args strings.Builder
	for _, name := range names {
		prop := root.Properties[name]
		if root.IsRequired(name) {
			params = append(params, tool.Required(name, prop.Type))
		} else {
			params = append(params, tool.Optional(name, prop.Type, prop.Default))
		}
		if prop.Description != "" {
			fmt.Fprintf(&args, "    %s: %s\n", name, strings.ReplaceAll(prop.Description, "\n", " "))
		}
	}

	doc := strings.TrimSpace(t.Description)
	if args.Len() > 0 {
		doc += "\n\nArgs:\n" + args.String()
	}
	return params, doc, nil
}

// callArguments drops unset optional parameters before a remote call.
func callArguments(args tool.Args) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// ResultText flattens a tool result into text. Non-text content and
// structured content are rendered as JSON.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	return strings.Join(parts, "\n")
}

// ToMCPResult converts a registry output to an MCP result.
func ToMCPResult(out tool.Output) *mcp.CallToolResult {
	if out.IsError {
		return mcp.NewToolResultError(out.Content)
	}
	return mcp.NewToolResultText(out.Content)
}
