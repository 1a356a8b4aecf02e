package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Inventure71/EvolveProject/tool"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Source loads the tools of a remote MCP server into a tool registry.
// Every call to a loaded tool is forwarded to the server.
type Source struct {
	name   string
	client *client.Client
}

var _ tool.Source = (*Source)(nil)

// NewStdioSource starts command as an MCP server subprocess and connects
// to it over stdio.
func NewStdioSource(ctx context.Context, name, command string, env []string, args ...string) (*Source, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("create MCP client: %w", err)
	}
	return Connect(ctx, name, c)
}

// Connect starts and initializes c and wraps it as a Source.
func Connect(ctx context.Context, name string, c *client.Client) (*Source, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "evolve",
				Version: Version,
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize MCP session: %w", err)
	}

	return &Source{name: name, client: c}, nil
}

// Name returns the source name used in registry logs.
func (s *Source) Name() string { return "mcp:" + s.name }

// Close shuts down the connection.
func (s *Source) Close() error {
	return s.client.Close()
}

// Definitions lists the server's tools. A tool whose input schema cannot be
// read is left out and reported in the joined error.
func (s *Source) Definitions(ctx context.Context) ([]tool.Definition, error) {
	result, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	defs := make([]tool.Definition, 0, len(result.Tools))
	var errs []error
	for _, t := range result.Tools {
		def, err := s.definition(t)
		if err != nil {
			errs = append(errs, &tool.ErrSchema{Name: t.Name, Reason: err.Error()})
			continue
		}
		defs = append(defs, def)
	}
	slog.Debug("Loaded MCP tools", "source", s.Name(), "count", len(defs))
	return defs, errors.Join(errs...)
}

func (s *Source) definition(t mcp.Tool) (tool.Definition, error) {
	params, doc, err := definitionParts(t)
	if err != nil {
		return tool.Definition{}, err
	}

	name := t.Name
	return tool.Definition{
		Name:   name,
		Doc:    doc,
		Params: params,
		Func: func(ctx context.Context, args tool.Args) (any, error) {
			result, err := s.client.CallTool(ctx, mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      name,
					Arguments: callArguments(args),
				},
			})
			if err != nil {
				return nil, err
			}
			text := ResultText(result)
			if result.IsError {
				return nil, errors.New(text)
			}
			return text, nil
		},
	}, nil
}
