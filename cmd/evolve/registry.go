package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Inventure71/EvolveProject/internal/config"
	"github.com/Inventure71/EvolveProject/mcp"
	"github.com/Inventure71/EvolveProject/tool"
	"github.com/Inventure71/EvolveProject/tool/builtin"
)

// buildRegistry assembles the builtin tools, the manifest directory and
// any configured MCP servers into one loaded registry. The returned closer
// shuts down MCP subprocesses.
func buildRegistry(ctx context.Context, c *config.Config) (*tool.Registry, io.Closer, error) {
	sources := []tool.Source{builtin.Catalog(c.BuiltinConfig())}
	if dir := c.ManifestPath(); dir != "" {
		sources = append(sources, tool.NewManifestDir(dir))
	}

	var remote closers
	for _, s := range c.MCP.Servers {
		src, err := mcp.NewStdioSource(ctx, s.Name, s.Command, s.Env, s.Args...)
		if err != nil {
			remote.Close()
			return nil, nil, fmt.Errorf("mcp server %s: %w", s.Name, err)
		}
		remote = append(remote, src)
		sources = append(sources, src)
	}

	registry := tool.NewRegistry(sources...)
	if err := registry.Reload(ctx); err != nil {
		remote.Close()
		return nil, nil, err
	}
	for _, err := range registry.Skipped() {
		slog.Warn("Tool unavailable", "error", err)
	}
	slog.Debug("Registry ready", "tools", registry.Len(), "sources", len(sources))
	return registry, remote, nil
}

type closers []io.Closer

func (cs closers) Close() error {
	var errs []error
	for _, c := range cs {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
