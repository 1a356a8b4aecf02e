package tool

import (
	"context"
	"sync"
)

// Source supplies tool definitions to a Registry. Definitions is called on
// every reload and must return a fresh view of the source.
//
// A source may return definitions together with an error describing the
// parts it had to skip; the registry keeps the definitions and logs the
// error.
type Source interface {
	Name() string
	Definitions(ctx context.Context) ([]Definition, error)
}

// Catalog is an in-memory Source of explicitly registered tools.
// It is safe for concurrent use.
type Catalog struct {
	name string

	mu    sync.RWMutex
	defs  []Definition
	index map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog(name string) *Catalog {
	return &Catalog{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Register adds a definition. Returns an error if a tool with the same
// name is already registered.
func (c *Catalog) Register(def Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[def.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: def.Name, Source: c.name}
	}
	c.index[def.Name] = len(c.defs)
	c.defs = append(c.defs, def)
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(def Definition) {
	if err := c.Register(def); err != nil {
		panic(err)
	}
}

// Add registers definitions and returns the catalog for chaining.
// Panics if any tool is already registered.
func (c *Catalog) Add(defs ...Definition) *Catalog {
	for _, def := range defs {
		c.MustRegister(def)
	}
	return c
}

// Definitions returns the registered definitions in registration order.
func (c *Catalog) Definitions(ctx context.Context) ([]Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out, nil
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context) ([]Definition, error)
}

// Name returns the source name.
func (s SourceFunc) Name() string { return s.SourceName }

// Definitions calls Fn.
func (s SourceFunc) Definitions(ctx context.Context) ([]Definition, error) {
	return s.Fn(ctx)
}
