package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	evolve "github.com/Inventure71/EvolveProject"
)

// binding pairs a definition with its derived schema.
type binding struct {
	def    Definition
	schema Schema
	tool   evolve.Tool
	source string
}

// Output is the rendered result of one invocation.
type Output struct {
	Content string
	// IsError is set when the tool body failed. Content then holds the
	// failure text shown to the model.
	IsError bool
}

// Registry manages the tools loaded from its sources.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources []Source
	tools   map[string]*binding
	skipped []error
}

// NewRegistry creates a registry over the given sources. It holds no
// tools until Reload is called.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{
		sources: sources,
		tools:   make(map[string]*binding),
	}
}

// AddSource appends a source. It takes effect on the next Reload.
func (r *Registry) AddSource(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, s)
}

// Reload rebuilds the tool table from every source and swaps it in as a
// whole. Sources are read in order; a failing source or an invalid
// definition is skipped with a warning and does not stop the reload. When
// two definitions share a name the first one wins.
//
// Reload only returns an error if ctx is done.
func (r *Registry) Reload(ctx context.Context) error {
	r.mu.RLock()
	sources := make([]Source, len(r.sources))
	copy(sources, r.sources)
	r.mu.RUnlock()

	table := make(map[string]*binding)
	var skipped []error

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		defs, err := src.Definitions(ctx)
		if err != nil {
			slog.Warn("Tool source reported errors", "source", src.Name(), "error", err)
			skipped = append(skipped, fmt.Errorf("source %s: %w", src.Name(), err))
		}

		for _, def := range defs {
			schema, err := SchemaFor(def)
			if err != nil {
				slog.Warn("Skipping tool", "source", src.Name(), "error", err)
				skipped = append(skipped, err)
				continue
			}
			decl, err := schema.Tool()
			if err != nil {
				err = &ErrSchema{Name: def.Name, Reason: err.Error()}
				slog.Warn("Skipping tool", "source", src.Name(), "error", err)
				skipped = append(skipped, err)
				continue
			}
			if existing, ok := table[def.Name]; ok {
				dup := &ErrToolAlreadyRegistered{Name: def.Name, Source: existing.source}
				slog.Warn("Skipping duplicate tool", "source", src.Name(), "error", dup)
				skipped = append(skipped, dup)
				continue
			}
			table[def.Name] = &binding{
				def:    def,
				schema: schema,
				tool:   decl,
				source: src.Name(),
			}
		}
	}

	r.mu.Lock()
	r.tools = table
	r.skipped = skipped
	r.mu.Unlock()

	slog.Debug("Tools reloaded", "count", len(table), "skipped", len(skipped))
	return nil
}

// Skipped returns the diagnostics recorded by the last Reload.
func (r *Registry) Skipped() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]error, len(r.skipped))
	copy(out, r.skipped)
	return out
}

// Get retrieves a definition by tool name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.tools[name]
	if !ok {
		return Definition{}, false
	}
	return b.def, true
}

// Schema retrieves the derived schema of a tool.
func (r *Registry) Schema(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.tools[name]
	if !ok {
		return Schema{}, false
	}
	return b.schema, true
}

// Schemas returns every loaded schema sorted by name.
func (r *Registry) Schemas() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Schema, 0, len(r.tools))
	for _, b := range r.tools {
		out = append(out, b.schema)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SourceOf returns the name of the source that supplied a tool.
func (r *Registry) SourceOf(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.tools[name]; ok {
		return b.source
	}
	return ""
}

// Tools returns the provider declarations of every loaded tool, sorted by
// name. This is what gets advertised to the model.
func (r *Registry) Tools() []evolve.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]evolve.Tool, 0, len(r.tools))
	for _, b := range r.tools {
		tools = append(tools, b.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Names returns the names of all loaded tools, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Invoke calls a tool by name.
//
// Arguments not declared by the tool are dropped and defaults are filled
// in. It fails with ErrToolNotFound for an unknown name and with
// ErrMissingArguments when a required argument is absent. A failing or
// panicking body never returns an error: the failure is rendered into
// Output with IsError set.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (Output, error) {
	r.mu.RLock()
	b, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return Output{}, &ErrToolNotFound{Name: name}
	}

	filtered := make(Args, len(b.def.Params))
	var missing []string
	for _, p := range b.def.Params {
		if v, ok := args[p.Name]; ok {
			filtered[p.Name] = v
			continue
		}
		if p.HasDefault {
			filtered[p.Name] = p.Default
			continue
		}
		missing = append(missing, p.Name)
	}
	if len(missing) > 0 {
		return Output{}, &ErrMissingArguments{Name: name, Missing: missing}
	}

	slog.Info("Executing tool", "tool", name, "source", b.source)
	result, err := call(ctx, b.def.Func, filtered)
	if err != nil {
		execErr := &ErrToolExecution{Name: name, Err: err}
		slog.Warn("Tool failed", "tool", name, "error", err)
		return Output{Content: execErr.Error(), IsError: true}, nil
	}
	return Output{Content: Render(result)}, nil
}

// Execute runs a model tool call and always returns a result. Lookup,
// argument and execution failures are reported in the result with IsError
// set, so the model can react to them.
func (r *Registry) Execute(ctx context.Context, tc evolve.ToolCall) evolve.ToolResult {
	result := evolve.ToolResult{ToolCallID: tc.ID, Name: tc.Name}

	args, err := decodeArguments(tc.Arguments)
	if err != nil {
		result.Content = fmt.Sprintf("Tool '%s' failed: invalid arguments: %v", tc.Name, err)
		result.IsError = true
		return result
	}

	out, err := r.Invoke(ctx, tc.Name, args)
	if err != nil {
		result.Content = err.Error()
		var notFound *ErrToolNotFound
		if errors.As(err, &notFound) {
			result.Content = fmt.Sprintf("Tool '%s' not found.", tc.Name)
		}
		result.IsError = true
		return result
	}

	result.Content = out.Content
	result.IsError = out.IsError
	return result
}

// call runs fn, converting a panic into an error.
func call(ctx context.Context, fn Func, args Args) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx, args)
}

func decodeArguments(raw string) (map[string]any, error) {
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// Render converts a tool return value into display text. Strings are
// returned verbatim and composite values are encoded as JSON.
func Render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val)
	case float32, float64:
		return fmt.Sprint(val)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
