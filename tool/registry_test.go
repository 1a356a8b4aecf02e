package tool

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoDef(name string) Definition {
	return Definition{
		Name: name,
		Doc:  "Echo the input.\n\nArgs:\n    text: what to echo",
		Params: []Param{
			Required("text", "str"),
			Optional("suffix", "str", ""),
		},
		Func: func(ctx context.Context, args Args) (any, error) {
			return args.String("text") + args.String("suffix"), nil
		},
	}
}

func loadedRegistry(t *testing.T, sources ...Source) *Registry {
	t.Helper()
	r := NewRegistry(sources...)
	require.NoError(t, r.Reload(context.Background()))
	return r
}

func TestCatalogRegister(t *testing.T) {
	t.Run("rejects duplicates", func(t *testing.T) {
		c := NewCatalog("builtin")
		require.NoError(t, c.Register(echoDef("echo")))

		err := c.Register(echoDef("echo"))
		var dup *ErrToolAlreadyRegistered
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "echo", dup.Name)
	})

	t.Run("Add panics on duplicate", func(t *testing.T) {
		assert.Panics(t, func() {
			NewCatalog("x").Add(echoDef("a"), echoDef("a"))
		})
	})

	t.Run("preserves registration order", func(t *testing.T) {
		c := NewCatalog("x").Add(echoDef("b"), echoDef("a"))
		defs, err := c.Definitions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "b", defs[0].Name)
		assert.Equal(t, "a", defs[1].Name)
	})
}

func TestRegistryReload(t *testing.T) {
	t.Run("empty until reloaded", func(t *testing.T) {
		r := NewRegistry(NewCatalog("x").Add(echoDef("echo")))
		assert.Equal(t, 0, r.Len())

		require.NoError(t, r.Reload(context.Background()))
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, []string{"echo"}, r.Names())
	})

	t.Run("idempotent", func(t *testing.T) {
		r := loadedRegistry(t, NewCatalog("x").Add(echoDef("b"), echoDef("a")))
		first := r.Schemas()
		firstTools := r.Tools()

		require.NoError(t, r.Reload(context.Background()))
		assert.Equal(t, first, r.Schemas())
		assert.Equal(t, firstTools, r.Tools())
	})

	t.Run("replaces the whole table", func(t *testing.T) {
		defs := []Definition{echoDef("old")}
		src := SourceFunc{SourceName: "dynamic", Fn: func(ctx context.Context) ([]Definition, error) {
			return defs, nil
		}}
		r := loadedRegistry(t, src)
		assert.Equal(t, []string{"old"}, r.Names())

		defs = []Definition{echoDef("new")}
		require.NoError(t, r.Reload(context.Background()))
		assert.Equal(t, []string{"new"}, r.Names())
	})

	t.Run("skips invalid definitions and failing sources", func(t *testing.T) {
		failing := SourceFunc{SourceName: "broken", Fn: func(ctx context.Context) ([]Definition, error) {
			return nil, errors.New("cannot load")
		}}
		partial := SourceFunc{SourceName: "partial", Fn: func(ctx context.Context) ([]Definition, error) {
			return []Definition{echoDef("kept")}, errors.New("one file skipped")
		}}
		c := NewCatalog("x").Add(echoDef("good"), Definition{Name: "no body"})

		r := loadedRegistry(t, failing, c, partial)
		assert.Equal(t, []string{"good", "kept"}, r.Names())
		assert.Len(t, r.Skipped(), 3)
	})

	t.Run("first registration wins on collision", func(t *testing.T) {
		first := NewCatalog("first").Add(Definition{
			Name: "dupe",
			Func: func(ctx context.Context, args Args) (any, error) { return "first", nil },
		})
		second := NewCatalog("second").Add(Definition{
			Name: "dupe",
			Func: func(ctx context.Context, args Args) (any, error) { return "second", nil },
		})

		r := loadedRegistry(t, first, second)
		assert.Equal(t, "first", r.SourceOf("dupe"))

		out, err := r.Invoke(context.Background(), "dupe", nil)
		require.NoError(t, err)
		assert.Equal(t, "first", out.Content)

		var dup *ErrToolAlreadyRegistered
		require.Len(t, r.Skipped(), 1)
		assert.ErrorAs(t, r.Skipped()[0], &dup)
	})

	t.Run("skips defaults that cannot be encoded", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "nan.yaml"), `tools:
  - name: nan_default
    description: Takes a number.
    params:
      - name: x
        type: float
        default: .nan
    command: "echo {{x}}"
`)
		c := NewCatalog("x").Add(echoDef("good"), Definition{
			Name:   "inf_default",
			Params: []Param{Optional("x", "float64", math.Inf(1))},
			Func:   func(ctx context.Context, args Args) (any, error) { return nil, nil },
		})

		r := loadedRegistry(t, c, NewManifestDir(dir))
		assert.Equal(t, []string{"good"}, r.Names())

		require.Len(t, r.Skipped(), 2)
		for _, err := range r.Skipped() {
			var schemaErr *ErrSchema
			assert.ErrorAs(t, err, &schemaErr)
		}
	})

	t.Run("sources added later are picked up", func(t *testing.T) {
		r := loadedRegistry(t)
		r.AddSource(NewCatalog("late").Add(echoDef("late")))
		require.NoError(t, r.Reload(context.Background()))
		assert.Equal(t, []string{"late"}, r.Names())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := NewRegistry(NewCatalog("x").Add(echoDef("echo")))
		assert.ErrorIs(t, r.Reload(ctx), context.Canceled)
	})
}

func TestRegistryInvoke(t *testing.T) {
	r := loadedRegistry(t, NewCatalog("x").Add(
		echoDef("echo"),
		Definition{
			Name: "fail",
			Func: func(ctx context.Context, args Args) (any, error) { return nil, errors.New("disk full") },
		},
		Definition{
			Name: "boom",
			Func: func(ctx context.Context, args Args) (any, error) { panic("kaboom") },
		},
		Definition{
			Name: "sum",
			Params: []Param{
				Typed[float64]("a"),
				Optional("b", "float", 10.0),
			},
			Func: func(ctx context.Context, args Args) (any, error) {
				a, err := args.Float("a")
				if err != nil {
					return nil, err
				}
				b, err := args.Float("b")
				if err != nil {
					return nil, err
				}
				return a + b, nil
			},
		},
		Definition{
			Name: "object",
			Func: func(ctx context.Context, args Args) (any, error) {
				return map[string]int{"count": 2}, nil
			},
		},
	))
	ctx := context.Background()

	t.Run("drops undeclared arguments", func(t *testing.T) {
		out, err := r.Invoke(ctx, "echo", map[string]any{"text": "hi", "hallucinated": true})
		require.NoError(t, err)
		assert.Equal(t, "hi", out.Content)
		assert.False(t, out.IsError)
	})

	t.Run("fills defaults", func(t *testing.T) {
		out, err := r.Invoke(ctx, "sum", map[string]any{"a": 5.0})
		require.NoError(t, err)
		assert.Equal(t, "15", out.Content)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := r.Invoke(ctx, "nope", nil)
		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "nope", notFound.Name)
	})

	t.Run("missing required argument", func(t *testing.T) {
		_, err := r.Invoke(ctx, "echo", map[string]any{"suffix": "!"})
		var missing *ErrMissingArguments
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"text"}, missing.Missing)
	})

	t.Run("tool error becomes text", func(t *testing.T) {
		out, err := r.Invoke(ctx, "fail", nil)
		require.NoError(t, err)
		assert.True(t, out.IsError)
		assert.Equal(t, "Tool 'fail' failed: disk full", out.Content)
	})

	t.Run("panic becomes text", func(t *testing.T) {
		out, err := r.Invoke(ctx, "boom", nil)
		require.NoError(t, err)
		assert.True(t, out.IsError)
		assert.Contains(t, out.Content, "kaboom")
	})

	t.Run("composite results are JSON", func(t *testing.T) {
		out, err := r.Invoke(ctx, "object", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"count": 2}`, out.Content)
	})
}

func TestRegistryExecute(t *testing.T) {
	r := loadedRegistry(t, NewCatalog("x").Add(echoDef("echo")))
	ctx := context.Background()

	tests := []struct {
		name        string
		call        evolve.ToolCall
		wantContent string
		wantError   bool
	}{
		{
			name:        "success",
			call:        evolve.ToolCall{ID: "c1", Name: "echo", Arguments: `{"text":"hello","suffix":"!"}`},
			wantContent: "hello!",
		},
		{
			name:        "not found",
			call:        evolve.ToolCall{ID: "c2", Name: "missing", Arguments: `{}`},
			wantContent: "Tool 'missing' not found.",
			wantError:   true,
		},
		{
			name:        "missing arguments",
			call:        evolve.ToolCall{ID: "c3", Name: "echo"},
			wantContent: "tool: echo missing required arguments: text",
			wantError:   true,
		},
		{
			name:        "invalid json",
			call:        evolve.ToolCall{ID: "c4", Name: "echo", Arguments: `{not json`},
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Execute(ctx, tt.call)
			assert.Equal(t, tt.call.ID, res.ToolCallID)
			assert.Equal(t, tt.call.Name, res.Name)
			assert.Equal(t, tt.wantError, res.IsError)
			if tt.wantContent != "" {
				assert.Equal(t, tt.wantContent, res.Content)
			}
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "text", Render("text"))
	assert.Equal(t, "20", Render(20.0))
	assert.Equal(t, "2.5", Render(2.5))
	assert.Equal(t, "true", Render(true))
	assert.Equal(t, "boom", Render(errors.New("boom")))
	assert.Equal(t, `["a","b"]`, Render([]string{"a", "b"}))
}

func TestArgs(t *testing.T) {
	args := Args{"f": 2.0, "s": "3", "b": "true", "frac": 2.5, "n": nil}

	n, err := args.Int("f")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = args.Int("s")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = args.Int("frac")
	assert.Error(t, err)

	for _, v := range []float64{math.Inf(1), math.Inf(-1), 1e300, -1e300} {
		_, err = Args{"v": v}.Int("v")
		assert.Error(t, err, "%v", v)
	}

	f, err := args.Float("s")
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	assert.True(t, args.Bool("b"))
	assert.Equal(t, "2", args.String("f"))
	assert.Equal(t, "", args.String("n"))
	assert.True(t, args.Has("n"))
	assert.False(t, args.Has("zzz"))
}
