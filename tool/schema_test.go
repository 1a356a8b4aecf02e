package tool

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, args Args) (any, error) { return nil, nil }

func TestMapType(t *testing.T) {
	tests := []struct {
		annotation string
		want       ParamType
		ok         bool
	}{
		{"int", TypeInteger, true},
		{"int64", TypeInteger, true},
		{"uint8", TypeInteger, true},
		{"float", TypeNumber, true},
		{"float64", TypeNumber, true},
		{"str", TypeString, true},
		{"string", TypeString, true},
		{"bool", TypeBoolean, true},
		{"list", TypeArray, true},
		{"[]string", TypeArray, true},
		{"dict", TypeObject, true},
		{"map[string]any", TypeObject, true},
		{"*int", TypeInteger, true},
		{"integer", TypeInteger, true},
		{"", TypeString, false},
		{"complex128", TypeString, false},
		{"SomeStruct", TypeString, false},
	}

	for _, tt := range tests {
		t.Run(tt.annotation, func(t *testing.T) {
			got, ok := MapType(tt.annotation)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTypedParam(t *testing.T) {
	assert.Equal(t, "int", Typed[int]("n").Type)
	assert.Equal(t, "[]string", Typed[[]string]("xs").Type)
	assert.Equal(t, "map[string]interface {}", Typed[map[string]any]("m").Type)

	typ, ok := MapType(Typed[map[string]any]("m").Type)
	assert.True(t, ok)
	assert.Equal(t, TypeObject, typ)
}

func TestSchemaFor(t *testing.T) {
	def := Definition{
		Name: "calculator",
		Doc: `Performs a basic arithmetic operation on two numbers.

		Supports the four basic operations.

		Args:
		    operation (str): One of add, subtract, multiply or divide.
		    number1: The first operand.
		    number2: The second operand,
		        continued on a second line.

		Returns:
		    float: the result`,
		Params: []Param{
			Required("operation", "str"),
			Required("number1", "float"),
			Required("number2", "float"),
			Optional("precision", "int", 2),
		},
		Func: noop,
	}

	s, err := SchemaFor(def)
	require.NoError(t, err)

	assert.Equal(t, "calculator", s.Name)
	assert.Equal(t, "Performs a basic arithmetic operation on two numbers.", s.Description)
	assert.Equal(t, []string{"operation", "number1", "number2"}, s.Required)
	require.Len(t, s.Parameters, 4)

	assert.Equal(t, ParamSchema{Name: "operation", Type: TypeString, Description: "One of add, subtract, multiply or divide."}, s.Parameters[0])
	assert.Equal(t, "The first operand.", s.Parameters[1].Description)
	assert.Equal(t, TypeNumber, s.Parameters[1].Type)
	assert.Equal(t, "The second operand, continued on a second line.", s.Parameters[2].Description)
	assert.Equal(t, "Parameter 'precision'", s.Parameters[3].Description)
	assert.Equal(t, TypeInteger, s.Parameters[3].Type)
}

func TestSchemaForRequiredEqualsParamsWithoutDefaults(t *testing.T) {
	def := Definition{
		Name: "mixed",
		Params: []Param{
			Optional("a", "int", 1),
			Required("b", "str"),
			Optional("c", "bool", false),
			Required("d", "list"),
		},
		Func: noop,
	}

	s, err := SchemaFor(def)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, s.Required)
}

func TestSchemaForUnannotatedDefaultsToString(t *testing.T) {
	s, err := SchemaFor(Definition{Name: "t", Params: []Param{{Name: "x"}}, Func: noop})
	require.NoError(t, err)
	assert.Equal(t, TypeString, s.Parameters[0].Type)
	assert.Equal(t, []string{"x"}, s.Required)
}

func TestSchemaForNoDoc(t *testing.T) {
	s, err := SchemaFor(Definition{Name: "t", Func: noop})
	require.NoError(t, err)
	assert.Empty(t, s.Description)
	assert.Empty(t, s.Parameters)
	assert.Equal(t, []string{}, s.Required)
}

func TestSchemaForDocStartingWithArgs(t *testing.T) {
	s, err := SchemaFor(Definition{
		Name:   "t",
		Doc:    "Args:\n    x: the x",
		Params: []Param{Required("x", "int")},
		Func:   noop,
	})
	require.NoError(t, err)
	assert.Empty(t, s.Description)
	assert.Equal(t, "the x", s.Parameters[0].Description)
}

func TestSchemaForInvalid(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"empty name", Definition{Func: noop}},
		{"bad name", Definition{Name: "has space", Func: noop}},
		{"nil func", Definition{Name: "t"}},
		{"duplicate param", Definition{Name: "t", Params: []Param{Required("a", "int"), Required("a", "str")}, Func: noop}},
		{"bad param name", Definition{Name: "t", Params: []Param{Required("1a", "int")}, Func: noop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SchemaFor(tt.def)
			var schemaErr *ErrSchema
			assert.ErrorAs(t, err, &schemaErr)
		})
	}
}

func TestSchemaJSON(t *testing.T) {
	s, err := SchemaFor(Definition{
		Name:   "t",
		Doc:    "Do a thing.\n\nArgs:\n    items: things",
		Params: []Param{Required("items", "list"), Optional("n", "int", 3)},
		Func:   noop,
	})
	require.NoError(t, err)

	raw, err := s.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, []any{"items"}, decoded["required"])

	props := decoded["properties"].(map[string]any)
	items := props["items"].(map[string]any)
	assert.Equal(t, "array", items["type"])
	assert.Equal(t, "things", items["description"])
	assert.Equal(t, map[string]any{"type": "string"}, items["items"])

	n := props["n"].(map[string]any)
	assert.Equal(t, "integer", n["type"])
	assert.Equal(t, float64(3), n["default"])
	assert.NotContains(t, items, "default")

	tool, err := s.Tool()
	require.NoError(t, err)
	assert.Equal(t, "t", tool.Name)
	assert.Equal(t, "Do a thing.", tool.Description)
	assert.JSONEq(t, string(raw), string(tool.Parameters))
}

func TestSchemaForUnencodableDefault(t *testing.T) {
	_, err := SchemaFor(Definition{
		Name:   "t",
		Params: []Param{Optional("x", "float64", math.Inf(1))},
		Func:   noop,
	})
	var schemaErr *ErrSchema
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "t", schemaErr.Name)
}
