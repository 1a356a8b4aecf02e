package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Func is the body of a tool. Args holds only declared parameters, with
// defaults filled in. The returned value is rendered to text for the model.
type Func func(ctx context.Context, args Args) (any, error)

// Param declares one tool parameter.
type Param struct {
	Name string
	// Type is a type annotation: a Go kind ("int", "float64", "[]string",
	// "map[string]any"), a JSON Schema type ("integer", "array") or a short
	// alias ("str", "list", "dict"). Empty means unannotated.
	Type string
	// Default is used when the model omits the argument. Only meaningful
	// when HasDefault is set.
	Default    any
	HasDefault bool
}

// Required declares a parameter without a default.
func Required(name, typ string) Param {
	return Param{Name: name, Type: typ}
}

// Optional declares a parameter with a default value.
func Optional(name, typ string, def any) Param {
	return Param{Name: name, Type: typ, Default: def, HasDefault: true}
}

// Typed declares a required parameter annotated with T's Go type.
func Typed[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T]().String()}
}

// Definition is a tool declaration paired with its body.
type Definition struct {
	Name string
	// Doc is the tool documentation. The first paragraph becomes the
	// description; an "Args:" section describes parameters.
	Doc    string
	Params []Param
	Func   Func
}

// Args are the decoded arguments passed to a Func.
type Args map[string]any

// Has reports whether name is present.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the argument as a string. Non-string values are formatted.
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns the argument as a float64, parsing strings when needed.
func (a Args) Float(name string) (float64, error) {
	switch v := a[name].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("argument %s: %q is not a number", name, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %s: expected number, got %T", name, v)
	}
}

// Int returns the argument as an int. Whole floats are accepted since JSON
// numbers decode as float64.
func (a Args) Int(name string) (int, error) {
	if s, ok := a[name].(string); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("argument %s: %q is not an integer", name, s)
		}
		return n, nil
	}
	f, err := a.Float(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("argument %s: %v is not an integer", name, f)
	}
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, fmt.Errorf("argument %s: %v is out of range", name, f)
	}
	return int(f), nil
}

// Bool returns the argument as a bool. Strings such as "true" are parsed.
func (a Args) Bool(name string) bool {
	switch v := a[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}
