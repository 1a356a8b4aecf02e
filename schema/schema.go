package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
)

// JSON Schema primitive type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Node is one schema in the supported subset.
type Node struct {
	Type        string
	Description string
	Enum        []any
	// Default is advertised to the model. Nil means no default.
	Default any
	// Nullable is set when the type keyword also admits null.
	Nullable bool

	Items *Node

	// Properties and Required apply to objects. Required keeps insertion
	// order.
	Properties map[string]*Node
	Required   []string
}

// Sentinel errors for schema validation.
var (
	// ErrNilItems is returned when an array has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")

	// ErrUnknownRequired is returned when a required name has no property.
	ErrUnknownRequired = errors.New("schema: required property is not defined")

	// ErrNotObject is returned when a tool schema is not an object.
	ErrNotObject = errors.New("schema: tool parameters must be an object")
)

// ValidationError represents a schema validation failure.
type ValidationError struct {
	Field   string // The property name (for objects)
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the node and its children for internal consistency.
func (n *Node) Validate() error {
	switch n.Type {
	case TypeArray:
		if n.Items == nil {
			return &ValidationError{Message: "array requires items schema", Err: ErrNilItems}
		}
		if err := n.Items.Validate(); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid items schema: %v", err), Err: err}
		}
	case TypeObject:
		for _, name := range n.Required {
			if _, ok := n.Properties[name]; !ok {
				return &ValidationError{Field: name, Message: "listed as required but not defined", Err: ErrUnknownRequired}
			}
		}
		for _, name := range n.Names() {
			if err := n.Properties[name].Validate(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

// Names returns the property names, sorted.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether name is a required property.
func (n *Node) IsRequired(name string) bool {
	return slices.Contains(n.Required, name)
}

// Build validates the node and serializes it.
func (n *Node) Build() (json.RawMessage, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// MustBuild is like Build but panics on error.
func (n *Node) MustBuild() json.RawMessage {
	data, err := n.Build()
	if err != nil {
		panic(err)
	}
	return data
}

// MarshalJSON writes the node as JSON Schema. Objects always carry a
// properties member, even when empty.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 7)
	switch {
	case n.Type != "" && n.Nullable:
		out["type"] = []string{n.Type, "null"}
	case n.Type != "":
		out["type"] = n.Type
	}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if len(n.Enum) > 0 {
		out["enum"] = n.Enum
	}
	if n.Default != nil {
		out["default"] = n.Default
	}
	if n.Items != nil {
		out["items"] = n.Items
	}
	if n.Type == TypeObject {
		props := n.Properties
		if props == nil {
			props = map[string]*Node{}
		}
		out["properties"] = props
		if len(n.Required) > 0 {
			out["required"] = n.Required
		}
	}
	return json.Marshal(out)
}

type wireNode struct {
	Type        json.RawMessage  `json:"type"`
	Description string           `json:"description"`
	Enum        []any            `json:"enum"`
	Default     any              `json:"default"`
	Items       *Node            `json:"items"`
	Properties  map[string]*Node `json:"properties"`
	Required    []string         `json:"required"`
}

// UnmarshalJSON reads a JSON Schema document, keeping the supported keywords.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node{
		Description: w.Description,
		Enum:        w.Enum,
		Default:     w.Default,
		Items:       w.Items,
		Properties:  w.Properties,
		Required:    w.Required,
	}
	if len(w.Type) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(w.Type, &single); err == nil {
		n.Type = single
		return nil
	}
	var union []string
	if err := json.Unmarshal(w.Type, &union); err != nil {
		return fmt.Errorf("schema: type must be a string or a list of strings: %w", err)
	}
	for _, t := range union {
		if t == "null" {
			n.Nullable = true
			continue
		}
		if n.Type == "" {
			n.Type = t
		}
	}
	return nil
}

// Parse decodes a tool parameter schema. The root must be an object or
// untyped; an empty document yields an empty object.
func Parse(raw json.RawMessage) (*Node, error) {
	if len(raw) == 0 {
		return Object(), nil
	}
	var n Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	switch n.Type {
	case "":
		n.Type = TypeObject
	case TypeObject:
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("root type is %q", n.Type), Err: ErrNotObject}
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}
