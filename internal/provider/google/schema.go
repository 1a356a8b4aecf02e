package google

import (
	"encoding/json"
	"log/slog"

	"github.com/Inventure71/EvolveProject/schema"
	"google.golang.org/genai"
)

// convertSchema converts a tool parameter schema to a genai Schema.
// An unreadable schema yields nil, which declares a tool without parameters.
func convertSchema(schemaJSON json.RawMessage) *genai.Schema {
	if len(schemaJSON) == 0 {
		return nil
	}

	root, err := schema.Parse(schemaJSON)
	if err != nil {
		slog.Warn("Dropping unreadable tool schema", "error", err)
		return nil
	}
	return convertNode(root)
}

func convertNode(n *schema.Node) *genai.Schema {
	if n == nil {
		return nil
	}

	result := &genai.Schema{
		Type:        schemaType(n.Type),
		Description: n.Description,
		Default:     n.Default,
	}
	if n.Nullable {
		nullable := true
		result.Nullable = &nullable
	}
	for _, e := range n.Enum {
		if s, ok := e.(string); ok {
			result.Enum = append(result.Enum, s)
		}
	}

	if len(n.Properties) > 0 {
		result.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for name, prop := range n.Properties {
			result.Properties[name] = convertNode(prop)
		}
	}
	if len(n.Required) > 0 {
		result.Required = append([]string(nil), n.Required...)
	}
	result.Items = convertNode(n.Items)

	return result
}

func schemaType(t string) genai.Type {
	switch t {
	case schema.TypeString:
		return genai.TypeString
	case schema.TypeNumber:
		return genai.TypeNumber
	case schema.TypeInteger:
		return genai.TypeInteger
	case schema.TypeBoolean:
		return genai.TypeBoolean
	case schema.TypeArray:
		return genai.TypeArray
	case schema.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
