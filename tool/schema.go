package tool

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/schema"
)

// ParamType is a JSON Schema primitive type.
type ParamType string

const (
	TypeString  ParamType = schema.TypeString
	TypeInteger ParamType = schema.TypeInteger
	TypeNumber  ParamType = schema.TypeNumber
	TypeBoolean ParamType = schema.TypeBoolean
	TypeArray   ParamType = schema.TypeArray
	TypeObject  ParamType = schema.TypeObject
)

// ParamSchema describes one parameter of a tool.
type ParamSchema struct {
	Name        string
	Type        ParamType
	Description string
	// Default is the value used when the argument is omitted. It is nil for
	// required parameters.
	Default any
}

// Schema is the derived, immutable description of one tool.
type Schema struct {
	Name        string
	Description string
	// Parameters are in declaration order.
	Parameters []ParamSchema
	// Required lists parameters without a default, in declaration order.
	Required []string
}

// validName matches names every supported provider accepts.
var validName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.-]{0,63}$`)

// SchemaFor derives the schema of a definition.
func SchemaFor(def Definition) (Schema, error) {
	if !validName.MatchString(def.Name) {
		return Schema{}, &ErrSchema{Name: def.Name, Reason: "name must match " + validName.String()}
	}
	if def.Func == nil {
		return Schema{}, &ErrSchema{Name: def.Name, Reason: "missing function body"}
	}

	desc, argDocs := parseDoc(def.Doc)
	s := Schema{
		Name:        def.Name,
		Description: desc,
		Parameters:  make([]ParamSchema, 0, len(def.Params)),
		Required:    []string{},
	}

	seen := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		if !validName.MatchString(p.Name) {
			return Schema{}, &ErrSchema{Name: def.Name, Reason: "invalid parameter name " + strconv.Quote(p.Name)}
		}
		if seen[p.Name] {
			return Schema{}, &ErrSchema{Name: def.Name, Reason: "duplicate parameter " + strconv.Quote(p.Name)}
		}
		seen[p.Name] = true

		typ, ok := MapType(p.Type)
		if !ok {
			slog.Warn("Unsupported parameter type, defaulting to string",
				"tool", def.Name,
				"param", p.Name,
				"type", p.Type)
		}

		pdesc := argDocs[p.Name]
		if pdesc == "" {
			pdesc = "Parameter '" + p.Name + "'"
		}

		ps := ParamSchema{Name: p.Name, Type: typ, Description: pdesc}
		if p.HasDefault {
			ps.Default = p.Default
		}
		s.Parameters = append(s.Parameters, ps)
		if !p.HasDefault {
			s.Required = append(s.Required, p.Name)
		}
	}
	if _, err := s.JSON(); err != nil {
		return Schema{}, &ErrSchema{Name: def.Name, Reason: err.Error()}
	}
	return s, nil
}

// MapType maps a type annotation to its JSON Schema type. The second result
// is false when the annotation is missing or unsupported, in which case the
// type is string.
func MapType(annotation string) (ParamType, bool) {
	t := strings.TrimSpace(annotation)
	t = strings.TrimPrefix(t, "*")

	switch {
	case t == "":
		return TypeString, false
	case strings.HasPrefix(t, "[]"):
		return TypeArray, true
	case strings.HasPrefix(t, "map["):
		return TypeObject, true
	}

	switch strings.ToLower(t) {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "integer":
		return TypeInteger, true
	case "float", "float32", "float64", "number":
		return TypeNumber, true
	case "str", "string":
		return TypeString, true
	case "bool", "boolean":
		return TypeBoolean, true
	case "list", "array", "tuple":
		return TypeArray, true
	case "dict", "object", "map":
		return TypeObject, true
	default:
		return TypeString, false
	}
}

// JSON renders the parameters as a JSON Schema object. Defaults of
// optional parameters are advertised; a default that cannot be encoded
// is an error.
func (s Schema) JSON() (json.RawMessage, error) {
	root := schema.Object()
	for _, p := range s.Parameters {
		prop := schema.Of(string(p.Type)).Desc(p.Description)
		if p.Default != nil {
			prop.WithDefault(p.Default)
		}
		root.Field(p.Name, prop, false)
	}
	root.Required = s.Required
	return root.Build()
}

// Tool converts the schema into the declaration sent to providers.
func (s Schema) Tool() (evolve.Tool, error) {
	params, err := s.JSON()
	if err != nil {
		return evolve.Tool{}, err
	}
	return evolve.Tool{
		Name:        s.Name,
		Description: s.Description,
		Parameters:  params,
	}, nil
}

// sectionHeader matches docstring section lines such as "Args:" or "Returns:".
var sectionHeader = regexp.MustCompile(`^([A-Z][A-Za-z ]*):\s*$`)

// argLine matches "name: text" or "name (type): text".
var argLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(?:\([^)]*\))?\s*:\s*(.*)$`)

// parseDoc splits documentation into the description (first paragraph) and
// the per-argument descriptions of its Args section.
func parseDoc(doc string) (string, map[string]string) {
	lines := strings.Split(strings.ReplaceAll(dedent(doc), "\r\n", "\n"), "\n")

	var para []string
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if sectionHeader.MatchString(line) {
			break
		}
		para = append(para, line)
	}
	desc := strings.Join(para, " ")

	args := make(map[string]string)
	inArgs := false
	argIndent := -1
	current := ""
	for _, raw := range lines[i:] {
		line := strings.TrimSpace(raw)
		if m := sectionHeader.FindStringSubmatch(line); m != nil && indentOf(raw) <= 0 {
			switch strings.ToLower(m[1]) {
			case "args", "arguments", "parameters", "params":
				inArgs = true
			default:
				inArgs = false
			}
			argIndent = -1
			current = ""
			continue
		}
		if !inArgs || line == "" {
			continue
		}

		indent := indentOf(raw)
		if argIndent < 0 {
			argIndent = indent
		}
		if indent <= argIndent {
			if m := argLine.FindStringSubmatch(line); m != nil {
				current = m[1]
				args[current] = strings.TrimSpace(m[2])
				continue
			}
		}
		if current != "" {
			args[current] = strings.TrimSpace(args[current] + " " + line)
		}
	}
	return desc, args
}

// dedent removes the common leading whitespace of non-blank lines after
// the first, so raw string literals can be indented with the code.
func dedent(doc string) string {
	lines := strings.Split(doc, "\n")
	common := -1
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := indentOf(l); common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return doc
	}
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) >= common {
			lines[i] = lines[i][common:]
		} else {
			lines[i] = strings.TrimLeft(lines[i], " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}
