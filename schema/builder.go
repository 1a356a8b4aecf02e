package schema

// Object returns an empty object node.
func Object() *Node {
	return &Node{Type: TypeObject, Properties: make(map[string]*Node)}
}

// Of returns a node of the given type. Arrays default to string items.
func Of(typ string) *Node {
	if typ == TypeArray {
		return ArrayOf(String())
	}
	if typ == TypeObject {
		return Object()
	}
	return &Node{Type: typ}
}

func String() *Node  { return &Node{Type: TypeString} }
func Number() *Node  { return &Node{Type: TypeNumber} }
func Integer() *Node { return &Node{Type: TypeInteger} }
func Boolean() *Node { return &Node{Type: TypeBoolean} }

// ArrayOf returns an array node with the given items.
func ArrayOf(items *Node) *Node {
	return &Node{Type: TypeArray, Items: items}
}

// Desc sets the description.
func (n *Node) Desc(description string) *Node {
	n.Description = description
	return n
}

// WithDefault sets the advertised default.
func (n *Node) WithDefault(v any) *Node {
	n.Default = v
	return n
}

// OneOf restricts the value to the given options.
func (n *Node) OneOf(values ...any) *Node {
	n.Enum = values
	return n
}

// Field adds a property to an object node. Adding a name twice replaces
// the property and keeps a single required entry.
func (n *Node) Field(name string, prop *Node, required bool) *Node {
	if n.Properties == nil {
		n.Properties = make(map[string]*Node)
	}
	n.Properties[name] = prop
	if required && !n.IsRequired(name) {
		n.Required = append(n.Required, name)
	}
	return n
}
