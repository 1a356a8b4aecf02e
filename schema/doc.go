// Package schema builds and reads the JSON Schema subset used for tool
// parameters.
//
// Tool declarations need little of JSON Schema: an object whose
// properties carry a primitive type, a description and sometimes a
// default or an enum, plus arrays of such values. Node models exactly that
// and is shared by both directions: the registry builds nodes when it
// advertises tools, and the MCP source and the Gemini adapter parse nodes
// from schemas written elsewhere.
//
// # Building
//
//	params := schema.Object().
//		Field("path", schema.String().Desc("File to read"), true).
//		Field("limit", schema.Integer().WithDefault(20), false)
//	raw, err := params.Build()
//
// # Reading
//
//	node, err := schema.Parse(raw)
//	for _, name := range node.Names() {
//		prop := node.Properties[name]
//		...
//	}
//
// Parse accepts the ["string", "null"] form of the type keyword and reports
// it through Nullable. Keywords outside the subset are ignored.
package schema
