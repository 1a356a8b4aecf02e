// Command evolve runs a tool-calling agent against a configured model
// provider.
//
// Usage:
//
//	evolve run "Compute (3+4)*2 and tell me the result"
//	evolve tools
//	evolve mcp serve
package main

func main() {
	Execute()
}
