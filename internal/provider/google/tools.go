package google

import (
	"encoding/json"
	"fmt"

	evolve "github.com/Inventure71/EvolveProject"
	"google.golang.org/genai"
)

func convertTools(tools []evolve.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	funcs := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		funcs[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Parameters),
		}
	}

	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

// extractToolCalls collects function calls. Gemini does not always assign
// call IDs, so missing ones are derived from the position and name.
func extractToolCalls(parts []*genai.Part) []evolve.ToolCall {
	var calls []evolve.ToolCall
	for i, part := range parts {
		if part.FunctionCall == nil {
			continue
		}
		args, err := json.Marshal(part.FunctionCall.Args)
		if err != nil || part.FunctionCall.Args == nil {
			args = []byte("{}")
		}
		id := part.FunctionCall.ID
		if id == "" {
			id = fmt.Sprintf("call_%d_%s", i, part.FunctionCall.Name)
		}
		calls = append(calls, evolve.ToolCall{
			ID:        id,
			Name:      part.FunctionCall.Name,
			Arguments: string(args),
		})
	}
	return calls
}
