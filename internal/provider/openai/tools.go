package openai

import (
	"encoding/json"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

func convertTools(tools []evolve.Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		var params shared.FunctionParameters
		if len(t.Parameters) > 0 {
			_ = json.Unmarshal(t.Parameters, &params)
		}
		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  params,
			},
		}
	}
	return result
}

func extractToolCalls(msg openai.ChatCompletionMessage) []evolve.ToolCall {
	if len(msg.ToolCalls) == 0 {
		return nil
	}
	result := make([]evolve.ToolCall, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		result[i] = evolve.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return result
}
