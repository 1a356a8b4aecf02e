package openai

import (
	evolve "github.com/Inventure71/EvolveProject"
	"github.com/openai/openai-go"
)

// convertMessages renders structured turns as chat completion messages.
// Each tool result becomes its own tool message.
func convertMessages(system string, messages []evolve.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}

	for _, msg := range messages {
		switch msg.Kind() {
		case evolve.TurnToolCall:
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				args := tc.Arguments
				if args == "" {
					args = "{}"
				}
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: args,
					},
				}
			}
			assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCalls}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})

		case evolve.TurnToolResult:
			for _, tr := range msg.ToolResults {
				result = append(result, openai.ToolMessage(tr.Content, tr.ToolCallID))
			}

		default:
			if msg.Content == "" {
				continue
			}
			if msg.Role == evolve.RoleAssistant {
				result = append(result, openai.AssistantMessage(msg.Content))
			} else {
				result = append(result, openai.UserMessage(msg.Content))
			}
		}
	}
	return result
}
