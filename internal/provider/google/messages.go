package google

import (
	"encoding/json"
	"fmt"

	evolve "github.com/Inventure71/EvolveProject"
	"google.golang.org/genai"
)

// convertMessages renders structured turns as Gemini contents. Tool calls
// become FunctionCall parts on a model turn and tool results become
// FunctionResponse parts on a user turn.
func convertMessages(messages []evolve.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		var parts []*genai.Part
		role := "user"

		switch msg.Kind() {
		case evolve.TurnToolCall:
			role = "model"
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				args := map[string]any{}
				if tc.Arguments != "" {
					_ = json.Unmarshal([]byte(tc.Arguments), &args)
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
				})
			}

		case evolve.TurnToolResult:
			for _, tr := range msg.ToolResults {
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       tr.ToolCallID,
						Name:     tr.Name,
						Response: functionResponse(tr),
					},
				})
			}

		default:
			if msg.Role == evolve.RoleAssistant {
				role = "model"
			}
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	return contents
}

// functionResponse wraps a tool result. JSON objects are passed through,
// anything else goes under "result", or "error" for failures.
func functionResponse(tr evolve.ToolResult) map[string]any {
	key := "result"
	if tr.IsError {
		key = "error"
	}
	var obj map[string]any
	if !tr.IsError && json.Unmarshal([]byte(tr.Content), &obj) == nil && obj != nil {
		return obj
	}
	return map[string]any{key: tr.Content}
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}
