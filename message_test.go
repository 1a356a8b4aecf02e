package evolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageKind(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want TurnKind
	}{
		{"user text", NewUserMessage("hi"), TurnText},
		{"assistant text", NewAssistantMessage("hello"), TurnText},
		{
			"tool call",
			Message{Role: RoleAssistant, Content: "let me check", ToolCalls: []ToolCall{{ID: "1", Name: "calculator"}}},
			TurnToolCall,
		},
		{"tool result", NewToolResultMessage(ToolResult{ToolCallID: "1", Content: "20"}), TurnToolResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Kind())
		})
	}
}

func TestGenerateMessageID(t *testing.T) {
	a := GenerateMessageID()
	b := GenerateMessageID()

	assert.True(t, strings.HasPrefix(a, "msg-"))
	assert.NotEqual(t, a, b)
}

func TestResponseEmpty(t *testing.T) {
	var nilResp *Response
	assert.True(t, nilResp.Empty())
	assert.True(t, (&Response{FinishReason: FinishStop}).Empty())
	assert.False(t, (&Response{Content: "x"}).Empty())
	assert.False(t, (&Response{ToolCalls: []ToolCall{{Name: "t"}}}).Empty())
}

func TestUsageAdd(t *testing.T) {
	u := Usage{InputTokens: 10, OutputTokens: 5}.Add(Usage{InputTokens: 3, OutputTokens: 2})
	assert.Equal(t, Usage{InputTokens: 13, OutputTokens: 7}, u)
}
