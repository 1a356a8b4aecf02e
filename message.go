package evolve

import "github.com/google/uuid"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// TurnKind discriminates the variants a Message can carry.
type TurnKind string

const (
	// TurnText is plain text from the user or the model.
	TurnText TurnKind = "text"
	// TurnToolCall is a model turn requesting one or more tool invocations.
	TurnToolCall TurnKind = "tool_call"
	// TurnToolResult carries the results of executed tool calls.
	TurnToolResult TurnKind = "tool_result"
)

// Message represents a single turn in a conversation.
//
// A message is one of three variants, reported by Kind: plain text, a tool
// call request (assistant role with ToolCalls) or a set of tool results
// (tool role with ToolResults). Providers render each variant into their
// native request structure.
type Message struct {
	// ID is an optional unique identifier for the message.
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// ToolCalls contains tool invocation requests from an assistant message.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolResults contains results from tool executions.
	// Only populated when Role is RoleTool.
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// Kind reports which turn variant the message holds.
func (m Message) Kind() TurnKind {
	switch {
	case m.Role == RoleTool || len(m.ToolResults) > 0:
		return TurnToolResult
	case len(m.ToolCalls) > 0:
		return TurnToolCall
	default:
		return TurnText
	}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// NewUserMessage creates a text message from the user.
func NewUserMessage(content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a text message from the model.
func NewAssistantMessage(content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleAssistant, Content: content}
}

// FinishReason values normalized across providers.
const (
	// FinishStop means the model ended its turn naturally or hit a stop sequence.
	FinishStop = "stop"
	// FinishToolCalls means the model stopped to request tool calls.
	FinishToolCalls = "tool_calls"
	// FinishLength means the output token limit was reached.
	FinishLength = "length"
	// FinishOther covers safety blocks and anything a provider does not map.
	FinishOther = "other"
)

// Response represents a complete response from a chat provider.
type Response struct {
	Content string `json:"content,omitempty"`
	// FinishReason is one of the Finish* constants.
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
	// ToolCalls contains any tool invocation requests from the model.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// Empty reports whether the response carries neither text nor tool calls.
func (r *Response) Empty() bool {
	return r == nil || (r.Content == "" && len(r.ToolCalls) == 0)
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add returns the sum of two usages.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}
