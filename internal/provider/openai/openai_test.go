package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, header http.Header, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Chat(t *testing.T) {
	var req map[string]any
	srv := newTestServer(t, http.StatusOK, nil, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o-mini",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "calculator", "arguments": "{\"operation\":\"add\",\"number1\":20,\"number2\":3}"}
				}]
			}
		}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
	}`, &req)

	c := New("test-key", WithBaseURL(srv.URL+"/"))
	resp, err := c.Chat(context.Background(),
		[]evolve.Message{evolve.NewUserMessage("Calculate 20 + 3")},
		evolve.WithSystemInstruction("You are helpful."),
		evolve.WithStopSequences("!FINISHED_TASK!"),
		evolve.WithTools([]evolve.Tool{{
			Name:        "calculator",
			Description: "Adds numbers.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{}}`),
		}}),
	)
	require.NoError(t, err)

	assert.Equal(t, evolve.FinishToolCalls, resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "calculator", resp.ToolCalls[0].Name)
	assert.Equal(t, evolve.Usage{InputTokens: 12, OutputTokens: 5}, resp.Usage)

	assert.Equal(t, DefaultModel, req["model"])
	assert.Equal(t, []any{"!FINISHED_TASK!"}, req["stop"])
	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	tools := req["tools"].([]any)
	require.Len(t, tools, 1)
}

func TestClient_Chat_QuotaError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests,
		http.Header{"Retry-After": []string{"7"}},
		`{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`, nil)

	c := New("test-key", WithBaseURL(srv.URL+"/"))
	_, err := c.Chat(context.Background(), []evolve.Message{evolve.NewUserMessage("hi")})
	require.Error(t, err)

	assert.Equal(t, evolve.KindQuotaExceeded, evolve.KindOf(err))
	assert.Equal(t, 7*time.Second, evolve.RetryAfterOf(err))
	assert.Equal(t, http.StatusTooManyRequests, evolve.StatusCodeOf(err))
}

func TestClient_Chat_ServerError(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, nil,
		`{"error": {"message": "overloaded", "type": "server_error"}}`, nil)

	c := New("test-key", WithBaseURL(srv.URL+"/"))
	_, err := c.Chat(context.Background(), []evolve.Message{evolve.NewUserMessage("hi")})
	assert.Equal(t, evolve.KindOverloaded, evolve.KindOf(err))
}

func TestConvertMessages(t *testing.T) {
	msgs := convertMessages("", []evolve.Message{
		evolve.NewUserMessage("Calculate 5 * 4"),
		{Role: evolve.RoleAssistant, Content: "Using the calculator.", ToolCalls: []evolve.ToolCall{{ID: "c1", Name: "calculator"}}},
		evolve.NewToolResultMessage(
			evolve.ToolResult{ToolCallID: "c1", Content: "20"},
			evolve.ToolResult{ToolCallID: "c2", Content: "oops", IsError: true},
		),
		evolve.NewAssistantMessage("20"),
		{Role: evolve.RoleUser},
	})

	require.Len(t, msgs, 5)
	require.NotNil(t, msgs[0].OfUser)
	require.NotNil(t, msgs[1].OfAssistant)
	assert.Equal(t, "{}", msgs[1].OfAssistant.ToolCalls[0].Function.Arguments)
	require.NotNil(t, msgs[2].OfTool)
	assert.Equal(t, "c1", msgs[2].OfTool.ToolCallID)
	require.NotNil(t, msgs[3].OfTool)
	require.NotNil(t, msgs[4].OfAssistant)
}

func TestFinishReason(t *testing.T) {
	assert.Equal(t, evolve.FinishStop, finishReason("stop", false))
	assert.Equal(t, evolve.FinishLength, finishReason("length", false))
	assert.Equal(t, evolve.FinishOther, finishReason("content_filter", false))
	assert.Equal(t, evolve.FinishToolCalls, finishReason("stop", true))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Zero(t, parseRetryAfter(nil))
	assert.Equal(t, 1500*time.Millisecond, parseRetryAfter(&http.Response{Header: http.Header{"Retry-After": []string{"1.5"}}}))
	assert.Zero(t, parseRetryAfter(&http.Response{Header: http.Header{"Retry-After": []string{"soon"}}}))
}
