package google

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages(t *testing.T) {
	history := []evolve.Message{
		evolve.NewUserMessage("Calculate 5 * 4"),
		{
			Role:      evolve.RoleAssistant,
			ToolCalls: []evolve.ToolCall{{ID: "c1", Name: "calculator", Arguments: `{"operation":"multiply","number1":5,"number2":4}`}},
		},
		evolve.NewToolResultMessage(evolve.ToolResult{ToolCallID: "c1", Name: "calculator", Content: "20"}),
		evolve.NewAssistantMessage("20"),
	}

	contents := convertMessages(history)
	require.Len(t, contents, 4)

	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "Calculate 5 * 4", contents[0].Parts[0].Text)

	assert.Equal(t, "model", contents[1].Role)
	call := contents[1].Parts[0].FunctionCall
	require.NotNil(t, call)
	assert.Equal(t, "calculator", call.Name)
	assert.Equal(t, "multiply", call.Args["operation"])

	assert.Equal(t, "user", contents[2].Role)
	fr := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "calculator", fr.Name)
	assert.Equal(t, map[string]any{"result": "20"}, fr.Response)

	assert.Equal(t, "model", contents[3].Role)
}

func TestFunctionResponse(t *testing.T) {
	assert.Equal(t, map[string]any{"a": float64(1)},
		functionResponse(evolve.ToolResult{Content: `{"a":1}`}))
	assert.Equal(t, map[string]any{"error": "Tool 'x' not found."},
		functionResponse(evolve.ToolResult{Content: "Tool 'x' not found.", IsError: true}))
}

func TestConvertSchema(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string", "description": "file"},
			"tags": {"type": "array", "items": {"type": "string"}},
			"limit": {"type": ["integer", "null"]}
		},
		"required": ["path"]
	}`)

	s := convertSchema(raw)
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"path"}, s.Required)
	assert.Equal(t, "file", s.Properties["path"].Description)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["limit"].Type)
	require.NotNil(t, s.Properties["limit"].Nullable)
	assert.True(t, *s.Properties["limit"].Nullable)

	assert.Nil(t, convertSchema(nil))
	assert.Nil(t, convertSchema(json.RawMessage(`not json`)))
}

func TestConvertResponse(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		resp, err := convertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "The answer "}, {Text: "is 20."}}},
				FinishReason: genai.FinishReasonStop,
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, "The answer is 20.", resp.Content)
		assert.Equal(t, evolve.FinishStop, resp.FinishReason)
		assert.Equal(t, evolve.Usage{InputTokens: 7, OutputTokens: 3}, resp.Usage)
	})

	t.Run("function call", func(t *testing.T) {
		resp, err := convertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{
					FunctionCall: &genai.FunctionCall{Name: "calculator", Args: map[string]any{"operation": "add"}},
				}}},
				FinishReason: genai.FinishReasonStop,
			}},
		})
		require.NoError(t, err)
		require.Len(t, resp.ToolCalls, 1)
		assert.Equal(t, "call_0_calculator", resp.ToolCalls[0].ID)
		assert.JSONEq(t, `{"operation":"add"}`, resp.ToolCalls[0].Arguments)
		assert.Equal(t, evolve.FinishToolCalls, resp.FinishReason)
	})

	t.Run("empty", func(t *testing.T) {
		resp, err := convertResponse(&genai.GenerateContentResponse{})
		require.NoError(t, err)
		assert.True(t, resp.Empty())
	})

	t.Run("blocked prompt", func(t *testing.T) {
		_, err := convertResponse(&genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
		})
		require.Error(t, err)
		assert.Equal(t, evolve.ErrorUserInput, err.(*evolve.Error).Category())
	})
}

func TestFinishReason(t *testing.T) {
	assert.Equal(t, evolve.FinishStop, finishReason(genai.FinishReasonStop, false))
	assert.Equal(t, evolve.FinishLength, finishReason(genai.FinishReasonMaxTokens, false))
	assert.Equal(t, evolve.FinishOther, finishReason(genai.FinishReasonSafety, false))
	assert.Equal(t, evolve.FinishToolCalls, finishReason(genai.FinishReasonStop, true))
	assert.Equal(t, "", finishReason("", false))
}

func TestWrapError(t *testing.T) {
	t.Run("quota with retry info", func(t *testing.T) {
		err := wrapError(genai.APIError{
			Code:    429,
			Status:  "RESOURCE_EXHAUSTED",
			Message: "Quota exceeded",
			Details: []map[string]any{{
				"@type":      retryInfoType,
				"retryDelay": "27s",
			}},
		})
		var e *evolve.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, evolve.KindQuotaExceeded, e.Kind())
		assert.Equal(t, 27*time.Second, e.RetryAfter())
	})

	t.Run("overloaded", func(t *testing.T) {
		err := wrapError(genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "The model is overloaded."})
		assert.Equal(t, evolve.KindOverloaded, evolve.KindOf(err))
		assert.True(t, evolve.IsTransient(err))
	})

	t.Run("auth", func(t *testing.T) {
		err := wrapError(genai.APIError{Code: 403, Message: "denied"})
		assert.True(t, evolve.IsPermanent(err))
		assert.Equal(t, evolve.KindOther, evolve.KindOf(err))
	})

	t.Run("non api errors pass through", func(t *testing.T) {
		plain := errors.New("dial tcp: connection refused")
		assert.Same(t, plain, wrapError(plain))
		assert.Nil(t, wrapError(nil))
	})
}
