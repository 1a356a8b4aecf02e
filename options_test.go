package evolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	tools := []Tool{{Name: "calculator"}}
	o := ApplyOptions(
		WithModel("gemini-2.0-flash"),
		WithSystemInstruction("be brief"),
		WithTools(tools),
		WithStopSequences("!FINISHED_TASK!"),
		WithMaxTokens(256),
		WithTemperature(0.2),
	)

	assert.Equal(t, "gemini-2.0-flash", o.Model)
	assert.Equal(t, "be brief", o.SystemInstruction)
	assert.Equal(t, tools, o.Tools)
	assert.Equal(t, []string{"!FINISHED_TASK!"}, o.StopSequences)
	assert.Equal(t, 256, o.MaxTokens)
	require.NotNil(t, o.Temperature)
	assert.InDelta(t, 0.2, *o.Temperature, 1e-9)
}

func TestApplyOptionsEmpty(t *testing.T) {
	o := ApplyOptions()
	assert.Empty(t, o.Model)
	assert.Nil(t, o.Temperature)
	assert.Nil(t, o.Tools)
}
