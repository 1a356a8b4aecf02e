package agent

import (
	"time"

	evolve "github.com/Inventure71/EvolveProject"
)

// State is a position in the conversation state machine.
type State string

const (
	StateAwaitingModel    State = "awaiting_model"
	StateModelResponded   State = "model_responded"
	StateDispatchingTools State = "dispatching_tools"
	StateHasText          State = "has_text"
	StateEmpty            State = "empty"
	StateDone             State = "done"
)

// EventType identifies the kind of event occurring during a run.
type EventType string

const (
	// EventStepStart fires before each model call.
	EventStepStart EventType = "step_start"

	// EventModelResponse fires when the provider returns, before the
	// response is handled.
	EventModelResponse EventType = "model_response"

	// EventToolCall fires before a tool is executed.
	EventToolCall EventType = "tool_call"

	// EventToolResult fires after a tool completes.
	EventToolResult EventType = "tool_result"

	// EventStepEnd fires once the model response has been handled.
	EventStepEnd EventType = "step_end"

	// EventDone fires when the run terminates, successfully or not.
	EventDone EventType = "done"
)

// Event represents an observable occurrence during a run.
type Event struct {
	Type EventType

	// Step is the current iteration number (1-indexed).
	Step int

	State State

	ToolCall   *evolve.ToolCall
	ToolResult *evolve.ToolResult

	// Response is set on EventModelResponse, EventStepEnd and EventDone.
	Response *evolve.Response

	// Termination is set on EventDone.
	Termination TerminationReason

	Error error

	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}

// TerminationReason indicates why the run stopped.
type TerminationReason string

const (
	// TerminationComplete indicates the model ended its turn naturally.
	TerminationComplete TerminationReason = "complete"

	// TerminationMarker indicates the model emitted the completion marker.
	TerminationMarker TerminationReason = "marker"

	// TerminationEmpty indicates the model returned nothing.
	TerminationEmpty TerminationReason = "empty"

	// TerminationMaxSteps indicates the step limit was reached.
	TerminationMaxSteps TerminationReason = "max_steps"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationTimeout indicates the deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationError indicates a fatal provider error.
	TerminationError TerminationReason = "error"
)

// Result represents the outcome of a run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Text is the final answer with the completion marker removed.
	Text string

	// Response is the last response received from the model.
	Response *evolve.Response

	// History is the full conversation, starting with the user prompt.
	History []evolve.Message

	// Trail is the trailing log, oldest first.
	Trail []string

	Steps       int
	Termination TerminationReason
	TotalUsage  evolve.Usage
}

// LastMessages returns the last n messages of the history.
func (r *Result) LastMessages(n int) []evolve.Message {
	if n <= 0 {
		return nil
	}
	if n >= len(r.History) {
		return r.History
	}
	return r.History[len(r.History)-n:]
}
