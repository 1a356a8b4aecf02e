package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/internal/store"
	"github.com/Inventure71/EvolveProject/tool"
	"github.com/oklog/ulid/v2"
)

// Agent orchestrates autonomous tool-calling conversations.
type Agent struct {
	provider evolve.ChatProvider
	registry *tool.Registry
}

// New creates an Agent. The provider is usually a retry.Transport so that
// every call passes through the rate limiter and the retry policy.
func New(provider evolve.ChatProvider, registry *tool.Registry) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{
		provider: provider,
		registry: registry,
	}
}

// Registry returns the tool registry used by the agent.
func (a *Agent) Registry() *tool.Registry {
	return a.registry
}

// run is the mutable state of a single Run call.
type run struct {
	id       string
	options  *Options
	log      *slog.Logger
	history  *store.MessageStore
	trail    *trail
	result   *Result
	lastText string
}

// Run drives the conversation until the model finishes, returns nothing,
// hits the step cap, or fails.
//
// The returned Result is never nil. On a fatal provider error or a
// cancelled context it holds everything gathered so far and the error is
// returned alongside it.
func (a *Agent) Run(ctx context.Context, prompt string, opts ...Option) (*Result, error) {
	options := ApplyOptions(opts...)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	id := ulid.Make().String()
	r := &run{
		id:      id,
		options: options,
		log:     slog.With("run", id),
		history: store.NewMessageStore(evolve.NewUserMessage(prompt)),
		trail:   newTrail(options.TrailSize),
		result:  &Result{RunID: id},
	}
	r.log.Info("Agent run started", "tools", a.registry.Len(), "max_steps", options.MaxSteps)

	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return r.finish(contextReason(err), r.lastText, err)
		}
		if options.MaxSteps > 0 && step > options.MaxSteps {
			r.log.Warn("Step limit reached, returning last answer", "max_steps", options.MaxSteps)
			return r.finish(TerminationMaxSteps, r.lastText, nil)
		}

		emit(options.Events, Event{Type: EventStepStart, Step: step, State: StateAwaitingModel})

		resp, err := a.provider.Chat(ctx, r.history.Messages(), a.chatOptions(options)...)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r.finish(contextReason(ctxErr), r.lastText, err)
			}
			r.log.Error("Provider call failed", "step", step, "error", err)
			return r.finish(TerminationError, r.lastText, fmt.Errorf("agent: step %d: %w", step, err))
		}

		r.result.Steps = step
		r.result.Response = resp
		r.result.TotalUsage = r.result.TotalUsage.Add(resp.Usage)
		emit(options.Events, Event{Type: EventModelResponse, Step: step, State: StateModelResponded, Response: resp})

		state := responseState(resp)
		r.log.Debug("Model responded", "step", step, "state", state, "finish_reason", resp.FinishReason)

		switch state {
		case StateDispatchingTools:
			a.dispatch(ctx, r, step, resp)
			if options.ReloadEachStep {
				if err := a.registry.Reload(ctx); err != nil {
					r.log.Warn("Tool reload failed", "error", err)
				}
			}

		case StateHasText:
			r.lastText = resp.Content
			r.history.Append(evolve.NewAssistantMessage(resp.Content))
			r.trail.push(resp.Content)

			if strings.Contains(resp.Content, options.Marker) {
				emit(options.Events, Event{Type: EventStepEnd, Step: step, State: StateDone, Response: resp})
				return r.finish(TerminationMarker, resp.Content, nil)
			}
			if resp.FinishReason == evolve.FinishStop {
				emit(options.Events, Event{Type: EventStepEnd, Step: step, State: StateDone, Response: resp})
				return r.finish(TerminationComplete, resp.Content, nil)
			}

		case StateEmpty:
			r.log.Warn("Model returned an empty response", "step", step)
			r.history.Append(evolve.NewAssistantMessage(options.Fallback))
			emit(options.Events, Event{Type: EventStepEnd, Step: step, State: StateDone, Response: resp})
			return r.finish(TerminationEmpty, options.Fallback, nil)
		}

		emit(options.Events, Event{Type: EventStepEnd, Step: step, State: StateAwaitingModel, Response: resp})

		if err := pause(ctx, options.Pacing); err != nil {
			return r.finish(contextReason(err), r.lastText, err)
		}
	}
}

// dispatch runs the requested tools in order and records the exchange.
func (a *Agent) dispatch(ctx context.Context, r *run, step int, resp *evolve.Response) {
	if resp.Content != "" {
		r.lastText = resp.Content
	}

	results := make([]evolve.ToolResult, 0, len(resp.ToolCalls))
	entries := make([]string, 0, len(resp.ToolCalls)+1)
	if resp.Content != "" {
		entries = append(entries, resp.Content)
	}

	for i := range resp.ToolCalls {
		call := resp.ToolCalls[i]
		emit(r.options.Events, Event{Type: EventToolCall, Step: step, State: StateDispatchingTools, ToolCall: &call})

		result := a.execute(ctx, r.options.HandlerTimeout, call)
		results = append(results, result)
		entries = append(entries, fmt.Sprintf("Tool call: %s(%s)\nResult: %s", call.Name, call.Arguments, result.Content))

		if result.IsError {
			r.log.Warn("Tool returned an error", "tool", call.Name, "result", result.Content)
		}
		emit(r.options.Events, Event{Type: EventToolResult, Step: step, State: StateDispatchingTools, ToolCall: &call, ToolResult: &result})
	}

	r.history.Append(
		evolve.Message{
			ID:        evolve.GenerateMessageID(),
			Role:      evolve.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		},
		evolve.NewToolResultMessage(results...),
	)
	r.trail.push(strings.Join(entries, "\n"))
}

func (a *Agent) execute(ctx context.Context, timeout time.Duration, call evolve.ToolCall) evolve.ToolResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return a.registry.Execute(ctx, call)
}

func (a *Agent) chatOptions(options *Options) []evolve.Option {
	opts := []evolve.Option{evolve.WithTools(a.registry.Tools())}
	if options.SystemInstruction != "" {
		opts = append(opts, evolve.WithSystemInstruction(options.SystemInstruction))
	}
	if options.Marker != "" {
		opts = append(opts, evolve.WithStopSequences(options.Marker))
	}
	return append(opts, options.ChatOptions...)
}

func (r *run) finish(reason TerminationReason, text string, err error) (*Result, error) {
	r.result.Termination = reason
	r.result.Text = StripMarker(text, r.options.Marker)
	r.result.History = r.history.Messages()
	r.result.Trail = r.trail.snapshot()

	emit(r.options.Events, Event{
		Type:        EventDone,
		Step:        r.result.Steps,
		State:       StateDone,
		Response:    r.result.Response,
		Termination: reason,
		Error:       err,
	})

	if err != nil {
		r.log.Error("Agent run failed", "termination", reason, "steps", r.result.Steps, "error", err)
	} else {
		r.log.Info("Agent run finished",
			"termination", reason,
			"steps", r.result.Steps,
			"input_tokens", r.result.TotalUsage.InputTokens,
			"output_tokens", r.result.TotalUsage.OutputTokens,
		)
	}
	return r.result, err
}

func responseState(resp *evolve.Response) State {
	switch {
	case resp == nil:
		return StateEmpty
	case len(resp.ToolCalls) > 0:
		return StateDispatchingTools
	case resp.Content != "":
		return StateHasText
	default:
		return StateEmpty
	}
}

// StripMarker removes every occurrence of marker and trims the result.
func StripMarker(text, marker string) string {
	if marker != "" {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.TrimSpace(text)
}

func contextReason(err error) TerminationReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return TerminationTimeout
	}
	return TerminationCancelled
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
