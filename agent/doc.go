// Package agent runs the conversation loop of an autonomous tool-calling
// agent.
//
// A run starts from a single user prompt. Each iteration sends the full
// history to the provider together with every schema in the tool registry.
// The response then takes one of three paths:
//
//   - tool calls are executed in order and their results appended to the
//     history, then the loop continues
//   - text is appended as an assistant turn; the run ends when the model
//     stopped naturally or the text contains the completion marker
//   - an empty response ends the run with a fallback answer
//
// # Basic Usage
//
//	registry := tool.NewRegistry(builtin.Catalog(builtin.Config{}))
//	if err := registry.Reload(ctx); err != nil {
//	    return err
//	}
//
//	transport := retry.NewTransport(provider, retry.WithLimiter(ratelimit.New(30)))
//	a := agent.New(transport, registry)
//
//	result, err := a.Run(ctx, "Calculate 5 * 4, then add 3",
//	    agent.WithSystemInstruction(prompt),
//	    agent.WithMaxSteps(20),
//	)
//
// # Events
//
// Pass a buffered channel with WithEvents to observe steps and tool calls.
// Sends never block, so a slow consumer drops events rather than stalling
// the loop.
//
// # Termination
//
// Result.Termination reports why the run ended. Reaching the step limit is
// not an error: the last text produced by the model is returned as the
// answer. A provider failure that survives the retry policy aborts the run
// and is returned together with the partial Result.
package agent
