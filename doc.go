// Package evolve holds the types shared by the agent harness: conversation
// messages, tool declarations, provider responses and categorized errors.
//
// The harness runs a tool-calling loop against an LLM provider. A prompt is
// sent together with the accumulated history, any tool calls the model
// requests are executed locally, their results are appended, and the loop
// repeats until the model emits the termination marker or stops naturally.
//
// # Packages
//
//   - [github.com/Inventure71/EvolveProject/agent]: the conversation loop
//   - [github.com/Inventure71/EvolveProject/tool]: tool registry and schemas
//   - [github.com/Inventure71/EvolveProject/retry]: retry with backoff
//   - [github.com/Inventure71/EvolveProject/ratelimit]: fixed-window limiter
//   - [github.com/Inventure71/EvolveProject/client]: provider construction
//
// # Basic Usage
//
//	provider, err := client.New(ctx, client.Config{
//	    Provider: evolve.ProviderGoogle,
//	    APIKey:   os.Getenv("GEMINI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg := tool.NewRegistry(builtin.Catalog(builtin.Config{}))
//	if err := reg.Reload(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	a := agent.New(provider, reg)
//	result, err := a.Run(ctx, "Calculate 5 * 4, then add 3 to the result")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Text)
package evolve
