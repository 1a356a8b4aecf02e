// Package client builds the chat provider an agent talks to.
//
// New picks the provider adapter named in the configuration and wraps it
// in a retry.Transport gated by a fixed-window rate limiter:
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: evolve.ProviderGoogle,
//	    APIKey:   os.Getenv("GEMINI_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	a := agent.New(c, registry)
//
// Several clients may share one limiter through Config.Limiter so that
// they draw from the same request budget.
package client
