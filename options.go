package evolve

// Options contains configuration for a chat request.
type Options struct {
	Model string
	// SystemInstruction is sent as the provider's system prompt.
	SystemInstruction string
	// Tools are the declarations advertised to the model.
	Tools []Tool
	// StopSequences end generation when the model emits one of them.
	StopSequences []string
	MaxTokens     int
	Temperature   *float64
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithSystemInstruction sets the system prompt.
func WithSystemInstruction(text string) Option {
	return func(o *Options) {
		o.SystemInstruction = text
	}
}

// WithTools sets the tools available to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithStopSequences sets strings that end generation.
func WithStopSequences(seqs ...string) Option {
	return func(o *Options) {
		o.StopSequences = seqs
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
