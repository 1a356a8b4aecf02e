package agent

import (
	"time"

	evolve "github.com/Inventure71/EvolveProject"
)

// Defaults applied by ApplyOptions.
const (
	DefaultMarker         = "!FINISHED_TASK!"
	DefaultFallback       = "I'm sorry, I could not produce a response."
	DefaultTrailSize      = 5
	DefaultPacing         = 500 * time.Millisecond
	DefaultMaxSteps       = 50
	DefaultHandlerTimeout = 30 * time.Second
)

// DefaultSystemInstruction is sent on every call unless overridden. It
// explains tool use, tool creation through manifests and the marker.
const DefaultSystemInstruction = `You are an autonomous agent running on a Linux machine. Nobody is on the other side of the screen: you observe, decide and act on your own.

GENERAL GUIDELINES:
- You can call any of the tools provided. Use them whenever they make the result more accurate or reliable. The shell is available for anything the other tools do not cover.
- When the request is clear, act on it directly without asking for confirmation.
- Your memory is short. Write important state to files and break large inputs into pieces.
- When you believe the task is done, end your reply with ` + DefaultMarker + `

TOOL CREATION:
If a suitable tool does not exist and one would clearly help, create it by writing a YAML manifest into the tools directory. New tools become callable on the next step. A manifest looks like:

tools:
  - name: word_count
    description: |
      Count the words in a file.

      Args:
        path: file to read
    params:
      - name: path
        type: string
      - name: flags
        type: string
        default: "-w"
    command: "wc {{flags}} {{path}}"

- Names must be unique; a duplicate is ignored.
- Parameters without a default are required. Supported types are string, integer, number, boolean, array and object.
- Commands must not wait for interactive input, and their output should be understandable on its own.`

// Options contains configuration for agent execution.
type Options struct {
	// MaxSteps limits the number of model calls. When reached, the run
	// returns the last model text. Zero means unlimited.
	MaxSteps int

	// Timeout sets a deadline for the entire run. Zero means none.
	Timeout time.Duration

	// HandlerTimeout bounds each tool invocation. Zero means none.
	HandlerTimeout time.Duration

	// Pacing is the pause between iterations.
	Pacing time.Duration

	// Marker is the stop sequence that ends the task. It is advertised to
	// the provider and stripped from the final text.
	Marker string

	// Fallback is returned when the model answers with nothing.
	Fallback string

	// SystemInstruction is the system prompt sent on every call. It
	// defaults to DefaultSystemInstruction.
	SystemInstruction string

	// TrailSize is the capacity of the trailing log.
	TrailSize int

	// ReloadEachStep reloads the registry after every tool dispatch.
	ReloadEachStep bool

	// Events receives loop events. Sends never block.
	Events chan<- Event

	// ChatOptions are passed through to the provider on every call.
	ChatOptions []evolve.Option
}

// Option is a functional option for configuring agent execution.
type Option func(*Options)

// WithMaxSteps sets the maximum number of model calls.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTimeout sets a deadline for the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the timeout for each tool invocation.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithPacing sets the pause between iterations.
func WithPacing(d time.Duration) Option {
	return func(o *Options) {
		o.Pacing = d
	}
}

// WithMarker overrides the completion marker.
func WithMarker(marker string) Option {
	return func(o *Options) {
		o.Marker = marker
	}
}

// WithFallback overrides the text returned for an empty response.
func WithFallback(text string) Option {
	return func(o *Options) {
		o.Fallback = text
	}
}

// WithSystemInstruction sets the system prompt sent on every call.
func WithSystemInstruction(text string) Option {
	return func(o *Options) {
		o.SystemInstruction = text
	}
}

// WithTrailSize sets the capacity of the trailing log.
func WithTrailSize(n int) Option {
	return func(o *Options) {
		o.TrailSize = n
	}
}

// WithReloadEachStep makes tools written during the run callable on the
// next step.
func WithReloadEachStep(enabled bool) Option {
	return func(o *Options) {
		o.ReloadEachStep = enabled
	}
}

// WithEvents sets the channel that receives loop events.
func WithEvents(ch chan<- Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithChatOptions passes options through to the provider.
func WithChatOptions(opts ...evolve.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, evolve.WithModel(model))
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps:          DefaultMaxSteps,
		HandlerTimeout:    DefaultHandlerTimeout,
		Pacing:            DefaultPacing,
		Marker:            DefaultMarker,
		Fallback:          DefaultFallback,
		SystemInstruction: DefaultSystemInstruction,
		TrailSize:         DefaultTrailSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.TrailSize < 1 {
		o.TrailSize = 1
	}
	return o
}
