package tool

import (
	"fmt"
	"strings"
)

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrMissingArguments is returned when required parameters are absent.
type ErrMissingArguments struct {
	Name    string
	Missing []string
}

func (e *ErrMissingArguments) Error() string {
	return fmt.Sprintf("tool: %s missing required arguments: %s", e.Name, strings.Join(e.Missing, ", "))
}

// ErrToolExecution wraps errors from tool body execution.
type ErrToolExecution struct {
	Name string
	Err  error
}

// Error renders the message the model sees when a tool body fails.
func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("Tool '%s' failed: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ErrToolExecution) Unwrap() error {
	return e.Err
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
	// Source is the source that already owns the name, when known.
	Source string
}

// Error returns a formatted error message including the duplicate tool name.
func (e *ErrToolAlreadyRegistered) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("tool: already registered: %s (by %s)", e.Name, e.Source)
	}
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrSchema is returned when a definition cannot be turned into a schema.
type ErrSchema struct {
	Name   string
	Reason string
}

func (e *ErrSchema) Error() string {
	return fmt.Sprintf("tool: invalid definition %q: %s", e.Name, e.Reason)
}
