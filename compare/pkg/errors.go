package compare

import (
	"fmt"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

// InvalidInputError reports a bad combinatorial argument.
type InvalidInputError struct {
	Arg   string
	Value int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %v = %v must not be negative", e.Arg, e.Value)
}

// OverflowError reports a binomial coefficient too large for an int64.
type OverflowError struct {
	N int
	K int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v choose %v overflows int64", e.N, e.K)
}

// PreconditionError reports a directory or file that is missing, unwritable,
// or not empty when an empty destination is required.
type PreconditionError struct {
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %q: %v", e.Path, e.Reason)
}

// ConfigurationError reports a missing or partial option set.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v: %v", e.Option, e.Reason)
}

// ToolInvocationError reports an external tool that could not be started,
// exited with an error, or timed out.
type ToolInvocationError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ToolInvocationError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("tool %v failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("tool %v failed: %v\n%s", e.Tool, e.Err, e.Output)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

// ParseError describes one dropped row. Parsers collect these rather than
// returning them.
type ParseError struct {
	Tool   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: line %v: %v", e.Tool, e.Line, e.Reason)
}

// ResourceLoadError reports a reference table that could not be loaded.
type ResourceLoadError struct {
	Resource string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("could not load %v: %v", e.Resource, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}
