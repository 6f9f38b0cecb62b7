// Package dockererrors provides structured error types for stackcheck.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: Nginx config, compose YAML, or launcher script parsing failures
//   - CheckError: Stack audit failures
//   - DockerError: Failures driving the docker compose CLI
//   - ConfigError: Invalid configuration or input options
//
// # Usage with errors.As
//
//	result, err := compose.ParseWithOptions(compose.WithFilePath("docker-compose.yml"))
//	if err != nil {
//	    var parseErr *dockererrors.ParseError
//	    if errors.As(err, &parseErr) {
//	        fmt.Printf("bad YAML at line %d\n", parseErr.Line)
//	    }
//	}
package dockererrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrCheck indicates a stack audit failure.
	ErrCheck = errors.New("check error")

	// ErrDocker indicates a failure driving the docker compose CLI.
	ErrDocker = errors.New("docker error")

	// ErrDockerUnavailable indicates the docker CLI could not be found or started.
	ErrDockerUnavailable = errors.New("docker unavailable")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse a stack artifact.
// This includes YAML deserialization errors and nginx config syntax issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// CheckError represents a stack audit failure.
type CheckError struct {
	// Path is the dotted model path to the problematic element
	Path string
	// Field is the specific field or directive name with the issue
	Field string
	// Value is the problematic value (may be nil)
	Value any
	// Message describes the check failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *CheckError) Error() string {
	msg := "check error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CheckError) Is(target error) bool {
	return target == ErrCheck
}

// DockerError represents a failure driving the docker compose CLI.
type DockerError struct {
	// Command is the docker subcommand that failed (e.g., "compose up")
	Command string
	// ExitCode is the process exit code (-1 if the process did not start)
	ExitCode int
	// Stderr is the captured standard error output, if any
	Stderr string
	// Unavailable is true if the docker CLI could not be found or started
	Unavailable bool
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DockerError) Error() string {
	msg := "docker error"
	if e.Unavailable {
		msg = "docker unavailable"
	}
	if e.Command != "" {
		msg += ": docker " + e.Command
	}
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DockerError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrDocker, and also ErrDockerUnavailable when the Unavailable
// flag is set.
func (e *DockerError) Is(target error) bool {
	if target == ErrDocker {
		return true
	}
	return target == ErrDockerUnavailable && e.Unavailable
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
