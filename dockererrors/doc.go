// Package dockererrors provides structured error types for the stackcheck library.
//
// Import path: github.com/erraggy/stackcheck/dockererrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides four core error types:
//
//   - [ParseError]: Nginx config, compose YAML, and launcher script parsing failures
//   - [CheckError]: Stack audit failures
//   - [DockerError]: Failures driving the docker compose CLI
//   - [ConfigError]: Invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrCheck]: Matches any [CheckError]
//   - [ErrDocker]: Matches any [DockerError]
//   - [ErrDockerUnavailable]: Matches [DockerError] with Unavailable=true
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	result, err := checker.CheckWithOptions(checker.WithStackDir("."))
//	if errors.Is(err, dockererrors.ErrParse) {
//	    // Handle parse error
//	}
//
// Extract error details with errors.As():
//
//	var dockerErr *dockererrors.DockerError
//	if errors.As(err, &dockerErr) {
//	    if dockerErr.Unavailable {
//	        // Docker is not installed or not running - skip live checks
//	    }
//	}
//
// # Error Chaining
//
// All error types support error chaining via the Cause field and Unwrap() method.
// This allows finding root causes through the standard error chain:
//
//	var parseErr *dockererrors.ParseError
//	if errors.As(err, &parseErr) {
//	    if errors.Is(parseErr.Cause, os.ErrNotExist) {
//	        // The stack file doesn't exist
//	    }
//	}
package dockererrors
