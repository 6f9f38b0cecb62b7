package checker

import (
	"log/slog"

	"github.com/erraggy/stackcheck/internal/logging"
)

// Logger is the structured logging interface accepted by [WithLogger].
type Logger = logging.Logger

// NopLogger is a no-op logger that discards all output.
// It is the default logger used when no logger is configured.
type NopLogger = logging.NopLogger

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter = logging.SlogAdapter

// NewSlogAdapter creates a new SlogAdapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return logging.NewSlogAdapter(logger)
}
