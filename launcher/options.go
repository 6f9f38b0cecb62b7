package launcher

import (
	"log/slog"

	"github.com/erraggy/stackcheck/internal/logging"
	"github.com/erraggy/stackcheck/internal/options"
)

// Logger is the structured logging interface accepted by [WithLogger].
type Logger = logging.Logger

// NopLogger is a no-op logger that discards all output.
type NopLogger = logging.NopLogger

// NewSlogAdapter creates a Logger from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return logging.NewSlogAdapter(logger)
}

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	data     []byte

	logger Logger
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath or WithBytes)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.data != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies raw script text as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		cfg.data = data
		return nil
	}
}

// WithLogger sets the structured logger used for debug output.
// Default: logging disabled
func WithLogger(logger Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = logger
		return nil
	}
}
