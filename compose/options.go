package compose

import "github.com/erraggy/stackcheck/internal/options"

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	data     []byte

	buildSourceMap bool
	logger         Logger
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

// WithBytes specifies raw compose YAML as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		cfg.data = data
		return nil
	}
}

// WithSourceMap enables source location tracking during parsing.
// When enabled, the ParseResult.SourceMap resolves dotted model paths to
// line/column positions.
// Default: false
func WithSourceMap(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.buildSourceMap = enabled
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
