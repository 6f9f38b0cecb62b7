package checker

import (
	"github.com/erraggy/stackcheck/dockererrors"
	"github.com/erraggy/stackcheck/internal/logging"
)

// Option is a functional option for configuring audit behavior
type Option func(*checkOptions)

// checkOptions holds the resolved option state.
type checkOptions struct {
	stackDir        string
	nginxPath       string
	composePath     string
	launcherPath    string
	dockerfilePath  string
	strictMode      bool
	includeWarnings bool
	topics          []string
	logger          logging.Logger
}

// WithStackDir audits the artifacts found in dir using conventional
// filenames (default.conf, docker-compose.yml, run.cmd, Dockerfile*).
func WithStackDir(dir string) Option {
	return func(o *checkOptions) {
		o.stackDir = dir
	}
}

// WithNginxPath overrides the Nginx server config path.
func WithNginxPath(path string) Option {
	return func(o *checkOptions) {
		o.nginxPath = path
	}
}

// WithComposePath overrides the compose file path.
func WithComposePath(path string) Option {
	return func(o *checkOptions) {
		o.composePath = path
	}
}

// WithLauncherPath overrides the launcher script path.
func WithLauncherPath(path string) Option {
	return func(o *checkOptions) {
		o.launcherPath = path
	}
}

// WithDockerfilePath overrides the Nginx image Dockerfile path.
func WithDockerfilePath(path string) Option {
	return func(o *checkOptions) {
		o.dockerfilePath = path
	}
}

// WithStrictMode enables cross-artifact consistency rules beyond the
// per-file assertions.
func WithStrictMode(strict bool) Option {
	return func(o *checkOptions) {
		o.strictMode = strict
	}
}

// WithIncludeWarnings determines whether best practice warnings are
// included in the result. Defaults to true.
func WithIncludeWarnings(include bool) Option {
	return func(o *checkOptions) {
		o.includeWarnings = include
	}
}

// WithTopics restricts the audit to the named rule topics.
// See AllTopics for valid names.
func WithTopics(topics ...string) Option {
	return func(o *checkOptions) {
		o.topics = topics
	}
}

// WithLogger sets a structured logger for debug output during auditing.
// If not set, logging is disabled.
//
// Example with slog:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	result, err := checker.CheckWithOptions(
//	    checker.WithStackDir("."),
//	    checker.WithLogger(checker.NewSlogAdapter(logger)),
//	)
func WithLogger(logger logging.Logger) Option {
	return func(o *checkOptions) {
		o.logger = logger
	}
}

// applyOptions applies all options and validates the resulting state.
func applyOptions(opts ...Option) (*checkOptions, error) {
	cfg := &checkOptions{
		includeWarnings: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.stackDir == "" && cfg.nginxPath == "" && cfg.composePath == "" &&
		cfg.launcherPath == "" && cfg.dockerfilePath == "" {
		return nil, &dockererrors.ConfigError{
			Option:  "stackDir",
			Message: "no stack directory or artifact paths provided",
		}
	}
	for _, topic := range cfg.topics {
		if !IsValidTopic(topic) {
			return nil, &dockererrors.ConfigError{
				Option:  "topics",
				Value:   topic,
				Message: "unknown topic",
			}
		}
	}
	return cfg, nil
}

// stack converts the options into a StackSpec.
func (o *checkOptions) stack() StackSpec {
	return StackSpec{
		Dir:            o.stackDir,
		NginxPath:      o.nginxPath,
		ComposePath:    o.composePath,
		LauncherPath:   o.launcherPath,
		DockerfilePath: o.dockerfilePath,
	}
}
