package mcpserver

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from STACKCHECK_* environment variables.
type serverConfig struct {
	// Strict enables strict cross-artifact checks by default.
	Strict bool `env:"STACKCHECK_STRICT" envDefault:"false"`
	// NoWarnings suppresses warnings from tool output by default.
	NoWarnings bool `env:"STACKCHECK_NO_WARNINGS" envDefault:"false"`
	// IssueLimit is the default maximum number of issues returned per call.
	IssueLimit int `env:"STACKCHECK_ISSUE_LIMIT" envDefault:"100"`
	// MaxLimit caps any caller-supplied limit.
	MaxLimit int `env:"STACKCHECK_MAX_LIMIT" envDefault:"1000"`
	// MaxInlineSize bounds inline artifact content in bytes.
	MaxInlineSize int64 `env:"STACKCHECK_MAX_INLINE_SIZE" envDefault:"1048576"`
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from STACKCHECK_* environment variables.
// Invalid values log a warning and fall back to the defaults.
func loadConfig() *serverConfig {
	c := &serverConfig{}
	if err := env.Parse(c); err != nil {
		slog.Warn("invalid STACKCHECK_* environment, using defaults", "error", err)
		fallback := &serverConfig{IssueLimit: 100, MaxLimit: 1000, MaxInlineSize: 1 << 20}
		return fallback
	}
	if c.IssueLimit <= 0 {
		c.IssueLimit = 100
	}
	if c.MaxLimit < c.IssueLimit {
		c.MaxLimit = c.IssueLimit
	}
	if c.MaxInlineSize <= 0 {
		c.MaxInlineSize = 1 << 20
	}
	return c
}
