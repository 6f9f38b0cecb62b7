package mcpserver

import (
	"fmt"

	"github.com/erraggy/stackcheck/compose"
	"github.com/erraggy/stackcheck/launcher"
	"github.com/erraggy/stackcheck/nginxconf"
)

// artifactInput represents the two ways a configuration artifact can be
// provided to a tool. Exactly one of File or Content must be set.
type artifactInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to the artifact on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline artifact content"`
}

// validate checks that exactly one input source was provided and enforces
// the inline size limit.
func (a artifactInput) validate() error {
	count := 0
	if a.File != "" {
		count++
	}
	if a.Content != "" {
		count++
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}
	if int64(len(a.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set STACKCHECK_MAX_INLINE_SIZE to increase",
			len(a.Content), cfg.MaxInlineSize)
	}
	return nil
}

// resolveNginx parses the input as an Nginx server config.
func (a artifactInput) resolveNginx() (*nginxconf.ParseResult, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.File != "" {
		return nginxconf.ParseWithOptions(nginxconf.WithFilePath(a.File))
	}
	return nginxconf.ParseWithOptions(nginxconf.WithBytes([]byte(a.Content)))
}

// resolveCompose parses the input as a compose file, with source locations.
func (a artifactInput) resolveCompose() (*compose.ParseResult, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	opts := []compose.Option{compose.WithSourceMap(true)}
	if a.File != "" {
		opts = append(opts, compose.WithFilePath(a.File))
	} else {
		opts = append(opts, compose.WithBytes([]byte(a.Content)))
	}
	return compose.ParseWithOptions(opts...)
}

// resolveLauncher parses the input as a launcher script.
func (a artifactInput) resolveLauncher() (*launcher.ParseResult, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.File != "" {
		return launcher.ParseWithOptions(launcher.WithFilePath(a.File))
	}
	return launcher.ParseWithOptions(launcher.WithBytes([]byte(a.Content)))
}
