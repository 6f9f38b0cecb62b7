package launcher

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erraggy/stackcheck/dockererrors"
)

// knownOptions are the launcher option keywords the parser recognizes.
var knownOptions = []string{"reset-db", "reset_db", "verbose"}

// Parser handles launcher script parsing
type Parser struct {
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// ParseResult contains the parsed launcher script and metadata.
type ParseResult struct {
	// SourcePath is the input file path (empty when parsing raw bytes)
	SourcePath string
	// Script is the structural summary
	Script *Script
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// LoadTime is the time taken to load and parse the source
	LoadTime time.Duration
}

// ParseWithOptions parses a launcher script using functional options.
//
// Example:
//
//	result, err := launcher.ParseWithOptions(launcher.WithFilePath("run.cmd"))
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("launcher: invalid options: %w", err)
	}

	p := &Parser{Logger: cfg.logger}
	if cfg.filePath != nil {
		return p.Parse(*cfg.filePath)
	}
	// cfg.data must be non-nil here (validated by applyOptions)
	return p.ParseBytes(cfg.data, "")
}

// Parse reads and parses the launcher script at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dockererrors.ParseError{
			Path:    path,
			Message: "reading launcher script",
			Cause:   err,
		}
	}
	return p.ParseBytes(data, path)
}

// ParseBytes parses raw launcher script text. sourcePath may be empty and
// is used only for error reporting.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	start := time.Now()

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, &dockererrors.ParseError{
			Path:    sourcePath,
			Message: "empty launcher script",
		}
	}

	script := &Script{
		SourcePath: sourcePath,
		Content:    content,
	}

	script.HasWindowsSection = strings.Contains(content, "@echo off") ||
		containsWord(content, "REM")
	script.HasUnixSection = strings.Contains(content, "#!/") ||
		strings.Contains(content, "set -e")
	script.WindowsArgParsing = strings.Contains(content, "%*") ||
		strings.Contains(content, "%1")
	script.UnixArgParsing = strings.Contains(content, `"$@"`) ||
		strings.Contains(content, "for arg in") ||
		strings.Contains(content, "$@")
	script.HasBanner = strings.Contains(content, "___")

	lowered := strings.ToLower(content)
	for _, keyword := range feedbackKeywords {
		if strings.Contains(lowered, keyword) {
			script.HasFeedback = true
			break
		}
	}

	for _, opt := range knownOptions {
		if strings.Contains(lowered, opt) {
			script.Options = append(script.Options, opt)
		}
	}

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		cmd, ok := parseComposeCommand(trimmed, i+1)
		if !ok {
			continue
		}
		script.Commands = append(script.Commands, cmd)
	}

	result := &ParseResult{
		SourcePath: sourcePath,
		Script:     script,
		SourceSize: int64(len(data)),
		LoadTime:   time.Since(start),
	}

	p.log().Debug("parsed launcher script",
		"path", sourcePath,
		"commands", len(script.Commands),
		"options", len(script.Options))

	return result, nil
}

// parseComposeCommand extracts a docker compose invocation from a script
// line. Both "docker compose" and the legacy "docker-compose" spellings are
// recognized.
func parseComposeCommand(line string, lineNum int) (Command, bool) {
	idx := strings.Index(line, "docker compose ")
	width := len("docker compose ")
	if idx < 0 {
		idx = strings.Index(line, "docker-compose ")
		width = len("docker-compose ")
	}
	if idx < 0 {
		return Command{}, false
	}

	rest := strings.Fields(line[idx+width:])
	if len(rest) == 0 {
		return Command{}, false
	}

	cmd := Command{
		Line: lineNum,
		Text: line,
	}

	// Skip global flags like "-f file" to find the subcommand.
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "-f" || arg == "--file" || arg == "-p" || arg == "--project-name" {
			i++
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		cmd.Action = arg
		for _, flag := range rest[i+1:] {
			switch flag {
			case "-v", "--volumes":
				cmd.RemoveVolumes = true
			case "-d", "--detach":
				cmd.Detached = true
			}
		}
		break
	}

	if cmd.Action == "" {
		return Command{}, false
	}
	return cmd, true
}

// containsWord reports whether content contains word delimited by
// non-letter characters, so "REM" is found but "REMOVE" alone is not.
func containsWord(content, word string) bool {
	for idx := strings.Index(content, word); idx >= 0; {
		before := idx == 0 || !isLetter(content[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(content) || !isLetter(content[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(content[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
