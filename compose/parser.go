package compose

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/stackcheck/dockererrors"
)

// Parser handles Docker Compose definition parsing
type Parser struct {
	// BuildSourceMap enables source location tracking during parsing.
	// When enabled, the ParseResult.SourceMap will contain line/column
	// information for each dotted model path in the document.
	// Default: false
	BuildSourceMap bool
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

// ParseResult contains the parsed compose project and metadata.
//
// Callers should treat ParseResult as read-only after parsing.
type ParseResult struct {
	// SourcePath is the input file path (empty when parsing raw bytes)
	SourcePath string
	// Project is the typed compose model
	Project *Project
	// SourceMap resolves dotted model paths to source positions.
	// Nil unless parsing was configured with WithSourceMap(true).
	SourceMap *SourceMap
	// Warnings contains non-fatal issues found during parsing
	Warnings []string
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// LoadTime is the time taken to load and parse the source
	LoadTime time.Duration
}

// ParseWithOptions parses a Docker Compose definition using functional options.
//
// Example:
//
//	result, err := compose.ParseWithOptions(
//	    compose.WithFilePath("docker-compose.yml"),
//	    compose.WithSourceMap(true),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("compose: invalid options: %w", err)
	}

	p := &Parser{
		BuildSourceMap: cfg.buildSourceMap,
		Logger:         cfg.logger,
	}
	if cfg.filePath != nil {
		return p.Parse(*cfg.filePath)
	}
	// cfg.data must be non-nil here (validated by applyOptions)
	return p.ParseBytes(cfg.data, "")
}

// Parse reads and parses the compose file at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dockererrors.ParseError{
			Path:    path,
			Message: "reading compose file",
			Cause:   err,
		}
	}
	return p.ParseBytes(data, path)
}

// ParseBytes parses raw compose YAML. sourcePath may be empty and is used
// only for error reporting and the source map.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	start := time.Now()

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &dockererrors.ParseError{
			Path:    sourcePath,
			Message: "empty compose file",
		}
	}

	// Decode through yaml.Node so the same tree serves both the typed
	// model and the source map.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, wrapYAMLError(sourcePath, err)
	}

	var project Project
	if err := root.Decode(&project); err != nil {
		return nil, wrapYAMLError(sourcePath, err)
	}

	result := &ParseResult{
		SourcePath: sourcePath,
		Project:    &project,
		SourceSize: int64(len(data)),
	}

	if len(project.Services) == 0 {
		result.Warnings = append(result.Warnings, "compose file defines no services")
	}
	for name, svc := range project.Services {
		if svc == nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("service %q has an empty definition", name))
			continue
		}
		if svc.Image == "" && svc.Build == nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("service %q has neither image nor build", name))
		}
	}

	if p.BuildSourceMap {
		result.SourceMap = buildSourceMap(&root, sourcePath)
	}

	result.LoadTime = time.Since(start)

	p.log().Debug("parsed compose file",
		"path", sourcePath,
		"services", len(project.Services),
		"volumes", len(project.Volumes),
		"warnings", len(result.Warnings))

	return result, nil
}

// wrapYAMLError converts a yaml decode error into a ParseError, extracting
// the line number from messages of the form "yaml: line N: ...".
func wrapYAMLError(sourcePath string, err error) error {
	line := 0
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "yaml: line "); ok {
		if n, _, found := strings.Cut(rest, ":"); found {
			_, _ = fmt.Sscanf(n, "%d", &line)
		}
	}
	return &dockererrors.ParseError{
		Path:    sourcePath,
		Line:    line,
		Message: "decoding compose YAML",
		Cause:   err,
	}
}
