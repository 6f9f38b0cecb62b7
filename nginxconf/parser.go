package nginxconf

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erraggy/stackcheck/dockererrors"
)

// Parser handles Nginx configuration parsing
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

// ParseResult contains the parsed Nginx configuration and metadata.
type ParseResult struct {
	// SourcePath is the input file path (empty when parsing raw bytes)
	SourcePath string
	// Config is the parsed directive tree
	Config *Config
	// Warnings contains non-fatal parsing issues, such as a missing
	// terminating semicolon
	Warnings []string
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// LoadTime is the time taken to load and parse the source
	LoadTime time.Duration
}

// ParseWithOptions parses an Nginx configuration using functional options.
//
// Example:
//
//	result, err := nginxconf.ParseWithOptions(nginxconf.WithFilePath("default.conf"))
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("nginxconf: invalid options: %w", err)
	}

	p := &Parser{Logger: cfg.logger}
	if cfg.filePath != nil {
		return p.Parse(*cfg.filePath)
	}
	// cfg.data must be non-nil here (validated by applyOptions)
	return p.ParseBytes(cfg.data, "")
}

// Parse reads and parses the Nginx configuration file at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dockererrors.ParseError{
			Path:    path,
			Message: "reading nginx config",
			Cause:   err,
		}
	}
	return p.ParseBytes(data, path)
}

// ParseBytes parses raw Nginx configuration data. sourcePath may be empty
// and is used only for error reporting.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	start := time.Now()

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &dockererrors.ParseError{
			Path:    sourcePath,
			Message: "empty nginx config",
		}
	}

	lx := &lexer{data: data, line: 1, column: 1}
	tokens, err := lx.run()
	if err != nil {
		return nil, err
	}

	pr := &blockParser{tokens: tokens, sourcePath: sourcePath}
	root, err := pr.parseBlock(0)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		SourcePath: sourcePath,
		Config:     &Config{Block: root, SourcePath: sourcePath},
		Warnings:   pr.warnings,
		SourceSize: int64(len(data)),
		LoadTime:   time.Since(start),
	}

	p.log().Debug("parsed nginx config",
		"path", sourcePath,
		"directives", len(root.Directives),
		"warnings", len(result.Warnings))

	return result, nil
}

// tokenKind discriminates lexer output.
type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenOpenBrace
	tokenCloseBrace
	tokenSemicolon
)

type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
}

// lexer splits Nginx config bytes into words, braces, and semicolons.
// Comments run from '#' to end of line. Single and double quoted strings
// keep embedded whitespace and are emitted with quotes stripped.
type lexer struct {
	data   []byte
	pos    int
	line   int
	column int
}

func (l *lexer) run() ([]token, error) {
	var tokens []token
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case c == '#':
			l.skipComment()
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		case c == '\n':
			l.advance()
		case c == '{':
			tokens = append(tokens, token{tokenOpenBrace, "{", l.line, l.column})
			l.advance()
		case c == '}':
			tokens = append(tokens, token{tokenCloseBrace, "}", l.line, l.column})
			l.advance()
		case c == ';':
			tokens = append(tokens, token{tokenSemicolon, ";", l.line, l.column})
			l.advance()
		case c == '\'' || c == '"':
			tok, err := l.quotedWord(c)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			tokens = append(tokens, l.bareWord())
		}
	}
	return tokens, nil
}

func (l *lexer) advance() {
	if l.data[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *lexer) skipComment() {
	for l.pos < len(l.data) && l.data[l.pos] != '\n' {
		l.advance()
	}
}

func (l *lexer) quotedWord(quote byte) (token, error) {
	startLine, startCol := l.line, l.column
	l.advance() // opening quote
	var sb strings.Builder
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == quote {
			l.advance()
			return token{tokenWord, sb.String(), startLine, startCol}, nil
		}
		if c == '\\' && l.pos+1 < len(l.data) {
			l.advance()
			c = l.data[l.pos]
		}
		sb.WriteByte(c)
		l.advance()
	}
	return token{}, &dockererrors.ParseError{
		Line:    startLine,
		Column:  startCol,
		Message: "unterminated quoted string",
	}
}

func (l *lexer) bareWord() token {
	startLine, startCol := l.line, l.column
	var sb strings.Builder
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' ||
			c == '{' || c == '}' || c == ';' || c == '#' {
			break
		}
		sb.WriteByte(c)
		l.advance()
	}
	return token{tokenWord, sb.String(), startLine, startCol}
}

// blockParser assembles tokens into a directive tree.
type blockParser struct {
	tokens     []token
	pos        int
	sourcePath string
	warnings   []string
}

// parseBlock consumes directives until a closing brace (depth > 0) or the
// end of input (depth == 0).
func (bp *blockParser) parseBlock(depth int) (*Block, error) {
	block := &Block{}
	var pending []token

	flush := func(body *Block, terminated bool) {
		if len(pending) == 0 {
			return
		}
		d := &Directive{
			Name:   pending[0].text,
			Line:   pending[0].line,
			Column: pending[0].column,
			Block:  body,
		}
		for _, t := range pending[1:] {
			d.Args = append(d.Args, t.text)
		}
		if !terminated && body == nil {
			bp.warnings = append(bp.warnings,
				fmt.Sprintf("directive %q at line %d is missing a terminating semicolon", d.Name, d.Line))
		}
		block.Directives = append(block.Directives, d)
		pending = nil
	}

	for bp.pos < len(bp.tokens) {
		tok := bp.tokens[bp.pos]
		switch tok.kind {
		case tokenWord:
			pending = append(pending, tok)
			bp.pos++
		case tokenSemicolon:
			if len(pending) == 0 {
				bp.warnings = append(bp.warnings,
					fmt.Sprintf("stray semicolon at line %d", tok.line))
				bp.pos++
				continue
			}
			flush(nil, true)
			bp.pos++
		case tokenOpenBrace:
			if len(pending) == 0 {
				return nil, &dockererrors.ParseError{
					Path:    bp.sourcePath,
					Line:    tok.line,
					Column:  tok.column,
					Message: "unexpected '{' without a directive name",
				}
			}
			bp.pos++
			body, err := bp.parseBlock(depth + 1)
			if err != nil {
				return nil, err
			}
			flush(body, true)
		case tokenCloseBrace:
			if depth == 0 {
				return nil, &dockererrors.ParseError{
					Path:    bp.sourcePath,
					Line:    tok.line,
					Column:  tok.column,
					Message: "unexpected '}' at top level",
				}
			}
			flush(nil, false)
			bp.pos++
			return block, nil
		}
	}

	if depth > 0 {
		return nil, &dockererrors.ParseError{
			Path:    bp.sourcePath,
			Message: "unexpected end of file inside block",
		}
	}
	flush(nil, false)
	return block, nil
}
