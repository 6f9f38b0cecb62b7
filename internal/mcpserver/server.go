// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes stackcheck capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/stackcheck"
	"github.com/erraggy/stackcheck/internal/issues"
)

const serverInstructions = `stackcheck MCP server — audits a Docker-based Nginx + PHP-FPM + MariaDB development stack.

Configuration: All defaults are configurable via STACKCHECK_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- STACKCHECK_STRICT (default: false) — enable strict cross-artifact checks by default
- STACKCHECK_NO_WARNINGS (default: false) — suppress warnings by default
- STACKCHECK_ISSUE_LIMIT (default: 100) — default issue count per response
- STACKCHECK_MAX_LIMIT (default: 1000) — maximum issue count per response
- STACKCHECK_MAX_INLINE_SIZE (default: 1048576) — inline artifact size limit in bytes

The check_stack tool audits a whole stack directory. The parse_* tools inspect a single artifact (Nginx config, compose file, launcher script) without applying audit rules.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "stackcheck", Version: stackcheck.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_stack",
		Description: "Audit a Docker PHP development stack directory (Nginx config, docker-compose.yml, launcher script, Dockerfile). Returns errors and warnings with file/line locations grouped by rule topic. Use topics to restrict checks, strict for cross-artifact consistency rules, and offset/limit to paginate. Defaults are configurable via STACKCHECK_STRICT and STACKCHECK_NO_WARNINGS env vars.",
	}, handleCheckStack)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_nginx",
		Description: "Parse an Nginx server config into its directive tree. Returns the server's listen port, document root, index chain, and location blocks with their directives. No audit rules are applied; use check_stack for that.",
	}, handleParseNginx)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_compose",
		Description: "Parse a docker-compose.yml into a structural summary: services with images, ports, volume mounts, environment keys, dependencies and healthchecks, plus top-level named volumes. No audit rules are applied; use check_stack for that.",
	}, handleParseCompose)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_launcher",
		Description: "Parse a dual-platform run.cmd launcher script. Returns which platform sections are present, the docker compose invocations found, and the recognized option keywords. No audit rules are applied; use check_stack for that.",
	}, handleParseLauncher)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// toolIssue is the wire form of an audit issue.
type toolIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Topic   string `json:"topic,omitempty"`
	Field   string `json:"field,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// toToolIssues converts internal issues to their wire form.
func toToolIssues(in []issues.Issue) []toolIssue {
	out := makeSlice[toolIssue](len(in))
	for _, issue := range in {
		out = append(out, toolIssue{
			Path:    issue.Path,
			Message: issue.Message,
			Topic:   issue.Topic,
			Field:   issue.Field,
			File:    issue.File,
			Line:    issue.Line,
			Column:  issue.Column,
		})
	}
	return out
}
