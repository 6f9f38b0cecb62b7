package checker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/erraggy/stackcheck/compose"
	"github.com/erraggy/stackcheck/dockererrors"
	"github.com/erraggy/stackcheck/internal/issues"
	"github.com/erraggy/stackcheck/internal/logging"
	"github.com/erraggy/stackcheck/internal/severity"
	"github.com/erraggy/stackcheck/launcher"
	"github.com/erraggy/stackcheck/nginxconf"
)

// Severity indicates the severity level of an audit issue
type Severity = severity.Severity

const (
	// SeverityError indicates a violation that makes the stack configuration invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a best practice violation or recommendation
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
	// SeverityCritical indicates artifacts that could not be processed
	SeverityCritical = severity.SeverityCritical
)

const (
	// defaultErrorCapacity is the initial capacity for error slices
	defaultErrorCapacity = 10
	// defaultWarningCapacity is the initial capacity for warning slices
	defaultWarningCapacity = 10
)

// Expected stack shape. These mirror the development stack the rules audit:
// Nginx serving /var/www/html on port 80 behind host port 8000, proxying
// PHP to the php-fpm service on port 9000, MariaDB initialized from
// support/db.sql and persisted in the db_data volume.
const (
	expectedDocRoot     = "/var/www/html"
	expectedListenPort  = "80"
	expectedWebPort     = "8000:80"
	expectedFastCGIPass = "php:9000"
	expectedInitTarget  = "/docker-entrypoint-initdb.d/db.sql"
	expectedInitSource  = "support/db.sql"
	expectedDataTarget  = "/var/lib/mysql"
	expectedDataVolume  = "db_data"
	rootPasswordVar     = "MARIADB_ROOT_PASSWORD"

	serviceWeb     = "web"
	servicePHP     = "php"
	serviceMariaDB = "mariadb"
)

// Issue represents a single audit issue
type Issue = issues.Issue

// Result contains the results of auditing a stack
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// StackDir is the audited directory
	StackDir string
	// Topics lists the rule topics that ran
	Topics []string
	// Errors contains all audit errors (including critical issues)
	Errors []Issue
	// Warnings contains all audit warnings
	Warnings []Issue
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// LoadTime is the time taken to load and parse the stack artifacts
	LoadTime time.Duration
	// Stack holds the parsed artifacts for further inspection
	Stack *Stack
}

// Err returns a CheckError describing the failed audit, or nil when the
// stack passed. The error carries the path and field of the first error
// issue so callers can report something actionable without the full result.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	checkErr := &dockererrors.CheckError{
		Message: fmt.Sprintf("stack check failed with %d error(s)", r.ErrorCount),
	}
	if len(r.Errors) > 0 {
		checkErr.Path = r.Errors[0].Path
		checkErr.Field = r.Errors[0].Field
		checkErr.Value = r.Errors[0].Value
	}
	return checkErr
}

// Stack holds the parsed stack artifacts.
type Stack struct {
	// Dir is the stack directory (empty when artifacts were given directly)
	Dir string
	// Nginx is the parsed server config; nil if missing or unreadable
	Nginx *nginxconf.ParseResult
	// Compose is the parsed compose definition; nil if missing or unreadable
	Compose *compose.ParseResult
	// Launcher is the parsed launcher script; nil if missing or unreadable
	Launcher *launcher.ParseResult
	// Dockerfile is the raw Nginx image Dockerfile; empty if missing
	Dockerfile string

	// Artifact paths actually used
	NginxPath      string
	ComposePath    string
	LauncherPath   string
	DockerfilePath string
}

// Checker audits stack configuration artifacts
type Checker struct {
	// IncludeWarnings determines whether to include best practice warnings
	IncludeWarnings bool
	// StrictMode enables cross-artifact consistency rules beyond the
	// per-file assertions
	StrictMode bool
	// Topics restricts which rule topics run. Empty means all.
	Topics []string
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger logging.Logger
}

// New creates a new Checker instance with default settings
func New() *Checker {
	return &Checker{
		IncludeWarnings: true,
		StrictMode:      false,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (c *Checker) log() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.NopLogger{}
}

// CheckWithOptions audits a stack using functional options.
//
// Example:
//
//	result, err := checker.CheckWithOptions(
//	    checker.WithStackDir("."),
//	    checker.WithStrictMode(true),
//	)
func CheckWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("checker: invalid options: %w", err)
	}

	c := &Checker{
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
		Topics:          cfg.topics,
		Logger:          cfg.logger,
	}
	return c.Check(cfg.stack())
}

// Check audits the stack described by spec. Missing or unparsable artifacts
// become critical issues on their topics rather than hard failures, so a
// single broken file still yields a complete report for everything else.
func (c *Checker) Check(spec StackSpec) (*Result, error) {
	start := time.Now()

	result := &Result{
		StackDir: spec.Dir,
		Topics:   c.enabledTopics(),
		Errors:   make([]Issue, 0, defaultErrorCapacity),
		Warnings: make([]Issue, 0, defaultWarningCapacity),
	}

	stack := c.loadStack(spec, result)
	result.Stack = stack
	result.LoadTime = time.Since(start)

	if c.topicEnabled(TopicNginxStatic) {
		c.checkNginxStatic(result, stack)
	}
	if c.topicEnabled(TopicNginxPHP) {
		c.checkNginxPHP(result, stack)
	}
	if c.topicEnabled(TopicNginxImage) {
		c.checkNginxImage(result, stack)
	}
	if c.topicEnabled(TopicComposeServices) {
		c.checkComposeServices(result, stack)
	}
	if c.topicEnabled(TopicComposeHealth) {
		c.checkComposeHealth(result, stack)
	}
	if c.topicEnabled(TopicComposeVolumes) {
		c.checkComposeVolumes(result, stack)
	}
	if c.topicEnabled(TopicLauncher) {
		c.checkLauncher(result, stack)
	}

	if !c.IncludeWarnings {
		result.Warnings = result.Warnings[:0]
	}

	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0

	c.log().Info("stack audit complete",
		"dir", spec.Dir,
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"valid", result.Valid)

	return result, nil
}

// StackSpec names the artifacts to audit. Zero-value fields fall back to
// conventional names inside Dir.
type StackSpec struct {
	// Dir is the stack directory
	Dir string
	// NginxPath overrides the Nginx config location (default: Dir/default.conf)
	NginxPath string
	// ComposePath overrides the compose file location
	// (default: Dir/docker-compose.yml, falling back to .yaml)
	ComposePath string
	// LauncherPath overrides the launcher script location (default: Dir/run.cmd)
	LauncherPath string
	// DockerfilePath overrides the Nginx Dockerfile location
	// (default: first Dir/Dockerfile* whose name mentions nginx,
	// falling back to Dir/Dockerfile)
	DockerfilePath string
}

// resolve fills defaulted paths from Dir and naming conventions.
func (s StackSpec) resolve() StackSpec {
	if s.NginxPath == "" {
		s.NginxPath = filepath.Join(s.Dir, "default.conf")
	}
	if s.ComposePath == "" {
		yml := filepath.Join(s.Dir, "docker-compose.yml")
		if _, err := os.Stat(yml); err != nil {
			if yaml := filepath.Join(s.Dir, "docker-compose.yaml"); fileExists(yaml) {
				yml = yaml
			}
		}
		s.ComposePath = yml
	}
	if s.LauncherPath == "" {
		s.LauncherPath = filepath.Join(s.Dir, "run.cmd")
	}
	if s.DockerfilePath == "" {
		s.DockerfilePath = findNginxDockerfile(s.Dir)
	}
	return s
}

// findNginxDockerfile picks the Dockerfile that builds the Nginx image:
// the first Dockerfile* whose name mentions nginx, else plain Dockerfile.
func findNginxDockerfile(dir string) string {
	matches, _ := filepath.Glob(filepath.Join(dir, "Dockerfile*"))
	slices.Sort(matches)
	for _, m := range matches {
		if containsFold(filepath.Base(m), "nginx") {
			return m
		}
	}
	return filepath.Join(dir, "Dockerfile")
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadStack parses every artifact, converting load failures into critical
// issues on the result.
func (c *Checker) loadStack(spec StackSpec, result *Result) *Stack {
	spec = spec.resolve()
	stack := &Stack{
		Dir:            spec.Dir,
		NginxPath:      spec.NginxPath,
		ComposePath:    spec.ComposePath,
		LauncherPath:   spec.LauncherPath,
		DockerfilePath: spec.DockerfilePath,
	}

	if c.topicEnabled(TopicNginxStatic) || c.topicEnabled(TopicNginxPHP) {
		nginx, err := nginxconf.ParseWithOptions(nginxconf.WithFilePath(spec.NginxPath))
		if err != nil {
			c.addCritical(result, "nginx", spec.NginxPath, err)
		} else {
			stack.Nginx = nginx
			for _, warning := range nginx.Warnings {
				result.Warnings = append(result.Warnings, Issue{
					Path:     "server",
					Message:  warning,
					Severity: SeverityWarning,
					Topic:    TopicNginxStatic,
					File:     spec.NginxPath,
				})
			}
		}
	}

	needsCompose := c.topicEnabled(TopicComposeServices) ||
		c.topicEnabled(TopicComposeHealth) ||
		c.topicEnabled(TopicComposeVolumes) ||
		(c.StrictMode && (c.topicEnabled(TopicNginxPHP) || c.topicEnabled(TopicNginxStatic)))
	if needsCompose {
		proj, err := compose.ParseWithOptions(
			compose.WithFilePath(spec.ComposePath),
			compose.WithSourceMap(true),
		)
		if err != nil {
			c.addCritical(result, "compose", spec.ComposePath, err)
		} else {
			stack.Compose = proj
			for _, warning := range proj.Warnings {
				result.Warnings = append(result.Warnings, Issue{
					Path:     "services",
					Message:  warning,
					Severity: SeverityWarning,
					Topic:    TopicComposeServices,
					File:     spec.ComposePath,
				})
			}
		}
	}

	if c.topicEnabled(TopicLauncher) {
		script, err := launcher.ParseWithOptions(launcher.WithFilePath(spec.LauncherPath))
		if err != nil {
			c.addCritical(result, "launcher", spec.LauncherPath, err)
		} else {
			stack.Launcher = script
		}
	}

	if c.topicEnabled(TopicNginxImage) {
		data, err := os.ReadFile(spec.DockerfilePath)
		if err != nil {
			c.addCritical(result, "dockerfile", spec.DockerfilePath, err)
		} else {
			stack.Dockerfile = string(data)
		}
	}

	return stack
}

// addCritical records an artifact load failure.
func (c *Checker) addCritical(result *Result, path, file string, err error) {
	issue := Issue{
		Path:     path,
		Message:  err.Error(),
		Severity: SeverityCritical,
		File:     file,
	}
	var parseErr *dockererrors.ParseError
	if errors.As(err, &parseErr) {
		issue.Line = parseErr.Line
		issue.Column = parseErr.Column
	}
	result.Errors = append(result.Errors, issue)
}

// enabledTopics returns the topics that will run, in report order.
func (c *Checker) enabledTopics() []string {
	if len(c.Topics) == 0 {
		return AllTopics()
	}
	var enabled []string
	for _, topic := range AllTopics() {
		if slices.Contains(c.Topics, topic) {
			enabled = append(enabled, topic)
		}
	}
	return enabled
}

func (c *Checker) topicEnabled(topic string) bool {
	return len(c.Topics) == 0 || slices.Contains(c.Topics, topic)
}

// addError appends an audit error.
func (c *Checker) addError(result *Result, topic, path, message string, opts ...func(*Issue)) {
	issue := Issue{
		Path:     path,
		Message:  message,
		Severity: SeverityError,
		Topic:    topic,
	}
	for _, opt := range opts {
		opt(&issue)
	}
	result.Errors = append(result.Errors, issue)
}

// addWarning appends an audit warning.
func (c *Checker) addWarning(result *Result, topic, path, message string, opts ...func(*Issue)) {
	issue := Issue{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
		Topic:    topic,
	}
	for _, opt := range opts {
		opt(&issue)
	}
	result.Warnings = append(result.Warnings, issue)
}

// withField sets the Field on an Issue.
func withField(field string) func(*Issue) {
	return func(i *Issue) { i.Field = field }
}

// withValue sets the Value on an Issue.
func withValue(value any) func(*Issue) {
	return func(i *Issue) { i.Value = value }
}

// withDirective copies a directive's source position onto an Issue.
func withDirective(d *nginxconf.Directive, file string) func(*Issue) {
	return func(i *Issue) {
		if d == nil {
			return
		}
		i.Line = d.Line
		i.Column = d.Column
		i.File = file
	}
}

// withComposeLocation copies a source map position onto an Issue.
func withComposeLocation(sm *compose.SourceMap, path, file string) func(*Issue) {
	return func(i *Issue) {
		if sm == nil {
			return
		}
		loc := sm.Get(path)
		if !loc.IsKnown() {
			loc = sm.GetKey(path)
		}
		if loc.IsKnown() {
			i.Line = loc.Line
			i.Column = loc.Column
			i.File = file
		}
	}
}
