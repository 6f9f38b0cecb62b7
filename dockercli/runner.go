package dockercli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/erraggy/stackcheck/dockererrors"
	"github.com/erraggy/stackcheck/internal/logging"
)

// DefaultTimeout bounds a single docker compose invocation.
const DefaultTimeout = 2 * time.Minute

// defaultHealthPollInterval is how often WaitHealthy re-checks container state.
const defaultHealthPollInterval = 2 * time.Second

// Container is one row of docker compose ps output.
type Container struct {
	// Name is the container name (e.g. "mystack-mariadb-1")
	Name string `json:"Name"`
	// Service is the compose service name
	Service string `json:"Service"`
	// State is the container state ("running", "exited", ...)
	State string `json:"State"`
	// Health is the health status ("healthy", "unhealthy", "starting")
	// or empty for containers without a healthcheck
	Health string `json:"Health"`
	// ExitCode is meaningful only for exited containers
	ExitCode int `json:"ExitCode"`
}

// Running returns true if the container is in the running state.
func (c Container) Running() bool {
	return c.State == "running"
}

// Runner executes docker compose commands for one project directory.
type Runner struct {
	// ProjectDir is the working directory for compose invocations
	ProjectDir string
	// ComposeFile overrides the compose file path. Empty means compose's
	// own file discovery inside ProjectDir.
	ComposeFile string
	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger logging.Logger
}

// New creates a Runner for the given project directory.
func New(projectDir string) *Runner {
	return &Runner{ProjectDir: projectDir}
}

// log returns the configured logger, or a no-op logger if none is set.
func (r *Runner) log() logging.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.NopLogger{}
}

// Available returns nil if the docker binary can be found, or a
// DockerError wrapping ErrDockerUnavailable.
func (r *Runner) Available() error {
	if _, err := exec.LookPath("docker"); err != nil {
		return &dockererrors.DockerError{
			Unavailable: true,
			Cause:       err,
		}
	}
	return nil
}

// run executes docker compose with the given arguments and returns stdout.
func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	if err := r.Available(); err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	full := []string{"compose"}
	if r.ComposeFile != "" {
		full = append(full, "-f", r.ComposeFile)
	}
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, "docker", full...)
	cmd.Dir = r.ProjectDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log().Debug("running docker compose",
		"args", strings.Join(full, " "),
		"dir", r.ProjectDir)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &dockererrors.DockerError{
			Command:  strings.Join(full, " "),
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Cause:    err,
		}
	}
	return stdout.Bytes(), nil
}

// ConfigValid asks docker compose to resolve and validate the compose file.
// A nil return means the file is accepted by the real resolver.
func (r *Runner) ConfigValid(ctx context.Context) error {
	_, err := r.run(ctx, "config", "--quiet")
	return err
}

// Up starts the stack in detached mode.
func (r *Runner) Up(ctx context.Context) error {
	_, err := r.run(ctx, "up", "-d")
	return err
}

// Down stops the stack. When removeVolumes is true, named volumes are
// destroyed too, which resets the database.
func (r *Runner) Down(ctx context.Context, removeVolumes bool) error {
	args := []string{"down"}
	if removeVolumes {
		args = append(args, "-v")
	}
	_, err := r.run(ctx, args...)
	return err
}

// PS lists the stack's containers with their state and health.
func (r *Runner) PS(ctx context.Context) ([]Container, error) {
	out, err := r.run(ctx, "ps", "--all", "--format", "json")
	if err != nil {
		return nil, err
	}
	return parsePS(out)
}

// parsePS decodes docker compose ps --format json output. Recent compose
// versions emit one JSON object per line; older ones emit a JSON array.
func parsePS(out []byte) ([]Container, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var containers []Container
		if err := json.Unmarshal(trimmed, &containers); err != nil {
			return nil, &dockererrors.DockerError{
				Command: "compose ps",
				Cause:   fmt.Errorf("decoding ps output: %w", err),
			}
		}
		return containers, nil
	}

	var containers []Container
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var c Container
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, &dockererrors.DockerError{
				Command: "compose ps",
				Cause:   fmt.Errorf("decoding ps output line: %w", err),
			}
		}
		containers = append(containers, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, &dockererrors.DockerError{
			Command: "compose ps",
			Cause:   err,
		}
	}
	return containers, nil
}

// Service returns the container for the named compose service, or nil.
func Service(containers []Container, name string) *Container {
	for i := range containers {
		if containers[i].Service == name {
			return &containers[i]
		}
	}
	return nil
}

// WaitHealthy polls until the named service reports healthy, the service
// exits, or ctx is done.
func (r *Runner) WaitHealthy(ctx context.Context, service string) error {
	ticker := time.NewTicker(defaultHealthPollInterval)
	defer ticker.Stop()

	for {
		containers, err := r.PS(ctx)
		if err != nil {
			return err
		}
		c := Service(containers, service)
		switch {
		case c == nil:
			return &dockererrors.DockerError{
				Command: "compose ps",
				Stderr:  fmt.Sprintf("service %q has no container", service),
			}
		case c.Health == "healthy":
			return nil
		case c.State == "exited":
			return &dockererrors.DockerError{
				Command:  "compose ps",
				ExitCode: c.ExitCode,
				Stderr:   fmt.Sprintf("service %q exited while waiting for health", service),
			}
		}

		r.log().Debug("waiting for service health",
			"service", service,
			"state", c.State,
			"health", c.Health)

		select {
		case <-ctx.Done():
			return &dockererrors.DockerError{
				Command: "compose ps",
				Stderr:  fmt.Sprintf("timed out waiting for service %q", service),
				Cause:   ctx.Err(),
			}
		case <-ticker.C:
		}
	}
}
