// Package dockercli drives the docker compose CLI for live stack checks.
//
// The static audits in the checker package never touch Docker; this package
// is the optional live layer on top: validating the compose file with the
// real resolver, bringing the stack up and down, and inspecting container
// state and health.
//
// Basic usage:
//
//	runner := dockercli.New("path/to/stack")
//	if err := runner.ConfigValid(ctx); err != nil {
//	    // compose file rejected by docker compose config
//	}
//	containers, err := runner.PS(ctx)
//
// All operations shell out to "docker compose" and wrap failures in
// [dockererrors.DockerError]. A missing docker binary is reported with
// [dockererrors.ErrDockerUnavailable] so callers can skip live checks
// gracefully.
package dockercli
