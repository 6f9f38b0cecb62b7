// Package stackcheck provides tools for auditing a Docker-based PHP development
// stack (Nginx + PHP-FPM + MariaDB) from its declarative configuration.
//
// # Overview
//
// The library consists of four primary packages:
//
//   - nginxconf: Parse Nginx server configuration into a directive tree
//   - compose: Parse Docker Compose definitions into a typed service model
//   - launcher: Parse the dual-platform launcher script
//   - checker: Audit all stack artifacts and report severity-graded issues
//
// A fifth package, dockercli, drives the real `docker compose` CLI for live
// integration probes (compose config validation, service startup, health
// polling). It requires Docker and is only exercised when explicitly enabled.
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/stackcheck
//
// # Quick Start
//
// Audit a stack directory:
//
//	import "github.com/erraggy/stackcheck/checker"
//
//	result, err := checker.CheckWithOptions(checker.WithStackDir("."))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, issue := range result.Errors {
//		fmt.Println(issue.String())
//	}
//
// Parse a compose file on its own:
//
//	import "github.com/erraggy/stackcheck/compose"
//
//	result, err := compose.ParseWithOptions(compose.WithFilePath("docker-compose.yml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Services: %d\n", len(result.Project.Services))
//
// The stackcheck command wraps the same functionality for CI pipelines and
// also exposes it as MCP tools over stdio (see `stackcheck mcp`).
package stackcheck
