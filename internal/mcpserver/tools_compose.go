package mcpserver

import (
	"context"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseComposeInput struct {
	Compose artifactInput `json:"compose" jsonschema:"The docker-compose.yml to parse"`
}

type composeServiceSummary struct {
	Name        string            `json:"name"`
	Image       string            `json:"image,omitempty"`
	Build       string            `json:"build,omitempty"`
	Ports       []string          `json:"ports,omitempty"`
	Volumes     []string          `json:"volumes,omitempty"`
	EnvKeys     []string          `json:"env_keys,omitempty"`
	DependsOn   map[string]string `json:"depends_on,omitempty"`
	Healthcheck string            `json:"healthcheck,omitempty"`
}

type parseComposeOutput struct {
	Version  string                  `json:"version,omitempty"`
	Services []composeServiceSummary `json:"services,omitempty"`
	Volumes  []string                `json:"volumes,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
}

func handleParseCompose(_ context.Context, _ *mcp.CallToolRequest, input parseComposeInput) (*mcp.CallToolResult, parseComposeOutput, error) {
	result, err := input.Compose.resolveCompose()
	if err != nil {
		return errResult(err), parseComposeOutput{}, nil
	}
	proj := result.Project

	output := parseComposeOutput{
		Version:  proj.Version,
		Warnings: result.Warnings,
	}

	names := make([]string, 0, len(proj.Services))
	for name := range proj.Services {
		names = append(names, name)
	}
	slices.Sort(names)

	output.Services = makeSlice[composeServiceSummary](len(names))
	for _, name := range names {
		svc := proj.Services[name]
		if svc == nil {
			// empty service body; the parse warning already flags it
			output.Services = append(output.Services, composeServiceSummary{Name: name})
			continue
		}
		summary := composeServiceSummary{
			Name:  name,
			Image: svc.Image,
		}
		if svc.Build != nil {
			summary.Build = svc.Build.Context
		}
		summary.Ports = makeSlice[string](len(svc.Ports))
		for _, p := range svc.Ports {
			summary.Ports = append(summary.Ports, p.String())
		}
		summary.Volumes = makeSlice[string](len(svc.Volumes))
		for _, m := range svc.Volumes {
			summary.Volumes = append(summary.Volumes, m.Raw)
		}
		summary.EnvKeys = makeSlice[string](len(svc.Environment))
		for key := range svc.Environment {
			summary.EnvKeys = append(summary.EnvKeys, key)
		}
		slices.Sort(summary.EnvKeys)
		if len(svc.DependsOn.Services) > 0 {
			summary.DependsOn = make(map[string]string, len(svc.DependsOn.Services))
			for dep, cond := range svc.DependsOn.Services {
				summary.DependsOn[dep] = cond.Condition
			}
		}
		if svc.Healthcheck != nil {
			summary.Healthcheck = svc.Healthcheck.Test.String()
		}
		output.Services = append(output.Services, summary)
	}

	output.Volumes = makeSlice[string](len(proj.Volumes))
	for name := range proj.Volumes {
		output.Volumes = append(output.Volumes, name)
	}
	slices.Sort(output.Volumes)

	return nil, output, nil
}
