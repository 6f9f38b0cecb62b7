package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseNginxInput struct {
	Config artifactInput `json:"config" jsonschema:"The Nginx server config to parse"`
}

type nginxDirective struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
	Line int      `json:"line"`
}

type nginxLocation struct {
	Matcher    string           `json:"matcher"`
	Line       int              `json:"line"`
	Directives []nginxDirective `json:"directives,omitempty"`
}

type parseNginxOutput struct {
	Listen    string          `json:"listen,omitempty"`
	Root      string          `json:"root,omitempty"`
	Index     []string        `json:"index,omitempty"`
	Locations []nginxLocation `json:"locations,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

func handleParseNginx(_ context.Context, _ *mcp.CallToolRequest, input parseNginxInput) (*mcp.CallToolResult, parseNginxOutput, error) {
	result, err := input.Config.resolveNginx()
	if err != nil {
		return errResult(err), parseNginxOutput{}, nil
	}
	conf := result.Config

	output := parseNginxOutput{
		Warnings: result.Warnings,
	}
	if listen := conf.Find("listen"); listen != nil {
		output.Listen = listen.Value()
	}
	if root := conf.Find("root"); root != nil {
		output.Root = root.Value()
	}
	if index := conf.Find("index"); index != nil {
		output.Index = index.Args
	}

	locations := conf.Locations()
	output.Locations = makeSlice[nginxLocation](len(locations))
	for _, loc := range locations {
		entry := nginxLocation{
			Matcher: loc.Value(),
			Line:    loc.Line,
		}
		if loc.Block != nil {
			entry.Directives = makeSlice[nginxDirective](len(loc.Block.Directives))
			for _, d := range loc.Block.Directives {
				entry.Directives = append(entry.Directives, nginxDirective{
					Name: d.Name,
					Args: d.Args,
					Line: d.Line,
				})
			}
		}
		output.Locations = append(output.Locations, entry)
	}

	return nil, output, nil
}
