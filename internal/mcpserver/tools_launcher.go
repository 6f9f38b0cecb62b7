package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseLauncherInput struct {
	Script artifactInput `json:"script" jsonschema:"The run.cmd launcher script to parse"`
}

type launcherCommand struct {
	Line          int    `json:"line"`
	Action        string `json:"action"`
	Text          string `json:"text"`
	RemoveVolumes bool   `json:"remove_volumes,omitempty"`
	Detached      bool   `json:"detached,omitempty"`
}

type parseLauncherOutput struct {
	HasWindowsSection bool              `json:"has_windows_section"`
	HasUnixSection    bool              `json:"has_unix_section"`
	WindowsArgParsing bool              `json:"windows_arg_parsing"`
	UnixArgParsing    bool              `json:"unix_arg_parsing"`
	HasBanner         bool              `json:"has_banner"`
	HasFeedback       bool              `json:"has_feedback"`
	Options           []string          `json:"options,omitempty"`
	Commands          []launcherCommand `json:"commands,omitempty"`
}

func handleParseLauncher(_ context.Context, _ *mcp.CallToolRequest, input parseLauncherInput) (*mcp.CallToolResult, parseLauncherOutput, error) {
	result, err := input.Script.resolveLauncher()
	if err != nil {
		return errResult(err), parseLauncherOutput{}, nil
	}
	script := result.Script

	output := parseLauncherOutput{
		HasWindowsSection: script.HasWindowsSection,
		HasUnixSection:    script.HasUnixSection,
		WindowsArgParsing: script.WindowsArgParsing,
		UnixArgParsing:    script.UnixArgParsing,
		HasBanner:         script.HasBanner,
		HasFeedback:       script.HasFeedback,
		Options:           script.Options,
	}
	output.Commands = makeSlice[launcherCommand](len(script.Commands))
	for _, cmd := range script.Commands {
		output.Commands = append(output.Commands, launcherCommand{
			Line:          cmd.Line,
			Action:        cmd.Action,
			Text:          cmd.Text,
			RemoveVolumes: cmd.RemoveVolumes,
			Detached:      cmd.Detached,
		})
	}

	return nil, output, nil
}
