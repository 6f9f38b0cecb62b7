package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/stackcheck/checker"
)

type checkStackInput struct {
	Dir        string   `json:"dir,omitempty"          jsonschema:"Stack directory containing the artifacts in their conventional locations"`
	Nginx      string   `json:"nginx,omitempty"        jsonschema:"Override path to the Nginx server config"`
	Compose    string   `json:"compose,omitempty"      jsonschema:"Override path to the docker-compose.yml"`
	Launcher   string   `json:"launcher,omitempty"     jsonschema:"Override path to the run.cmd launcher script"`
	Dockerfile string   `json:"dockerfile,omitempty"   jsonschema:"Override path to the Nginx image Dockerfile"`
	Topics     []string `json:"topics,omitempty"       jsonschema:"Restrict checks to these rule topics"`
	Strict     *bool    `json:"strict,omitempty"       jsonschema:"Enable strict cross-artifact consistency rules"`
	NoWarnings *bool    `json:"no_warnings,omitempty"  jsonschema:"Suppress warnings from output"`
	Offset     int      `json:"offset,omitempty"       jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit      int      `json:"limit,omitempty"        jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type checkStackOutput struct {
	Valid        bool        `json:"valid"`
	Topics       []string    `json:"topics"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Returned     int         `json:"returned"`
	Errors       []toolIssue `json:"errors,omitempty"`
	Warnings     []toolIssue `json:"warnings,omitempty"`
}

func handleCheckStack(_ context.Context, _ *mcp.CallToolRequest, input checkStackInput) (*mcp.CallToolResult, checkStackOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.Strict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.NoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	opts := []checker.Option{
		checker.WithStrictMode(strict),
		checker.WithIncludeWarnings(!noWarnings),
	}
	if input.Dir != "" {
		opts = append(opts, checker.WithStackDir(input.Dir))
	}
	if input.Nginx != "" {
		opts = append(opts, checker.WithNginxPath(input.Nginx))
	}
	if input.Compose != "" {
		opts = append(opts, checker.WithComposePath(input.Compose))
	}
	if input.Launcher != "" {
		opts = append(opts, checker.WithLauncherPath(input.Launcher))
	}
	if input.Dockerfile != "" {
		opts = append(opts, checker.WithDockerfilePath(input.Dockerfile))
	}
	if len(input.Topics) > 0 {
		opts = append(opts, checker.WithTopics(input.Topics...))
	}

	result, err := checker.CheckWithOptions(opts...)
	if err != nil {
		return errResult(err), checkStackOutput{}, nil
	}

	output := checkStackOutput{
		Valid:        result.Valid,
		Topics:       result.Topics,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
	}
	output.Errors = paginate(toToolIssues(result.Errors), input.Offset, input.Limit)
	output.Warnings = paginate(toToolIssues(result.Warnings), input.Offset, input.Limit)
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}
