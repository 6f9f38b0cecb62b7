package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/erraggy/stackcheck"
	"github.com/erraggy/stackcheck/checker"
	"github.com/erraggy/stackcheck/compose"
	"github.com/erraggy/stackcheck/dockercli"
	"github.com/erraggy/stackcheck/internal/mcpserver"
	"github.com/erraggy/stackcheck/launcher"
	"github.com/erraggy/stackcheck/nginxconf"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("stackcheck v%s\n", stackcheck.Version())
	case "help", "-h", "--help":
		printUsage()
	case "check":
		if err := handleCheck(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "nginx":
		if err := handleNginx(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compose":
		if err := handleCompose(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "launcher":
		if err := handleLauncher(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// commandNames are the commands suggestCommand matches against.
var commandNames = []string{"check", "nginx", "compose", "launcher", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best = name
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// checkFlags contains flags for the check command
type checkFlags struct {
	strict     bool
	noWarnings bool
	topics     string
	live       bool
	nginx      string
	compose    string
	launcher   string
	dockerfile string
}

func setupCheckFlags() (*flag.FlagSet, *checkFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &checkFlags{}

	fs.BoolVar(&flags.strict, "strict", false, "enable strict cross-artifact consistency rules")
	fs.BoolVar(&flags.noWarnings, "no-warnings", false, "suppress warnings from output")
	fs.StringVar(&flags.topics, "topics", "", "comma-separated rule topics to run (default: all)")
	fs.BoolVar(&flags.live, "live", false, "also validate the compose file with the real docker compose resolver")
	fs.StringVar(&flags.nginx, "nginx", "", "override path to the Nginx server config")
	fs.StringVar(&flags.compose, "compose", "", "override path to the docker-compose.yml")
	fs.StringVar(&flags.launcher, "launcher", "", "override path to the run.cmd launcher script")
	fs.StringVar(&flags.dockerfile, "dockerfile", "", "override path to the Nginx image Dockerfile")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: stackcheck check [flags] [dir]\n\n")
		_, _ = fmt.Fprintf(output, "Audit a Docker PHP development stack directory.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nTopics:\n")
		_, _ = fmt.Fprintf(output, "  %s\n", strings.Join(checker.AllTopics(), ", "))
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  stackcheck check .\n")
		_, _ = fmt.Fprintf(output, "  stackcheck check --strict --no-warnings ./mystack\n")
		_, _ = fmt.Fprintf(output, "  stackcheck check --topics compose-health,compose-volumes .\n")
		_, _ = fmt.Fprintf(output, "  stackcheck check --live .\n")
	}

	return fs, flags
}

func handleCheck(args []string) error {
	fs, flags := setupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("check command takes at most one directory")
	}
	dir := fs.Arg(0)
	if dir == "" && flags.nginx == "" && flags.compose == "" &&
		flags.launcher == "" && flags.dockerfile == "" {
		dir = "."
	}

	opts := []checker.Option{
		checker.WithStrictMode(flags.strict),
		checker.WithIncludeWarnings(!flags.noWarnings),
	}
	if dir != "" {
		opts = append(opts, checker.WithStackDir(dir))
	}
	if flags.nginx != "" {
		opts = append(opts, checker.WithNginxPath(flags.nginx))
	}
	if flags.compose != "" {
		opts = append(opts, checker.WithComposePath(flags.compose))
	}
	if flags.launcher != "" {
		opts = append(opts, checker.WithLauncherPath(flags.launcher))
	}
	if flags.dockerfile != "" {
		opts = append(opts, checker.WithDockerfilePath(flags.dockerfile))
	}
	if flags.topics != "" {
		opts = append(opts, checker.WithTopics(splitTopics(flags.topics)...))
	}

	startTime := time.Now()
	result, err := checker.CheckWithOptions(opts...)
	totalTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("checking stack: %w", err)
	}

	fmt.Printf("Docker PHP Stack Checker\n")
	fmt.Printf("========================\n\n")
	fmt.Printf("stackcheck version: %s\n", stackcheck.Version())
	fmt.Printf("Stack: %s\n", displayDir(result.StackDir))
	fmt.Printf("Topics: %s\n", strings.Join(result.Topics, ", "))
	fmt.Printf("Load Time: %v\n", result.LoadTime)
	fmt.Printf("Total Time: %v\n\n", totalTime)

	if err := checker.RenderReport(os.Stdout, result); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if flags.live {
		fmt.Println()
		if err := runLiveChecks(result); err != nil {
			return err
		}
	}

	if err := result.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	return nil
}

// runLiveChecks validates the compose file with the real docker compose
// resolver and reports running containers if the stack is up.
func runLiveChecks(result *checker.Result) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runner := dockercli.New(result.StackDir)
	if result.Stack != nil && result.Stack.ComposePath != "" {
		runner.ComposeFile = result.Stack.ComposePath
	}
	if err := runner.Available(); err != nil {
		fmt.Println("⚠ Live checks skipped: docker is not available")
		return nil
	}

	if err := runner.ConfigValid(ctx); err != nil {
		return fmt.Errorf("docker compose rejected the configuration: %w", err)
	}
	fmt.Println("✓ docker compose config accepted the stack")

	containers, err := runner.PS(ctx)
	if err != nil {
		return fmt.Errorf("listing containers: %w", err)
	}
	if len(containers) == 0 {
		fmt.Println("ℹ Stack is not running")
		return nil
	}
	for _, c := range containers {
		state := c.State
		if c.Health != "" {
			state += " (" + c.Health + ")"
		}
		fmt.Printf("  %-10s %-24s %s\n", c.Service, c.Name, state)
	}
	return nil
}

func handleNginx(args []string) error {
	fs := flag.NewFlagSet("nginx", flag.ContinueOnError)
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: stackcheck nginx <file>\n\n")
		_, _ = fmt.Fprintf(output, "Parse an Nginx server config and display its directive tree.\n\n")
		_, _ = fmt.Fprintf(output, "Examples:\n")
		_, _ = fmt.Fprintf(output, "  stackcheck nginx default.conf\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("nginx command requires exactly one file path")
	}

	result, err := nginxconf.ParseWithOptions(nginxconf.WithFilePath(fs.Arg(0)))
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	fmt.Printf("Source: %s (%d bytes, parsed in %v)\n\n", fs.Arg(0), result.SourceSize, result.LoadTime)
	printDirectives(result.Config.Directives, 0)
	for _, warning := range result.Warnings {
		fmt.Printf("\n⚠ %s\n", warning)
	}
	return nil
}

func printDirectives(directives []*nginxconf.Directive, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, d := range directives {
		if d.IsBlock() {
			fmt.Printf("%s%s %s {  # line %d\n", indent, d.Name, d.Value(), d.Line)
			printDirectives(d.Block.Directives, depth+1)
			fmt.Printf("%s}\n", indent)
			continue
		}
		fmt.Printf("%s%s %s;\n", indent, d.Name, d.Value())
	}
}

func handleCompose(args []string) error {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: stackcheck compose <file>\n\n")
		_, _ = fmt.Fprintf(output, "Parse a docker-compose.yml and display its structure.\n\n")
		_, _ = fmt.Fprintf(output, "Examples:\n")
		_, _ = fmt.Fprintf(output, "  stackcheck compose docker-compose.yml\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("compose command requires exactly one file path")
	}

	result, err := compose.ParseWithOptions(compose.WithFilePath(fs.Arg(0)))
	if err != nil {
		return fmt.Errorf("parsing compose file: %w", err)
	}
	proj := result.Project

	fmt.Printf("Source: %s (%d bytes, parsed in %v)\n", fs.Arg(0), result.SourceSize, result.LoadTime)
	fmt.Printf("Services: %d\n\n", len(proj.Services))
	for name, svc := range proj.Services {
		fmt.Printf("%s:\n", name)
		if svc == nil {
			fmt.Printf("  (empty definition)\n")
			continue
		}
		if svc.Image != "" {
			fmt.Printf("  image: %s\n", svc.Image)
		}
		if svc.Build != nil {
			fmt.Printf("  build: %s\n", svc.Build.Context)
		}
		for _, p := range svc.Ports {
			fmt.Printf("  port: %s\n", p.String())
		}
		for _, m := range svc.Volumes {
			fmt.Printf("  volume: %s -> %s\n", m.Source, m.Target)
		}
		for dep, cond := range svc.DependsOn.Services {
			fmt.Printf("  depends_on: %s (%s)\n", dep, cond.Condition)
		}
		if svc.Healthcheck != nil {
			fmt.Printf("  healthcheck: %s\n", svc.Healthcheck.Test.String())
		}
	}
	if len(proj.Volumes) > 0 {
		fmt.Printf("\nNamed volumes:\n")
		for name := range proj.Volumes {
			fmt.Printf("  %s\n", name)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Printf("\n⚠ %s\n", warning)
	}
	return nil
}

func handleLauncher(args []string) error {
	fs := flag.NewFlagSet("launcher", flag.ContinueOnError)
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: stackcheck launcher <file>\n\n")
		_, _ = fmt.Fprintf(output, "Parse a dual-platform run.cmd launcher script and display its structure.\n\n")
		_, _ = fmt.Fprintf(output, "Examples:\n")
		_, _ = fmt.Fprintf(output, "  stackcheck launcher run.cmd\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("launcher command requires exactly one file path")
	}

	result, err := launcher.ParseWithOptions(launcher.WithFilePath(fs.Arg(0)))
	if err != nil {
		return fmt.Errorf("parsing launcher: %w", err)
	}
	script := result.Script

	fmt.Printf("Source: %s (%d bytes, parsed in %v)\n\n", fs.Arg(0), result.SourceSize, result.LoadTime)
	fmt.Printf("Windows section: %s\n", yesNo(script.HasWindowsSection))
	fmt.Printf("Shell section: %s\n", yesNo(script.HasUnixSection))
	fmt.Printf("Banner: %s\n", yesNo(script.HasBanner))
	fmt.Printf("Progress messages: %s\n", yesNo(script.HasFeedback))
	if len(script.Options) > 0 {
		fmt.Printf("Options: %s\n", strings.Join(script.Options, ", "))
	}
	if len(script.Commands) > 0 {
		fmt.Printf("\nCompose invocations:\n")
		for _, cmd := range script.Commands {
			fmt.Printf("  line %d: %s\n", cmd.Line, cmd.Text)
		}
	}
	return nil
}

func handleMCP() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return mcpserver.Run(ctx)
}

// splitTopics parses a comma-separated topic list, trimming whitespace.
func splitTopics(s string) []string {
	parts := strings.Split(s, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}

func displayDir(dir string) string {
	if dir == "" {
		return "(explicit artifact paths)"
	}
	return dir
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printUsage() {
	fmt.Println(`stackcheck - Docker PHP Stack Checker

Usage:
  stackcheck <command> [options]

Commands:
  check       Audit a stack directory against the expected configuration
  nginx       Parse and display an Nginx server config
  compose     Parse and display a docker-compose.yml
  launcher    Parse and display a run.cmd launcher script
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  stackcheck check .
  stackcheck check --strict --live ./mystack
  stackcheck check --topics nginx-static,nginx-php .
  stackcheck nginx default.conf
  stackcheck compose docker-compose.yml
  stackcheck launcher run.cmd

Run 'stackcheck <command> --help' for more information on a command.`)
}
