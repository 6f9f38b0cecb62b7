package launcher

import "strings"

// Command is a single docker compose invocation found in the script.
type Command struct {
	// Line is the 1-based line number of the invocation
	Line int
	// Text is the trimmed source line containing the invocation
	Text string
	// Action is the compose subcommand ("up", "down", "pull", ...)
	Action string
	// RemoveVolumes is true for "down" invocations carrying the -v flag
	RemoveVolumes bool
	// Detached is true for "up" invocations carrying the -d flag
	Detached bool
}

// Script is the parsed structural summary of the launcher.
type Script struct {
	// SourcePath is the input file path (empty when parsing raw bytes)
	SourcePath string
	// Content is the raw script text
	Content string
	// Commands lists every docker compose invocation in source order
	Commands []Command
	// Options lists recognized launcher option keywords found in the
	// script (e.g. "reset-db", "verbose")
	Options []string
	// HasWindowsSection is true when Windows batch markers are present
	// ("@echo off" or "REM" comments)
	HasWindowsSection bool
	// HasUnixSection is true when POSIX shell markers are present
	// ("#!/" shebang or "set -e")
	HasUnixSection bool
	// WindowsArgParsing is true when batch argument handling is present
	// ("%*", "%1", or a "for %%A in (%*)" loop)
	WindowsArgParsing bool
	// UnixArgParsing is true when shell argument handling is present
	// ("$@" or a "for arg in" loop)
	UnixArgParsing bool
	// HasBanner is true when the script prints an ASCII-art banner
	HasBanner bool
	// HasFeedback is true when the script prints progress messages
	HasFeedback bool
}

// feedbackKeywords are the progress message markers the parser looks for,
// matched case-insensitively. "resetting" stays in the -ing form so the
// --reset-db option alone does not count as feedback.
var feedbackKeywords = []string{"start", "stop", "running", "destroy", "resetting"}

// HasCommand returns true if the script invokes the given compose
// subcommand at least once.
func (s *Script) HasCommand(action string) bool {
	for _, c := range s.Commands {
		if c.Action == action {
			return true
		}
	}
	return false
}

// HasDownWithVolumes returns true if any "down" invocation removes volumes.
func (s *Script) HasDownWithVolumes() bool {
	for _, c := range s.Commands {
		if c.Action == "down" && c.RemoveVolumes {
			return true
		}
	}
	return false
}

// SupportsOption returns true if the script recognizes the given option
// keyword (matched case-insensitively, with "_" and "-" treated alike).
func (s *Script) SupportsOption(name string) bool {
	want := normalizeOption(name)
	for _, opt := range s.Options {
		if normalizeOption(opt) == want {
			return true
		}
	}
	return false
}

func normalizeOption(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimLeft(name, "-")
	return strings.ReplaceAll(name, "_", "-")
}
