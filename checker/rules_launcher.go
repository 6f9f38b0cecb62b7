package checker

import "fmt"

// checkLauncher audits the run.cmd polyglot launcher: both platform
// sections, the compose lifecycle commands, option handling and user
// feedback.
func (c *Checker) checkLauncher(result *Result, stack *Stack) {
	if stack.Launcher == nil {
		return
	}
	script := stack.Launcher.Script
	file := stack.LauncherPath
	atFile := func(i *Issue) { i.File = file }

	if !script.HasWindowsSection {
		c.addError(result, TopicLauncher, "launcher.windows",
			"launcher has no Windows batch section", atFile)
	}
	if !script.HasUnixSection {
		c.addError(result, TopicLauncher, "launcher.unix",
			"launcher has no POSIX shell section", atFile)
	}

	for _, action := range []string{"up", "down"} {
		if !script.HasCommand(action) {
			c.addError(result, TopicLauncher, "launcher.commands",
				fmt.Sprintf("launcher never runs docker compose %s", action),
				withField(action), atFile)
		}
	}
	if !script.HasDownWithVolumes() {
		c.addError(result, TopicLauncher, "launcher.commands",
			"launcher has no volume-removing down invocation for database resets",
			withField("down -v"), atFile)
	}

	for _, option := range []string{"reset-db", "verbose"} {
		if !script.SupportsOption(option) {
			c.addError(result, TopicLauncher, "launcher.options",
				fmt.Sprintf("launcher does not recognize the %s option", option),
				withField(option), atFile)
		}
	}

	if script.HasWindowsSection && !script.WindowsArgParsing {
		c.addError(result, TopicLauncher, "launcher.windows",
			"Windows section never inspects its arguments", atFile)
	}
	if script.HasUnixSection && !script.UnixArgParsing {
		c.addError(result, TopicLauncher, "launcher.unix",
			"shell section never inspects its arguments", atFile)
	}

	if !script.HasFeedback {
		c.addWarning(result, TopicLauncher, "launcher.feedback",
			"launcher prints no progress messages", atFile)
	}
	if !script.HasBanner {
		c.addWarning(result, TopicLauncher, "launcher.banner",
			"launcher prints no startup banner", atFile)
	}
}
