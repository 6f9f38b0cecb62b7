package checker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stackcheck/internal/testutil"
)

// checkLauncherScript audits a single launcher script.
func checkLauncherScript(t *testing.T, script string) *Result {
	t.Helper()
	path := testutil.WriteLauncher(t, script)
	result, err := CheckWithOptions(WithLauncherPath(path), WithTopics(TopicLauncher))
	require.NoError(t, err)
	return result
}

func TestLauncherGoodScript(t *testing.T) {
	result := checkLauncherScript(t, testutil.GoodLauncherScript)
	if !result.Valid {
		for _, issue := range result.Errors {
			t.Logf("unexpected error: %s", issue.String())
		}
		t.Fatal("expected the launcher fixture to pass")
	}
	assert.Equal(t, 0, result.WarningCount)
}

func TestLauncherUnixOnly(t *testing.T) {
	script := `#!/bin/sh
set -e
for arg in "$@"; do
  case "$arg" in
    --reset-db) docker compose down -v ;;
    --verbose) set -x ;;
  esac
done
echo "Starting stack..."
docker compose up -d
`
	result := checkLauncherScript(t, script)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "launcher.windows", "Windows"))
	assert.False(t, hasIssue(result.Errors, "launcher.unix", ""), "shell section is present")
}

func TestLauncherMissingDown(t *testing.T) {
	script := `#!/bin/sh
set -e
@echo off
REM dual marker stub
for %%A in (%*) do echo %%A
for arg in "$@"; do echo "$arg"; done
echo "Starting stack..."
echo "reset-db and verbose accepted"
docker compose up -d
`
	result := checkLauncherScript(t, script)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "launcher.commands", "docker compose down"))
	assert.True(t, hasIssue(result.Errors, "launcher.commands", "volume-removing"))
}

func TestLauncherMissingOptions(t *testing.T) {
	script := strings.NewReplacer(
		"--reset-db", "--nuke",
		"RESET_DB", "NUKE",
	).Replace(testutil.GoodLauncherScript)
	result := checkLauncherScript(t, script)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "launcher.options", "reset-db"))
	assert.False(t, hasIssue(result.Errors, "launcher.options", "verbose option"))
}

func TestLauncherNoFeedbackWarns(t *testing.T) {
	script := `#!/bin/sh
set -e
@echo off
REM dual marker stub
for %%A in (%*) do echo %%A
for arg in "$@"; do echo "$arg"; done
# reset-db verbose
docker compose down -v
docker compose up -d
`
	result := checkLauncherScript(t, script)

	assert.True(t, result.Valid)
	assert.True(t, hasIssue(result.Warnings, "launcher.feedback", "progress"))
	assert.True(t, hasIssue(result.Warnings, "launcher.banner", "banner"))
}
