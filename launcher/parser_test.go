package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stackcheck/dockererrors"
)

const sampleScript = `@echo off
REM ===== Windows section =====
REM Usage: run.cmd [reset-db] [--verbose]
echo   ___ _           _
echo  |  _| |_ ___ ___| |_
echo  |___|_| |__,|___|_,_|  stack launcher
set RESET_DB=0
for %%A in (%*) do (
    if "%%A"=="reset-db" set RESET_DB=1
    if "%%A"=="--verbose" set VERBOSE=1
)
if "%RESET_DB%"=="1" (
    echo Destroying stack and volumes...
    docker compose down -v
)
echo Starting stack...
docker compose up -d
goto :eof

#!/bin/sh
# ===== Unix section =====
set -e
RESET_DB=0
for arg in "$@"; do
    case "$arg" in
        reset-db) RESET_DB=1 ;;
        --verbose) VERBOSE=1 ;;
    esac
done
if [ "$RESET_DB" = "1" ]; then
    echo "Destroying stack and volumes..."
    docker compose down -v
fi
echo "Starting stack..."
docker compose up -d
`

func TestParseBytes_SampleScript(t *testing.T) {
	result, err := ParseWithOptions(WithBytes([]byte(sampleScript)))
	require.NoError(t, err)
	script := result.Script
	require.NotNil(t, script)

	assert.True(t, script.HasWindowsSection)
	assert.True(t, script.HasUnixSection)
	assert.True(t, script.WindowsArgParsing)
	assert.True(t, script.UnixArgParsing)
	assert.True(t, script.HasBanner)
	assert.True(t, script.HasFeedback)

	assert.True(t, script.HasCommand("up"))
	assert.True(t, script.HasCommand("down"))
	assert.False(t, script.HasCommand("pull"))
	assert.True(t, script.HasDownWithVolumes())

	assert.True(t, script.SupportsOption("reset-db"))
	assert.True(t, script.SupportsOption("RESET_DB"))
	assert.True(t, script.SupportsOption("verbose"))
	assert.False(t, script.SupportsOption("rebuild"))
}

func TestParseBytes_CommandDetails(t *testing.T) {
	result, err := ParseWithOptions(WithBytes([]byte(sampleScript)))
	require.NoError(t, err)

	var ups, downs []Command
	for _, c := range result.Script.Commands {
		switch c.Action {
		case "up":
			ups = append(ups, c)
		case "down":
			downs = append(downs, c)
		}
	}

	require.Len(t, ups, 2) // one per platform section
	assert.True(t, ups[0].Detached)
	assert.Greater(t, ups[0].Line, 1)

	require.Len(t, downs, 2)
	assert.True(t, downs[0].RemoveVolumes)
}

func TestParseComposeCommand(t *testing.T) {
	tests := []struct {
		line       string
		wantAction string
		wantOK     bool
		wantRmVol  bool
	}{
		{"docker compose up -d", "up", true, false},
		{"docker compose down -v", "down", true, true},
		{"docker compose down --volumes", "down", true, true},
		{"docker-compose up", "up", true, false},
		{"docker compose -f docker-compose.yml config", "config", true, false},
		{"    docker compose ps --format json", "ps", true, false},
		{"echo docker build", "", false, false},
		{"docker compose ", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, ok := parseComposeCommand(tt.line, 1)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantAction, cmd.Action)
			assert.Equal(t, tt.wantRmVol, cmd.RemoveVolumes)
		})
	}
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("REM a comment", "REM"))
	assert.False(t, containsWord("REMOVE everything", "REM"))
	assert.True(t, containsWord("do REMOVE then REM", "REM"))
}

func TestParse_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.cmd")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o600))

	result, err := ParseWithOptions(WithFilePath(path))
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)
	assert.Equal(t, int64(len(sampleScript)), result.SourceSize)
}

func TestParse_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ParseWithOptions(WithFilePath(filepath.Join(t.TempDir(), "run.cmd")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, dockererrors.ErrParse))
	})

	t.Run("empty script", func(t *testing.T) {
		_, err := ParseWithOptions(WithBytes([]byte("\n\t\n")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty launcher script")
	})

	t.Run("no input source", func(t *testing.T) {
		_, err := ParseWithOptions()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must specify an input source")
	})
}

func TestParseBytes_LowercaseFeedback(t *testing.T) {
	script := "#!/bin/sh\nset -e\necho \"starting services\"\ndocker compose up -d\n"
	result, err := ParseWithOptions(WithBytes([]byte(script)))
	require.NoError(t, err)

	assert.True(t, result.Script.HasFeedback)
}
