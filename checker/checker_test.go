package checker

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stackcheck/dockererrors"
	"github.com/erraggy/stackcheck/internal/testutil"
)

// TestCheckerNew tests the New constructor defaults
func TestCheckerNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if !c.IncludeWarnings {
		t.Error("Expected IncludeWarnings to be true by default")
	}
	if c.StrictMode {
		t.Error("Expected StrictMode to be false by default")
	}
}

// hasIssue reports whether any issue's Path starts with the given prefix
// and mentions the given message fragment.
func hasIssue(all []Issue, pathPrefix, fragment string) bool {
	for _, issue := range all {
		if strings.HasPrefix(issue.Path, pathPrefix) && strings.Contains(issue.Message, fragment) {
			return true
		}
	}
	return false
}

func checkDir(t *testing.T, dir string, opts ...Option) *Result {
	t.Helper()
	result, err := CheckWithOptions(append([]Option{WithStackDir(dir)}, opts...)...)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestCheckGoodStack(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	result := checkDir(t, dir)

	if !result.Valid {
		for _, issue := range result.Errors {
			t.Logf("unexpected error: %s", issue.String())
		}
		t.Fatal("expected a passing audit")
	}
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, 0, result.WarningCount)
	assert.Equal(t, AllTopics(), result.Topics)
	require.NotNil(t, result.Stack)
	assert.NotNil(t, result.Stack.Nginx)
	assert.NotNil(t, result.Stack.Compose)
	assert.NotNil(t, result.Stack.Launcher)
	assert.NotEmpty(t, result.Stack.Dockerfile)
}

func TestCheckTestdataStack(t *testing.T) {
	result := checkDir(t, filepath.Join("..", "testdata", "goodstack"), WithStrictMode(true))
	if !result.Valid {
		for _, issue := range result.Errors {
			t.Logf("unexpected error: %s", issue.String())
		}
		t.Fatal("expected the testdata stack to pass")
	}
}

func TestCheckGoodStackStrict(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	result := checkDir(t, dir, WithStrictMode(true))
	assert.True(t, result.Valid, "strict audit of the good stack should pass")
}

func TestCheckMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	result := checkDir(t, dir)

	assert.False(t, result.Valid)
	// one critical issue per missing artifact
	var criticals int
	for _, issue := range result.Errors {
		if issue.Severity == SeverityCritical {
			criticals++
		}
	}
	assert.Equal(t, 4, criticals)
}

func TestCheckWithOptionsNoInput(t *testing.T) {
	_, err := CheckWithOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stack directory")
	assert.ErrorIs(t, err, dockererrors.ErrConfig)
}

func TestCheckWithOptionsUnknownTopic(t *testing.T) {
	_, err := CheckWithOptions(WithStackDir("."), WithTopics("networking"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown topic")

	var cfgErr *dockererrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "topics", cfgErr.Option)
	assert.Equal(t, "networking", cfgErr.Value)
}

func TestResultErr(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	result := checkDir(t, dir)
	assert.NoError(t, result.Err())

	result = checkDir(t, t.TempDir())
	err := result.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, dockererrors.ErrCheck)

	var checkErr *dockererrors.CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Contains(t, checkErr.Message, "error(s)")
	assert.NotEmpty(t, checkErr.Path)
}

func TestCheckTopicFiltering(t *testing.T) {
	dir := t.TempDir()
	result := checkDir(t, dir, WithTopics(TopicLauncher))

	assert.Equal(t, []string{TopicLauncher}, result.Topics)
	// only the launcher artifact should have been loaded
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "launcher", result.Errors[0].Path)
	assert.Equal(t, SeverityCritical, result.Errors[0].Severity)
}

func TestCheckExplicitArtifactPaths(t *testing.T) {
	conf := testutil.WriteNginxConf(t, testutil.GoodNginxConf)
	result, err := CheckWithOptions(
		WithNginxPath(conf),
		WithTopics(TopicNginxStatic),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, conf, result.Stack.NginxPath)
}

func TestCheckNoWarnings(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	// downgrade the root password to a weak value to force a warning
	weak := strings.Replace(testutil.GoodComposeYAML, "s3cure-dev-root", "password", 1)
	testutil.WriteFile(t, dir, "docker-compose.yml", weak)

	withWarnings := checkDir(t, dir)
	assert.True(t, withWarnings.Valid)
	assert.Greater(t, withWarnings.WarningCount, 0)

	without := checkDir(t, dir, WithIncludeWarnings(false))
	assert.True(t, without.Valid)
	assert.Equal(t, 0, without.WarningCount)
}

func TestIssueLocationsPopulated(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	broken := strings.Replace(testutil.GoodNginxConf, "root /var/www/html;", "root /srv/www;", 1)
	testutil.WriteFile(t, dir, "default.conf", broken)

	result := checkDir(t, dir, WithTopics(TopicNginxStatic))
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)

	issue := result.Errors[0]
	assert.Equal(t, "server.root", issue.Path)
	assert.True(t, issue.HasLocation(), "directive issues should carry source positions")
	assert.Greater(t, issue.Line, 1)
}

func TestRenderReport(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	broken := strings.Replace(testutil.GoodComposeYAML, "condition: service_healthy", "condition: service_started", 1)
	testutil.WriteFile(t, dir, "docker-compose.yml", broken)

	result := checkDir(t, dir)
	require.False(t, result.Valid)

	var sb strings.Builder
	require.NoError(t, RenderReport(&sb, result))
	report := sb.String()
	assert.Contains(t, report, "Compose Health")
	assert.Contains(t, report, "service_healthy")
	assert.Contains(t, report, "Stack check failed")
}

func TestRenderReportPassing(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	result := checkDir(t, dir)

	var sb strings.Builder
	require.NoError(t, RenderReport(&sb, result))
	assert.Contains(t, sb.String(), "Stack check passed")
}
