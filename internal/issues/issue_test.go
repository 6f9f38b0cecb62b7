package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/stackcheck/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name: "error without location",
			issue: Issue{
				Path:     "services.web",
				Message:  "service missing image",
				Severity: severity.SeverityError,
			},
			want: "✗ services.web: service missing image",
		},
		{
			name: "warning with location",
			issue: Issue{
				Path:     "services.mariadb.healthcheck",
				Message:  "healthcheck missing retries",
				Severity: severity.SeverityWarning,
				Line:     24,
				Column:   5,
			},
			want: "⚠ services.mariadb.healthcheck (line 24, col 5): healthcheck missing retries",
		},
		{
			name: "info",
			issue: Issue{
				Path:     "launcher",
				Message:  "banner detected",
				Severity: severity.SeverityInfo,
			},
			want: "ℹ launcher: banner detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestIssueLocation(t *testing.T) {
	withFile := Issue{Path: "services.php", File: "docker-compose.yml", Line: 12, Column: 3}
	assert.Equal(t, "docker-compose.yml:12:3", withFile.Location())
	assert.True(t, withFile.HasLocation())

	noFile := Issue{Path: "services.php", Line: 12, Column: 3}
	assert.Equal(t, "12:3", noFile.Location())

	noLine := Issue{Path: "services.php"}
	assert.Equal(t, "services.php", noLine.Location())
	assert.False(t, noLine.HasLocation())
}
