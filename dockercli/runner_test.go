package dockercli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePSLineDelimited(t *testing.T) {
	out := []byte(`{"Name":"stack-web-1","Service":"web","State":"running","Health":""}
{"Name":"stack-php-1","Service":"php","State":"running","Health":""}
{"Name":"stack-mariadb-1","Service":"mariadb","State":"running","Health":"healthy"}
`)
	containers, err := parsePS(out)
	require.NoError(t, err)
	require.Len(t, containers, 3)

	db := Service(containers, "mariadb")
	require.NotNil(t, db)
	assert.Equal(t, "stack-mariadb-1", db.Name)
	assert.Equal(t, "healthy", db.Health)
	assert.True(t, db.Running())
}

func TestParsePSArrayForm(t *testing.T) {
	out := []byte(`[
  {"Name":"stack-web-1","Service":"web","State":"running"},
  {"Name":"stack-mariadb-1","Service":"mariadb","State":"exited","ExitCode":1}
]`)
	containers, err := parsePS(out)
	require.NoError(t, err)
	require.Len(t, containers, 2)

	db := Service(containers, "mariadb")
	require.NotNil(t, db)
	assert.False(t, db.Running())
	assert.Equal(t, 1, db.ExitCode)
}

func TestParsePSEmpty(t *testing.T) {
	containers, err := parsePS([]byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestParsePSMalformed(t *testing.T) {
	_, err := parsePS([]byte(`{"Name": truncated`))
	require.Error(t, err)
}

func TestServiceNotFound(t *testing.T) {
	containers := []Container{{Service: "web"}}
	assert.Nil(t, Service(containers, "mariadb"))
}

func TestRunnerDefaults(t *testing.T) {
	r := New("/tmp/stack")
	assert.Equal(t, "/tmp/stack", r.ProjectDir)
	assert.Empty(t, r.ComposeFile)
	assert.Zero(t, r.Timeout)
}
