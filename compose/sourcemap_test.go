package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceMap_StackPaths(t *testing.T) {
	result, err := ParseWithOptions(WithBytes([]byte(stackYAML)), WithSourceMap(true))
	require.NoError(t, err)
	require.NotNil(t, result.SourceMap)

	sm := result.SourceMap

	web := sm.Get("services.web")
	assert.True(t, web.IsKnown())

	image := sm.Get("services.web.image")
	assert.True(t, image.IsKnown())
	assert.Equal(t, 3, image.Line)

	interval := sm.Get("services.mariadb.healthcheck.interval")
	assert.True(t, interval.IsKnown())

	firstPort := sm.Get("services.web.ports[0]")
	assert.True(t, firstPort.IsKnown())

	assert.False(t, sm.Get("services.redis").IsKnown())

	// Key positions point at the mapping key itself.
	key := sm.GetKey("services.mariadb")
	assert.True(t, key.IsKnown())
	assert.Equal(t, 3, key.Column)

	assert.Greater(t, sm.Len(), 10)
	assert.Contains(t, sm.Paths(), "volumes.db_data")
}

func TestSourceMap_NilSafe(t *testing.T) {
	var sm *SourceMap
	assert.False(t, sm.Get("services").IsKnown())
	assert.False(t, sm.GetKey("services").IsKnown())
	assert.Nil(t, sm.Paths())
	assert.Equal(t, 0, sm.Len())
}

func TestSourceMap_DisabledByDefault(t *testing.T) {
	result, err := ParseWithOptions(WithBytes([]byte(stackYAML)))
	require.NoError(t, err)
	assert.Nil(t, result.SourceMap)
}

func TestSourceLocationString(t *testing.T) {
	assert.Equal(t, "<unknown>", SourceLocation{}.String())
	assert.Equal(t, "docker-compose.yml", SourceLocation{File: "docker-compose.yml"}.String())
	assert.Equal(t, "12:3", SourceLocation{Line: 12, Column: 3}.String())
	assert.Equal(t, "docker-compose.yml:12:3",
		SourceLocation{File: "docker-compose.yml", Line: 12, Column: 3}.String())
}
