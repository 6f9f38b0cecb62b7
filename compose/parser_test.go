package compose

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stackcheck/dockererrors"
)

const stackYAML = `services:
  web:
    image: nginx:alpine
    ports:
      - "8000:80"
    volumes:
      - ./src:/var/www/html
      - ./default.conf:/etc/nginx/conf.d/default.conf
    depends_on:
      - php

  php:
    image: php:8.3-fpm
    volumes:
      - ./src:/var/www/html
    depends_on:
      mariadb:
        condition: service_healthy

  mariadb:
    image: mariadb:11
    environment:
      MARIADB_ROOT_PASSWORD: secret
      MARIADB_DATABASE: app
    volumes:
      - db_data:/var/lib/mysql
      - ./support/db.sql:/docker-entrypoint-initdb.d/db.sql
    healthcheck:
      test: ["CMD", "mariadb-admin", "ping", "-h", "localhost"]
      interval: 10s
      timeout: 5s
      retries: 5

volumes:
  db_data:
`

func TestParseBytes_Stack(t *testing.T) {
	result, err := ParseWithOptions(WithBytes([]byte(stackYAML)))
	require.NoError(t, err)
	require.NotNil(t, result.Project)
	assert.Empty(t, result.Warnings)

	project := result.Project
	require.Len(t, project.Services, 3)

	web := project.Service("web")
	require.NotNil(t, web)
	assert.Equal(t, "nginx:alpine", web.Image)
	assert.True(t, web.HasPort("8000:80"))
	assert.True(t, web.MountsTarget("/var/www/html"))
	assert.True(t, web.DependsOn.Short)
	assert.True(t, web.DependsOn.Requires("php"))

	php := project.Service("php")
	require.NotNil(t, php)
	assert.False(t, php.DependsOn.Short)
	assert.Equal(t, "service_healthy", php.DependsOn.Condition("mariadb"))

	mariadb := project.Service("mariadb")
	require.NotNil(t, mariadb)
	assert.Equal(t, "secret", mariadb.Environment["MARIADB_ROOT_PASSWORD"])
	require.NotNil(t, mariadb.Healthcheck)
	assert.Equal(t, "CMD mariadb-admin ping -h localhost", mariadb.Healthcheck.Test.String())
	assert.Equal(t, "10s", mariadb.Healthcheck.Interval)
	require.NotNil(t, mariadb.Healthcheck.Retries)
	assert.Equal(t, 5, *mariadb.Healthcheck.Retries)

	initMount := mariadb.MountFor("/docker-entrypoint-initdb.d/db.sql")
	require.NotNil(t, initMount)
	assert.Equal(t, "./support/db.sql", initMount.Source)
	assert.False(t, initMount.IsNamed())

	dataMount := mariadb.MountFor("/var/lib/mysql")
	require.NotNil(t, dataMount)
	assert.True(t, dataMount.IsNamed())
	assert.Equal(t, "db_data", dataMount.Source)

	assert.True(t, project.HasVolume("db_data"))
	assert.False(t, project.HasVolume("cache"))
}

func TestParse_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(stackYAML), 0o600))

	result, err := ParseWithOptions(WithFilePath(path))
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)
	assert.Equal(t, int64(len(stackYAML)), result.SourceSize)
}

func TestParse_FileNotFound(t *testing.T) {
	_, err := ParseWithOptions(WithFilePath(filepath.Join(t.TempDir(), "nope.yml")))
	require.Error(t, err)

	var parseErr *dockererrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.True(t, errors.Is(parseErr.Cause, os.ErrNotExist))
}

func TestParse_Warnings(t *testing.T) {
	t.Run("no services", func(t *testing.T) {
		result, err := ParseWithOptions(WithBytes([]byte("volumes:\n  db_data:\n")))
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "no services")
	})

	t.Run("service without image or build", func(t *testing.T) {
		result, err := ParseWithOptions(WithBytes([]byte("services:\n  web:\n    ports:\n      - \"8000:80\"\n")))
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], `"web"`)
	})

	t.Run("empty service definition", func(t *testing.T) {
		result, err := ParseWithOptions(WithBytes([]byte("services:\n  web:\n")))
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "empty definition")
	})
}

func TestParse_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := ParseWithOptions(WithBytes([]byte("  \n")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty compose file")
	})

	t.Run("malformed YAML reports line", func(t *testing.T) {
		bad := "services:\n  web:\n   image: nginx\n  bad indent\n"
		_, err := ParseWithOptions(WithBytes([]byte(bad)))
		if err == nil {
			t.Skip("yaml decoder tolerated input")
		}
		assert.True(t, errors.Is(err, dockererrors.ErrParse))
	})

	t.Run("wrong type for services", func(t *testing.T) {
		_, err := ParseWithOptions(WithBytes([]byte("services: [web, php]\n")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, dockererrors.ErrParse))
	})
}

func TestParseWithOptions_InputValidation(t *testing.T) {
	t.Run("no input source", func(t *testing.T) {
		_, err := ParseWithOptions()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must specify an input source")
	})

	t.Run("multiple input sources", func(t *testing.T) {
		_, err := ParseWithOptions(WithFilePath("a.yml"), WithBytes([]byte("services: {}\n")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one input source")
	})
}
