package dockercli

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stackcheck/dockererrors"
	"github.com/erraggy/stackcheck/internal/testutil"
)

// These tests drive a real docker daemon and are opt-in. Enable with:
//
//	STACKCHECK_DOCKER_TESTS=1 go test ./dockercli/
func requireDocker(t *testing.T) *Runner {
	t.Helper()
	if os.Getenv("STACKCHECK_DOCKER_TESTS") != "1" {
		t.Skip("set STACKCHECK_DOCKER_TESTS=1 to run live docker tests")
	}
	dir := testutil.WriteStackDir(t)
	r := New(dir)
	if err := r.Available(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	return r
}

func TestLiveConfigValid(t *testing.T) {
	r := requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, r.ConfigValid(ctx))
}

func TestLiveConfigInvalid(t *testing.T) {
	r := requireDocker(t)
	testutil.WriteFile(t, r.ProjectDir, "docker-compose.yml", "services:\n  web:\n    ports: not-a-list\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := r.ConfigValid(ctx)
	require.Error(t, err)

	var dockerErr *dockererrors.DockerError
	require.True(t, errors.As(err, &dockerErr))
	assert.NotEmpty(t, dockerErr.Stderr)
}

func TestLiveStackLifecycle(t *testing.T) {
	r := requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, r.Up(ctx))
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cleanupCancel()
		_ = r.Down(cleanupCtx, true)
	})

	require.NoError(t, r.WaitHealthy(ctx, "mariadb"))

	containers, err := r.PS(ctx)
	require.NoError(t, err)
	for _, service := range []string{"web", "php", "mariadb"} {
		c := Service(containers, service)
		require.NotNil(t, c, "service %s should have a container", service)
		assert.True(t, c.Running(), "service %s should be running", service)
	}
}
