package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/google/uuid"

	"github.com/jackzampolin/freestyle/internal/store"
)

// TestLabel marks containers created by tests, valued with the test name.
const TestLabel = "freestyle-test"

// RequireDocker skips the test when running with -short or when no Docker
// daemon answers.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping docker test in short mode")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		t.Skipf("docker is not running: %v", err)
	}
}

// NewPostgresManager returns a manager for a throwaway Postgres container on
// a free port, without a data mount. The container is removed when the test
// ends. The container is not started.
func NewPostgresManager(t *testing.T) *store.DockerManager {
	t.Helper()
	RequireDocker(t)

	port, err := FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}

	mgr, err := store.NewDockerManager(store.DockerConfig{
		ContainerName: "freestyle-test-pg-" + uuid.NewString()[:8],
		HostPort:      port,
		Labels:        map[string]string{TestLabel: t.Name()},
	})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mgr.Remove(ctx); err != nil {
			t.Logf("failed to remove container %s: %v", mgr.ContainerName(), err)
		}
		mgr.Close()
	})
	return mgr
}
