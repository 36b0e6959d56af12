package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/freestyle/internal/store"
	"github.com/jackzampolin/freestyle/internal/testutil"
)

func TestDockerConfig_Defaults(t *testing.T) {
	if store.DefaultContainerName != "freestyle-postgres" {
		t.Errorf("unexpected default container name: %s", store.DefaultContainerName)
	}
	if store.DefaultImage != "postgres:16-alpine" {
		t.Errorf("unexpected default image: %s", store.DefaultImage)
	}
}

func TestDockerManager_DSN(t *testing.T) {
	mgr, err := store.NewDockerManager(store.DockerConfig{HostPort: "6543", Password: "pw"})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}
	defer mgr.Close()

	dsn := mgr.DSN()
	for _, want := range []string{"port=6543", "password=pw", "dbname=freestyle", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
	if mgr.ContainerName() != store.DefaultContainerName {
		t.Errorf("ContainerName() = %q, want default", mgr.ContainerName())
	}
}

func TestDockerManager_Integration(t *testing.T) {
	ctx := context.Background()
	mgr := testutil.NewPostgresManager(t)

	t.Run("Start", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != store.ContainerRunning {
			t.Errorf("expected status running, got %s", status)
		}
	})

	t.Run("Start_AlreadyRunning", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Errorf("Start() on running container should succeed: %v", err)
		}
	})

	t.Run("OpenPostgres", func(t *testing.T) {
		s, err := store.Open(store.Options{Driver: store.DriverPostgres, DSN: mgr.DSN()})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})

	t.Run("Stop", func(t *testing.T) {
		if err := mgr.Stop(ctx); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != store.ContainerStopped {
			t.Errorf("expected status stopped, got %s", status)
		}
	})
}
