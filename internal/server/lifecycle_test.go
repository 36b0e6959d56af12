package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/freestyle/internal/config"
	"github.com/jackzampolin/freestyle/internal/home"
	"github.com/jackzampolin/freestyle/internal/testutil"
)

// TestServer_FullLifecycle starts a real listener over a SQLite file in a
// temporary home, then cancels the context and checks shutdown.
func TestServer_FullLifecycle(t *testing.T) {
	homeDir, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	cfgFile := filepath.Join(homeDir.Path(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("auth:\n  jwt_secret: lifecycle-secret\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	port, err := testutil.FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}

	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          port,
		ConfigManager: mgr,
		Home:          homeDir,
		Logger:        testutil.DiscardLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Services() != nil {
		t.Fatal("services should not exist before Start opens the database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%s", port)
	if err := waitForServer(ctx, baseURL, 20*time.Second); err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}
	if _, err := os.Stat(homeDir.DatabasePath()); err != nil {
		t.Errorf("expected sqlite database at %s: %v", homeDir.DatabasePath(), err)
	}

	resp, err := http.Get(baseURL + "/ready")
	if err != nil {
		t.Fatalf("ready check failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() should fail while running")
	}

	serverCancel()
	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("Start() returned error = %v", err)
		}
	case <-time.After(35 * time.Second):
		t.Fatal("server did not shut down")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("auth:\n  jwt_secret: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{ConfigManager: mgr, Store: testutil.NewStore(t), Logger: testutil.DiscardLogger()}); err == nil {
		t.Fatal("expected an error without a signing secret")
	}
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected an error without a config manager")
	}
}

func waitForServer(ctx context.Context, baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", baseURL)
}
