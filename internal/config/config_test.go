package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected gpt-4o model, got %s", cfg.LLM.Model)
	}
	if cfg.Auth.JWTSecret != "${JWT_SECRET}" {
		t.Error("expected jwt secret placeholder")
	}
	if cfg.TokenTTL() != 168*time.Hour {
		t.Errorf("expected 168h token ttl, got %s", cfg.TokenTTL())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_Resolved(t *testing.T) {
	t.Setenv("TEST_JWT", "jwt-123")
	t.Setenv("TEST_OPENAI", "sk-456")

	cfg := DefaultConfig()
	cfg.Auth.JWTSecret = "${TEST_JWT}"
	cfg.LLM.APIKey = "${TEST_OPENAI}"
	cfg.Database.Managed.Password = "${DEFINITELY_NOT_SET_12345}"

	if got := cfg.ResolvedJWTSecret(); got != "jwt-123" {
		t.Errorf("expected jwt-123, got %s", got)
	}
	if got := cfg.ResolvedLLMAPIKey(); got != "sk-456" {
		t.Errorf("expected sk-456, got %s", got)
	}
	if got := cfg.ResolvedDBPassword(); got != "freestyle" {
		t.Errorf("expected fallback password, got %s", got)
	}
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "${DEFINITELY_NOT_SET_12345}"
	if got := cfg.ToProviderRegistryConfig(); len(got.LLMProviders) != 0 {
		t.Errorf("expected no providers without a key, got %v", got.LLMProviders)
	}

	t.Setenv("TEST_OPENAI", "sk-789")
	cfg.LLM.APIKey = "${TEST_OPENAI}"
	cfg.LLM.BaseURL = "http://localhost:9999/v1"
	got := cfg.ToProviderRegistryConfig().LLMProviders["openai"]
	if got.APIKey != "sk-789" || got.Type != "openai" || got.Model != "gpt-4o" {
		t.Errorf("unexpected provider config: %+v", got)
	}
	if got.BaseURL != "http://localhost:9999/v1" || got.Timeout != time.Minute {
		t.Errorf("unexpected provider transport: %+v", got)
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.TokenTTL = "not-a-duration"
	cfg.LLM.Timeout = "5s"

	if cfg.TokenTTL() != 7*24*time.Hour {
		t.Errorf("expected fallback ttl, got %s", cfg.TokenTTL())
	}
	if cfg.LLMTimeout() != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.LLMTimeout())
	}
	if cfg.SlowQueryThreshold() != 200*time.Millisecond {
		t.Errorf("expected 200ms, got %s", cfg.SlowQueryThreshold())
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{Log: LogConfig{Level: in}}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
server:
  port: "9090"
llm:
  model: "gpt-4o-mini"
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != "9090" {
			t.Errorf("expected port 9090, got %s", cfg.Server.Port)
		}
		if cfg.LLM.Model != "gpt-4o-mini" {
			t.Errorf("expected gpt-4o-mini, got %s", cfg.LLM.Model)
		}
		// Unset keys keep their defaults.
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("expected default driver sqlite, got %s", cfg.Database.Driver)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("FREESTYLE_DATABASE_DRIVER", "postgres")

		configFile := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configFile, []byte("database:\n  driver: sqlite\n"), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Database.Driver; got != "postgres" {
			t.Errorf("expected postgres from env, got %s", got)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("llm:\n  model: initial\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if got := mgr.Get().LLM.Model; got != "initial" {
		t.Fatalf("initial value mismatch: got %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.LLM.Model)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("llm:\n  model: updated\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := lastValue.Load().(string); v == "updated" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if v, _ := lastValue.Load().(string); v != "updated" {
		t.Errorf("expected updated model, got %q", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written default: %v", err)
	}
	cfg := mgr.Get()
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Managed.ContainerName != "freestyle-postgres" {
		t.Errorf("unexpected container name %s", cfg.Database.Managed.ContainerName)
	}
}
