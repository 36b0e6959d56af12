package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jackzampolin/freestyle/internal/providers"
)

// Config holds freestyle configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host       string `mapstructure:"host" yaml:"host"`
	Port       string `mapstructure:"port" yaml:"port"`
	CORSOrigin string `mapstructure:"cors_origin" yaml:"cors_origin"`
}

// DatabaseConfig selects and tunes the storage engine.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN is the connection string. Empty means {home}/data/freestyle.db for sqlite
	// or the managed container for postgres.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
	// LogLevel is the gorm log level: silent, error, warn, info.
	LogLevel      string          `mapstructure:"log_level" yaml:"log_level"`
	SlowThreshold string          `mapstructure:"slow_threshold" yaml:"slow_threshold"`
	Managed       ManagedDBConfig `mapstructure:"managed" yaml:"managed"`
}

// ManagedDBConfig holds the Docker-managed Postgres container settings.
type ManagedDBConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	Image         string `mapstructure:"image" yaml:"image"`
	HostPort      string `mapstructure:"host_port" yaml:"host_port"`
	Password      string `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR}
}

// AuthConfig controls token signing.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"` // supports ${ENV_VAR}
	TokenTTL  string `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// LLMConfig configures the completion service used for advice.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR}
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Model   string `mapstructure:"model" yaml:"model"`
	Timeout string `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       "8080",
			CORSOrigin: "*",
		},
		Database: DatabaseConfig{
			Driver:        "sqlite",
			LogLevel:      "warn",
			SlowThreshold: "200ms",
			Managed: ManagedDBConfig{
				Enabled:       false,
				ContainerName: "freestyle-postgres",
				Image:         "postgres:16-alpine",
				HostPort:      "5433",
				Password:      "${FREESTYLE_DB_PASSWORD}",
			},
		},
		Auth: AuthConfig{
			JWTSecret: "${JWT_SECRET}",
			TokenTTL:  "168h",
		},
		LLM: LLMConfig{
			APIKey:  "${OPENAI_API_KEY}",
			Model:   "gpt-4o",
			Timeout: "60s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ResolvedJWTSecret returns the signing secret with env references expanded.
func (c *Config) ResolvedJWTSecret() string {
	return ResolveEnvVars(c.Auth.JWTSecret)
}

// ResolvedLLMAPIKey returns the completion service key with env references expanded.
func (c *Config) ResolvedLLMAPIKey() string {
	return ResolveEnvVars(c.LLM.APIKey)
}

// ResolvedDBPassword returns the managed Postgres password with env references expanded.
// Falls back to "freestyle" so a fresh install can start the container.
func (c *Config) ResolvedDBPassword() string {
	if p := ResolveEnvVars(c.Database.Managed.Password); p != "" {
		return p
	}
	return "freestyle"
}

// TokenTTL parses auth.token_ttl, defaulting to one week.
func (c *Config) TokenTTL() time.Duration {
	return parseDuration(c.Auth.TokenTTL, 7*24*time.Hour)
}

// LLMTimeout parses llm.timeout, defaulting to one minute.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, time.Minute)
}

// SlowQueryThreshold parses database.slow_threshold.
func (c *Config) SlowQueryThreshold() time.Duration {
	return parseDuration(c.Database.SlowThreshold, 200*time.Millisecond)
}

// SlogLevel maps log.level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ToProviderRegistryConfig converts the llm section to a provider registry
// config. An unset API key yields an empty registry.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig),
	}
	key := c.ResolvedLLMAPIKey()
	if key == "" {
		return cfg
	}
	cfg.LLMProviders[providers.OpenAIName] = providers.LLMProviderConfig{
		Type:    providers.OpenAIName,
		Model:   c.LLM.Model,
		APIKey:  key,
		BaseURL: c.LLM.BaseURL,
		Timeout: c.LLMTimeout(),
	}
	return cfg
}
