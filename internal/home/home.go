package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the freestyle home directory.
	DefaultDirName = ".freestyle"

	// DataDirName is the subdirectory for database files.
	DataDirName = "data"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// SessionFileName holds the CLI login session.
	SessionFileName = "session.yaml"

	// DatabaseFileName is the SQLite database used when no DSN is configured.
	DatabaseFileName = "freestyle.db"

	// PostgresDirName is the bind mount for the managed Postgres container.
	PostgresDirName = "postgres"
)

// Dir represents the freestyle home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.freestyle).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DataPath returns the path to the data directory.
func (d *Dir) DataPath() string {
	return filepath.Join(d.path, DataDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// SessionPath returns the path to the persisted CLI session.
func (d *Dir) SessionPath() string {
	return filepath.Join(d.path, SessionFileName)
}

// DatabasePath returns the default SQLite database file.
func (d *Dir) DatabasePath() string {
	return filepath.Join(d.DataPath(), DatabaseFileName)
}

// PostgresDataPath returns the host directory mounted into the managed Postgres container.
func (d *Dir) PostgresDataPath() string {
	return filepath.Join(d.path, PostgresDirName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create data directory (this also creates the parent)
	if err := os.MkdirAll(d.DataPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// EnsurePostgresDir creates the managed Postgres data directory.
func (d *Dir) EnsurePostgresDir() error {
	return os.MkdirAll(d.PostgresDataPath(), 0o700)
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
