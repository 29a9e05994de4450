package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the nutripick home directory.
	DefaultDirName = ".nutripick"

	// PostgresDirName is the subdirectory holding Postgres container data.
	PostgresDirName = "postgres"

	// DumpsDirName is the subdirectory for downloaded prediction dumps.
	DumpsDirName = "dumps"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the nutripick home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.nutripick).
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

// PostgresDataPath returns the host path mounted as the Postgres data
// volume.
func (d *Dir) PostgresDataPath() string {
	return filepath.Join(d.path, PostgresDirName)
}

// DumpsPath returns the path to the prediction dumps directory.
func (d *Dir) DumpsPath() string {
	return filepath.Join(d.path, DumpsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.PostgresDataPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create postgres data directory: %w", err)
	}
	if err := os.MkdirAll(d.DumpsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create dumps directory: %w", err)
	}
	return nil
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
