package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-nutripick")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-nutripick" {
			t.Errorf("expected path /tmp/test-nutripick, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-nutripick")

	t.Run("PostgresDataPath", func(t *testing.T) {
		expected := "/tmp/test-nutripick/postgres"
		if dir.PostgresDataPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.PostgresDataPath())
		}
	})

	t.Run("DumpsPath", func(t *testing.T) {
		expected := "/tmp/test-nutripick/dumps"
		if dir.DumpsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.DumpsPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-nutripick/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nutripick-home")

	dir, err := New(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist yet")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.PostgresDataPath()); err != nil {
		t.Errorf("postgres data directory not created: %v", err)
	}
	if _, err := os.Stat(dir.DumpsPath()); err != nil {
		t.Errorf("dumps directory not created: %v", err)
	}

	if dir.ConfigExists() {
		t.Error("config file should not exist")
	}
}
