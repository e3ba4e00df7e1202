package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadToolConfigMissingFile(t *testing.T) {
	_, err := LoadToolConfig(filepath.Join(t.TempDir(), "pkgcraft.toml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadToolConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkgcraft.toml")
	if err := os.WriteFile(path, []byte("cache_dir = \"/tmp/cache\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadToolConfig(path)
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.CacheDir != "/tmp/cache" {
		t.Fatalf("got cache_dir=%q", cfg.CacheDir)
	}
	if cfg.WorkerPoolSize != 4 {
		t.Fatalf("expected default worker_pool_size, got %d", cfg.WorkerPoolSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadToolConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkgcraft.toml")
	content := "worker_pool_size = 16\nsource_timeout_seconds = 60\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadToolConfig(path)
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.WorkerPoolSize != 16 || cfg.SourceTimeoutSeconds != 60 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestValidateRejectsNonPositiveFields(t *testing.T) {
	cfg := NewDefaultToolConfig()
	cfg.WorkerPoolSize = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkerPoolSize) {
		t.Fatalf("expected ErrInvalidWorkerPoolSize, got %v", err)
	}

	cfg2 := NewDefaultToolConfig()
	cfg2.SourceTimeoutSeconds = -1
	if err := cfg2.Validate(); !errors.Is(err, ErrInvalidSourceTimeout) {
		t.Fatalf("expected ErrInvalidSourceTimeout, got %v", err)
	}
}

func TestNewDefaultToolConfigIsValid(t *testing.T) {
	if err := NewDefaultToolConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
