// Package config loads the ambient, tool-facing configuration a CLI
// front-end hands to the rest of the module: a pkgcraft.toml describing
// runtime tuning knobs, and a repos.yaml catalog of known repositories
// (the catalog that spec §4.I's master resolution looks ids up in). Neither file format is part of the package-management
// semantics proper; both follow
// bentoolkit/internal/autoupdate/config.go's sentinel-errored Load +
// validated-struct pattern.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	// ErrConfigNotFound is returned when pkgcraft.toml doesn't exist.
	ErrConfigNotFound = errors.New("pkgcraft.toml not found")
	// ErrInvalidWorkerPoolSize is returned when worker_pool_size isn't positive.
	ErrInvalidWorkerPoolSize = errors.New("worker_pool_size must be positive")
	// ErrInvalidSourceTimeout is returned when source_timeout_seconds isn't positive.
	ErrInvalidSourceTimeout = errors.New("source_timeout_seconds must be positive")
)

// ToolConfig is the parsed pkgcraft.toml: runtime tuning for the
// sourcing driver and cache, the kind of thing a CLI front-end reads
// once at startup.
type ToolConfig struct {
	CacheDir             string `toml:"cache_dir"`
	WorkerPoolSize       int    `toml:"worker_pool_size"`
	SourceTimeoutSeconds int    `toml:"source_timeout_seconds"`
	RepoCatalogPath      string `toml:"repo_catalog"`
}

// defaultToolConfig mirrors what a fresh install ships with.
func defaultToolConfig() ToolConfig {
	return ToolConfig{
		CacheDir:             "/var/cache/edb/md5-cache",
		WorkerPoolSize:       4,
		SourceTimeoutSeconds: 30,
		RepoCatalogPath:      "repos.yaml",
	}
}

// LoadToolConfig reads and parses path, filling unset fields with
// defaults. A missing file is an error: callers that want defaults
// without a file on disk should use defaultToolConfig directly via
// NewDefaultToolConfig.
func LoadToolConfig(path string) (*ToolConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pkgcraft.toml: %w", err)
	}

	cfg := defaultToolConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pkgcraft.toml: %w", err)
	}
	return &cfg, nil
}

// NewDefaultToolConfig returns the configuration a fresh install
// would use with no pkgcraft.toml on disk.
func NewDefaultToolConfig() *ToolConfig {
	cfg := defaultToolConfig()
	return &cfg
}

// Validate checks field invariants, matching the teacher's
// ValidatePackageConfig/ValidateAll shape.
func (c *ToolConfig) Validate() error {
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("pkgcraft.toml: %w: got %d", ErrInvalidWorkerPoolSize, c.WorkerPoolSize)
	}
	if c.SourceTimeoutSeconds <= 0 {
		return fmt.Errorf("pkgcraft.toml: %w: got %d", ErrInvalidSourceTimeout, c.SourceTimeoutSeconds)
	}
	return nil
}
