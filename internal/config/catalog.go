package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingMaster is the sentinel behind MissingMasterError, returned
// when a repo's masters list names an id absent from the catalog
// (spec §4.I "resolve masters by id against a provided catalog; fail
// with MissingMaster otherwise").
var ErrMissingMaster = errors.New("missing master repo")

// MissingMasterError names which repo's master lookup failed and for
// which id, satisfying errors.Is(err, ErrMissingMaster).
type MissingMasterError struct {
	Repo   string
	Master string
}

func (e *MissingMasterError) Error() string {
	return fmt.Sprintf("repo %q declares master %q, which is not in the catalog", e.Repo, e.Master)
}

func (e *MissingMasterError) Unwrap() error { return ErrMissingMaster }

// RepoEntry is one repos.yaml entry: an id, its on-disk path, an
// iteration priority, and any master ids it depends on.
type RepoEntry struct {
	ID       string   `yaml:"id"`
	Path     string   `yaml:"path"`
	Priority int      `yaml:"priority"`
	Masters  []string `yaml:"masters,omitempty"`
}

// RepoCatalog is the parsed repos.yaml: every known repo, keyed by id.
type RepoCatalog struct {
	Repos map[string]RepoEntry `yaml:"repos"`
}

// LoadRepoCatalog reads and parses a repos.yaml file at path.
func LoadRepoCatalog(path string) (*RepoCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repos.yaml: %w", err)
	}
	var cat RepoCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse repos.yaml: %w", err)
	}
	return &cat, nil
}

// ResolveMasterPaths walks id's masters transitively and returns their
// on-disk paths oldest-ancestor-first, the order internal/repo.Open
// expects so later (more specific) eclass definitions win. A master id
// absent from the catalog fails with MissingMasterError rather than
// being silently skipped.
func (c *RepoCatalog) ResolveMasterPaths(id string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	var walk func(string) error
	walk = func(current string) error {
		if seen[current] {
			return nil
		}
		seen[current] = true
		entry, ok := c.Repos[current]
		if !ok {
			return &MissingMasterError{Repo: id, Master: current}
		}
		for _, master := range entry.Masters {
			if err := walk(master); err != nil {
				return err
			}
			if m, ok := c.Repos[master]; ok {
				paths = append(paths, m.Path)
			}
		}
		return nil
	}

	entry, ok := c.Repos[id]
	if !ok {
		return nil, &MissingMasterError{Repo: id, Master: id}
	}
	seen[id] = true
	for _, master := range entry.Masters {
		if err := walk(master); err != nil {
			return nil, err
		}
		if m, ok := c.Repos[master]; ok {
			paths = append(paths, m.Path)
		}
	}
	return paths, nil
}
