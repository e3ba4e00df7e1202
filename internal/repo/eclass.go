package repo

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EclassTable maps eclass name to its absolute path and current
// content checksum, built by scanning <masters...>/eclass then
// <self>/eclass in master order so later (more specific) entries
// override earlier ones (spec §4.I "Construction").
type EclassTable struct {
	entries map[string]eclassEntry
}

type eclassEntry struct {
	path     string
	checksum string
}

// buildEclassTable scans dirs in order, each a repository root whose
// "eclass" subdirectory is scanned for "*.eclass" files.
func buildEclassTable(dirs []string) (EclassTable, error) {
	t := EclassTable{entries: map[string]eclassEntry{}}
	for _, dir := range dirs {
		eclassDir := filepath.Join(dir, "eclass")
		infos, err := os.ReadDir(eclassDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return EclassTable{}, err
		}
		for _, info := range infos {
			name := info.Name()
			if info.IsDir() || !strings.HasSuffix(name, ".eclass") {
				continue
			}
			path := filepath.Join(eclassDir, name)
			sum, err := checksumFile(path)
			if err != nil {
				return EclassTable{}, err
			}
			t.entries[strings.TrimSuffix(name, ".eclass")] = eclassEntry{path: path, checksum: sum}
		}
	}
	return t, nil
}

func checksumFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:]), nil
}

// Has reports whether name is a known eclass.
func (t EclassTable) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Path returns the absolute file path for name.
func (t EclassTable) Path(name string) string { return t.entries[name].path }

// Checksum returns the current content checksum for name.
func (t EclassTable) Checksum(name string) string { return t.entries[name].checksum }

// Names returns every known eclass name, sorted.
func (t EclassTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
