package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

// Path returns the on-disk md5-cache path for cpv within repoDir
// (spec §4.G): "<repo>/metadata/md5-cache/<category>/<PF>".
func Path(repoDir string, cpv atom.Cpv) string {
	pf := cpv.Package + "-" + cpv.Version.String()
	return filepath.Join(repoDir, "metadata", "md5-cache", cpv.Category, pf)
}

// Load reads and decodes the cache entry at path.
func Load(path string, cpv atom.Cpv, repoID string) (*Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(string(content), cpv, repoID)
}

// Valid implements the two-part validation rule (spec §4.G): the
// entry's recorded ebuild hash must match currentEbuildHash, and every
// eclass it names must match eclassHashes exactly (missing or
// mismatched invalidates). Either failure is a cache miss, not an
// error (Open Question decision, DESIGN.md).
func Valid(e *Entry, currentEbuildHash string, eclassHashes map[string]string) bool {
	if e.MD5 != currentEbuildHash {
		return false
	}
	for name, sum := range e.Eclasses {
		if eclassHashes[name] != sum {
			return false
		}
	}
	return true
}

// Store writes entry atomically: a temp file in the same directory is
// written and fsynced, then renamed into place, so concurrent readers
// only ever observe a complete file (spec §4.G "Concurrency contract").
func Store(path string, e *Entry, eapiDef *eapi.Eapi, md5 string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	body := Encode(e.Meta, eapiDef, md5)
	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Regenerator produces a fresh Entry for cpv when the cache misses,
// implemented by the sourcing driver (spec §4.H); kept as an interface
// here to avoid this package depending on internal/shell.
type Regenerator interface {
	Regenerate(ctx context.Context, cpv atom.Cpv) (*Entry, string, error)
}

// RegenerateWithRetry drives reg until it succeeds, paced by limiter so
// a flaky sourcing backend (a shelled-out process that can transiently
// fail) doesn't hammer the filesystem or the ebuild environment on
// every retry. Gives up after maxAttempts.
func RegenerateWithRetry(ctx context.Context, limiter *rate.Limiter, reg Regenerator, cpv atom.Cpv, path string, eapiDef *eapi.Eapi, maxAttempts int) (*Entry, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		entry, md5, err := reg.Regenerate(ctx, cpv)
		if err != nil {
			lastErr = err
			continue
		}
		if err := Store(path, entry, eapiDef, md5); err != nil {
			lastErr = err
			continue
		}
		return entry, nil
	}
	return nil, fmt.Errorf("regenerating cache entry for %s: %w", cpv, lastErr)
}
