package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/time/rate"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/depspec"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/metadata"
)

func mustCpv(t *testing.T, s string) atom.Cpv {
	t.Helper()
	cpv, err := atom.ParseCpv(s)
	if err != nil {
		t.Fatal(err)
	}
	return cpv
}

func fixtureMeta(t *testing.T) *metadata.PackageMetadata {
	t.Helper()
	rdepend, err := depspec.ParsePackageDeps("cat/a", eapi.EAPI8)
	if err != nil {
		t.Fatal(err)
	}
	return &metadata.PackageMetadata{
		Cpv:         mustCpv(t, "cat/pkg-1.0"),
		RepoID:      "gentoo",
		EapiID:      "8",
		Description: "a test package",
		SlotName:    "0",
		Rdepend:     rdepend,
		IuseList:    []metadata.Iuse{{Flag: "ssl"}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := fixtureMeta(t)
	body := Encode(m, eapi.EAPI8, "deadbeef")
	entry, err := Decode(body, m.Cpv, m.RepoID)
	if err != nil {
		t.Fatalf("decode: %v\nbody:\n%s", err, body)
	}
	if entry.MD5 != "deadbeef" {
		t.Fatalf("MD5 = %q", entry.MD5)
	}
	if entry.Meta.Description != m.Description {
		t.Fatalf("Description = %q", entry.Meta.Description)
	}
	if entry.Meta.SlotName != "0" {
		t.Fatalf("Slot = %q", entry.Meta.SlotName)
	}
	if len(entry.Meta.IuseList) != 1 || entry.Meta.IuseList[0].Flag != "ssl" {
		t.Fatalf("IUSE = %+v", entry.Meta.IuseList)
	}
	deps := depspec.Flatten(entry.Meta.Rdepend)
	if len(deps) != 1 || deps[0].Key() != "cat/a" {
		t.Fatalf("RDEPEND = %+v", deps)
	}
}

func TestEncodeEclasses(t *testing.T) {
	m := fixtureMeta(t)
	m.EclassChecksums = map[string]string{"eutils": "abc", "toolchain": "def"}
	body := Encode(m, eapi.EAPI8, "deadbeef")
	entry, err := Decode(body, m.Cpv, m.RepoID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entry.Eclasses) != 2 || entry.Eclasses["eutils"] != "abc" || entry.Eclasses["toolchain"] != "def" {
		t.Fatalf("Eclasses = %+v", entry.Eclasses)
	}
}

func TestValid(t *testing.T) {
	entry := &Entry{MD5: "abc", Eclasses: map[string]string{"e": "1"}}
	if !Valid(entry, "abc", map[string]string{"e": "1"}) {
		t.Fatal("expected valid")
	}
	if Valid(entry, "xyz", map[string]string{"e": "1"}) {
		t.Fatal("expected invalid on md5 mismatch")
	}
	if Valid(entry, "abc", map[string]string{"e": "2"}) {
		t.Fatal("expected invalid on eclass mismatch")
	}
	if Valid(entry, "abc", map[string]string{}) {
		t.Fatal("expected invalid on missing eclass")
	}
}

func TestStoreAndLoadAtomic(t *testing.T) {
	dir := t.TempDir()
	m := fixtureMeta(t)
	path := filepath.Join(dir, "cat", "pkg-1.0")
	entry := &Entry{Meta: m}
	if err := Store(path, entry, eapi.EAPI8, "deadbeef"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	loaded, err := Load(path, m.Cpv, m.RepoID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.MD5 != "deadbeef" {
		t.Fatalf("MD5 = %q", loaded.MD5)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, de := range entries {
		if filepath.Ext(de.Name()) == ".tmp" || de.Name()[0] == '.' && de.Name() != filepath.Base(path) {
			t.Fatalf("leftover temp file: %s", de.Name())
		}
	}
}

type fakeRegenerator struct {
	failures int
	entry    *Entry
}

func (f *fakeRegenerator) Regenerate(ctx context.Context, cpv atom.Cpv) (*Entry, string, error) {
	if f.failures > 0 {
		f.failures--
		return nil, "", os.ErrDeadlineExceeded
	}
	return f.entry, "deadbeef", nil
}

func TestRegenerateWithRetry(t *testing.T) {
	dir := t.TempDir()
	m := fixtureMeta(t)
	path := filepath.Join(dir, "cat", "pkg-1.0")
	reg := &fakeRegenerator{failures: 2, entry: &Entry{Meta: m}}
	limiter := rate.NewLimiter(rate.Inf, 1)

	_, err := RegenerateWithRetry(context.Background(), limiter, reg, m.Cpv, path, eapi.EAPI8, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected cache file written: %v", err)
	}
}

func TestRegenerateWithRetryExhausted(t *testing.T) {
	dir := t.TempDir()
	m := fixtureMeta(t)
	path := filepath.Join(dir, "cat", "pkg-1.0")
	reg := &fakeRegenerator{failures: 10, entry: &Entry{Meta: m}}
	limiter := rate.NewLimiter(rate.Inf, 1)

	if _, err := RegenerateWithRetry(context.Background(), limiter, reg, m.Cpv, path, eapi.EAPI8, 3); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
}
