package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLayoutConfMissingFileIsEmpty(t *testing.T) {
	l, err := loadLayoutConf(filepath.Join(t.TempDir(), "layout.conf"))
	if err != nil {
		t.Fatalf("loadLayoutConf: %v", err)
	}
	if l.Get("masters") != "" {
		t.Fatalf("expected empty value, got %q", l.Get("masters"))
	}
	if l.ThinManifests() {
		t.Fatal("expected ThinManifests false by default")
	}
}

func TestLoadLayoutConfParsesKeysAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.conf")
	content := "masters = gentoo\n" +
		"# a comment line\n" +
		"cache-formats = md5-dict # trailing comment\n" +
		"thin-manifests = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	l, err := loadLayoutConf(path)
	if err != nil {
		t.Fatalf("loadLayoutConf: %v", err)
	}
	if l.Get("masters") != "gentoo" {
		t.Fatalf("got masters=%q", l.Get("masters"))
	}
	if got := l.Get("cache-formats"); got != "md5-dict" {
		t.Fatalf("got cache-formats=%q", got)
	}
	if !l.ThinManifests() {
		t.Fatal("expected ThinManifests true")
	}
}

func TestLayoutConfListSplitsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.conf")
	if err := os.WriteFile(path, []byte("masters = gentoo foo  bar\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	l, err := loadLayoutConf(path)
	if err != nil {
		t.Fatalf("loadLayoutConf: %v", err)
	}
	masters := l.List("masters")
	if len(masters) != 3 || masters[0] != "gentoo" || masters[1] != "foo" || masters[2] != "bar" {
		t.Fatalf("got %v", masters)
	}
}

func TestLayoutConfLaterKeyWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.conf")
	if err := os.WriteFile(path, []byte("masters = gentoo\nmasters = other\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	l, err := loadLayoutConf(path)
	if err != nil {
		t.Fatalf("loadLayoutConf: %v", err)
	}
	if l.Get("masters") != "other" {
		t.Fatalf("got %q, want later line to win", l.Get("masters"))
	}
}
