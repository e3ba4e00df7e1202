package shell

import (
	"testing"

	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

func TestVersionBuiltinVerCut(t *testing.T) {
	got, err := VersionBuiltin(eapi.Latest, "ver_cut", []string{"1.2.3.4", "2-3"})
	if err != nil {
		t.Fatalf("VersionBuiltin: %v", err)
	}
	if got != "2.3" {
		t.Fatalf("got %q, want 2.3", got)
	}
}

func TestVersionBuiltinVerCutOpenEnded(t *testing.T) {
	got, err := VersionBuiltin(eapi.Latest, "ver_cut", []string{"1.2.3", "2-"})
	if err != nil {
		t.Fatalf("VersionBuiltin: %v", err)
	}
	if got != "2.3" {
		t.Fatalf("got %q, want 2.3", got)
	}
}

func TestVersionBuiltinVerRs(t *testing.T) {
	got, err := VersionBuiltin(eapi.Latest, "ver_rs", []string{"1", "-", "1.2.3"})
	if err != nil {
		t.Fatalf("VersionBuiltin: %v", err)
	}
	if got != "1-2.3" {
		t.Fatalf("got %q, want 1-2.3", got)
	}
}

func TestVersionBuiltinVerTest(t *testing.T) {
	got, err := VersionBuiltin(eapi.Latest, "ver_test", []string{"1.0", "-lt", "2.0"})
	if err != nil {
		t.Fatalf("VersionBuiltin: %v", err)
	}
	if got != "0" {
		t.Fatalf("got %q, want success exit code 0", got)
	}

	got, err = VersionBuiltin(eapi.Latest, "ver_test", []string{"2.0", "-lt", "1.0"})
	if err != nil {
		t.Fatalf("VersionBuiltin: %v", err)
	}
	if got != "1" {
		t.Fatalf("got %q, want failure exit code 1", got)
	}
}

func TestVersionBuiltinUnknownCommand(t *testing.T) {
	if _, err := VersionBuiltin(eapi.Latest, "ver_bogus", nil); err == nil {
		t.Fatal("expected an error for an unknown builtin name")
	}
}
