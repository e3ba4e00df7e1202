package metadata

import (
	"testing"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/depspec"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

func mustCpv(t *testing.T, s string) atom.Cpv {
	t.Helper()
	cpv, err := atom.ParseCpv(s)
	if err != nil {
		t.Fatal(err)
	}
	return cpv
}

func TestParseKeyword(t *testing.T) {
	cases := []struct {
		in      string
		status  KeywordStatus
		wantErr bool
	}{
		{"amd64", KeywordStable, false},
		{"~amd64", KeywordUnstable, false},
		{"-*", KeywordDisabled, false},
		{"-amd64", KeywordDisabled, false},
		{"*", 0, true},
		{"~*", 0, true},
	}
	for _, c := range cases {
		k, err := ParseKeyword(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseKeyword(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if err == nil && k.Status != c.status {
			t.Errorf("ParseKeyword(%q).Status = %v, want %v", c.in, k.Status, c.status)
		}
	}
}

func TestParseIuse(t *testing.T) {
	i, err := ParseIuse("+ssl")
	if err != nil {
		t.Fatal(err)
	}
	if i.Default != IusePlus || i.Flag != "ssl" {
		t.Fatalf("got %+v", i)
	}
	if _, err := ParseIuse("foo@bar"); err == nil {
		t.Fatal("expected error for '@' in flag name")
	}
}

func TestMergeIncremental(t *testing.T) {
	got := MergeIncremental([]string{"a", "b"}, []string{"b", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func newFixture(t *testing.T) *PackageMetadata {
	t.Helper()
	rdepend, err := depspec.ParsePackageDeps("cat/a cat/b", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	bdepend, err := depspec.ParsePackageDeps("cat/c", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	srcURI, err := depspec.ParseSrcURI("https://example.com/dist/a-1.tar.gz https://example.com/b.tar.gz -> renamed.tar.gz", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	return &PackageMetadata{
		Cpv:      mustCpv(t, "cat/pkg-1.2.3"),
		RepoID:   "gentoo",
		EapiID:   "8",
		SlotName: "0",
		Rdepend:  rdepend,
		Bdepend:  bdepend,
		SrcURI:   srcURI,
		IuseList: []Iuse{{Flag: "ssl"}, {Default: IusePlus, Flag: "doc"}},
	}
}

func TestDependenciesDefaultKeys(t *testing.T) {
	m := newFixture(t)
	deps := m.Dependencies(nil)
	if len(deps) != 3 {
		t.Fatalf("got %d deps, want 3 (bdepend+depend+rdepend default keys): %v", len(deps), deps)
	}
}

func TestDependenciesExplicitKeys(t *testing.T) {
	m := newFixture(t)
	deps := m.Dependencies([]eapi.DepKey{eapi.KeyRDEPEND})
	if len(deps) != 2 {
		t.Fatalf("got %d deps, want 2", len(deps))
	}
}

func TestDistfiles(t *testing.T) {
	m := newFixture(t)
	got := m.Distfiles()
	want := []string{"a-1.tar.gz", "renamed.tar.gz"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIuseEffective(t *testing.T) {
	m := newFixture(t)
	got := m.IuseEffective()
	want := []string{"ssl", "doc"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIntersects(t *testing.T) {
	m := newFixture(t)
	match, err := atom.ParseDep(">=cat/pkg-1.0:0", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Intersects(match) {
		t.Fatal("expected intersects")
	}
	noMatch, err := atom.ParseDep(">=cat/pkg-2.0", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if m.Intersects(noMatch) {
		t.Fatal("expected no intersection for >=2.0 against 1.2.3")
	}
}
