package atom

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

func TestParseCpn(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"cat/pkg", false},
		{"cat/pkg-lib", false},
		{"cat/pkg-1", true},  // looks like a version suffix
		{"cat/pkg-1.2.3", true},
		{"catpkg", true},
		{"/pkg", true},
		{"cat/", true},
	}
	for _, c := range cases {
		_, err := ParseCpn(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseCpn(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
	}
}

func TestParseCpv(t *testing.T) {
	cpv, err := ParseCpv("cat/pkg-1.2.3-r1")
	if err != nil {
		t.Fatal(err)
	}
	if cpv.Category != "cat" || cpv.Package != "pkg" {
		t.Fatalf("got %+v", cpv)
	}
	if cpv.Version.String() != "1.2.3-r1" {
		t.Fatalf("version = %q", cpv.Version.String())
	}
}

func TestParsePath(t *testing.T) {
	cpv, err := ParsePath("cat/pkg/pkg-1.2.3.ebuild")
	if err != nil {
		t.Fatal(err)
	}
	if cpv.String() != "cat/pkg-1.2.3" {
		t.Fatalf("got %q", cpv.String())
	}
	if _, err := ParsePath("cat/pkg/other-1.2.3.ebuild"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

// TestFmt mirrors original_source/src/atom.rs's test_fmt: round-trip
// Display output through the parser again and check idempotence.
func TestFmt(t *testing.T) {
	cases := []string{
		"cat/pkg",
		"=cat/pkg-1.2.3",
		"=cat/pkg-1.2.3*",
		"~cat/pkg-1.2.3",
		">=cat/pkg-1.2.3-r1",
		"!cat/pkg",
		"!!cat/pkg",
		"cat/pkg:1",
		"cat/pkg:1/2",
		"cat/pkg:1/2=",
		"cat/pkg:=",
		"cat/pkg:*",
		"cat/pkg[foo,-bar,baz?,!qux=]",
		"cat/pkg[foo(+),bar(-)]",
		"cat/pkg::repo",
		"=cat/pkg-1.2.3:1/2=[foo]::repo",
	}
	for _, s := range cases {
		d, err := ParseDep(s, eapi.Extended)
		if err != nil {
			t.Fatalf("ParseDep(%q): %v", s, err)
		}
		if got := d.String(); got != s {
			t.Errorf("round-trip %q -> %q", s, got)
		}
		d2, err := ParseDep(d.String(), eapi.Extended)
		if err != nil {
			t.Fatalf("re-parse %q: %v", d.String(), err)
		}
		if Compare(d, d2) != 0 {
			t.Errorf("re-parsed dep not equal: %q vs %q", d, d2)
		}
	}
}

func TestAtomKey(t *testing.T) {
	d, err := ParseDep(">=cat/pkg-1.2.3-r1:1", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if d.Key() != "cat/pkg" {
		t.Fatalf("Key() = %q", d.Key())
	}
}

func TestAtomFullVer(t *testing.T) {
	d, err := ParseDep(">=cat/pkg-1.2.3-r1", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if d.FullVer() != "1.2.3-r1" {
		t.Fatalf("FullVer() = %q", d.FullVer())
	}
	d2, err := ParseDep("cat/pkg", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if d2.FullVer() != "" {
		t.Fatalf("FullVer() for bare Cpn = %q, want empty", d2.FullVer())
	}
}

func TestAtomCpv(t *testing.T) {
	d, err := ParseDep(">=cat/pkg-1.2.3-r1", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if d.Cpv() != "cat/pkg-1.2.3-r1" {
		t.Fatalf("Cpv() = %q", d.Cpv())
	}
}

// TestSorting mirrors original_source/src/atom.rs's test_sorting: an
// unordered input list must sort into the expected order under Compare.
func TestSorting(t *testing.T) {
	unsorted := []string{
		"=cat/pkg-2",
		"=cat/pkg-1",
		"!=cat/pkg-1",
		"=acat/pkg-1",
		"=cat/apkg-1",
		"=cat/pkg-1:1",
		"=cat/pkg-1:0",
		"=cat/pkg-1::repo",
	}
	want := []string{
		"=acat/pkg-1",
		"=cat/apkg-1",
		"=cat/pkg-1",
		"=cat/pkg-1::repo",
		"=cat/pkg-1:0",
		"=cat/pkg-1:1",
		"!=cat/pkg-1",
		"=cat/pkg-2",
	}
	deps := make([]Dep, len(unsorted))
	for i, s := range unsorted {
		d, err := ParseDep(s, eapi.Extended)
		if err != nil {
			t.Fatal(err)
		}
		deps[i] = d
	}
	for i := 0; i < len(deps); i++ {
		for j := i + 1; j < len(deps); j++ {
			if Compare(deps[i], deps[j]) > 0 {
				deps[i], deps[j] = deps[j], deps[i]
			}
		}
	}
	got := make([]string, len(deps))
	for i, d := range deps {
		got[i] = d.String()
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestUseDepValidation(t *testing.T) {
	if _, err := ParseDep("cat/pkg[-foo=]", eapi.Extended); err == nil {
		t.Fatal("expected error: '-' cannot combine with '='")
	}
	if _, err := ParseDep("cat/pkg[!foo]", eapi.Extended); err == nil {
		t.Fatal("expected error: '!' requires '=' or '?'")
	}
	if _, err := ParseDep("cat/pkg[foo(+)]", eapi.EAPI0); err == nil {
		t.Fatal("expected feature-disabled error for use_dep_defaults under EAPI0")
	}
}

func TestEapiGating(t *testing.T) {
	if _, err := ParseDep("!cat/pkg", eapi.EAPI0); err == nil {
		t.Fatal("expected blockers disabled under EAPI0")
	}
	if _, err := ParseDep("cat/pkg:1", eapi.EAPI0); err == nil {
		t.Fatal("expected slot_deps disabled under EAPI0")
	}
	if _, err := ParseDep("cat/pkg::repo", eapi.Latest); err == nil {
		t.Fatal("expected repo_ids disabled under non-extended Latest")
	}
	if _, err := ParseDep("cat/pkg:1/2", eapi.EAPI4); err == nil {
		t.Fatal("expected subslots disabled under EAPI4")
	}
}

// genCpvString generates plausible "category/package-version" strings
// from fixed vocabularies, the same closed-vocabulary idiom the pack's
// own parser property test uses for atom fragments.
func genCpvString() gopter.Gen {
	cats := []interface{}{"cat", "dev-lang", "sys-apps", "x11-libs"}
	pkgs := []interface{}{"pkg", "foo", "bar-baz", "libfoo"}
	vers := []interface{}{"1", "1.2", "1.2.3-r1", "2.0_beta1", "0.1_pre2"}
	return gopter.CombineGens(
		gen.OneConstOf(cats...),
		gen.OneConstOf(pkgs...),
		gen.OneConstOf(vers...),
	).Map(func(vs []interface{}) string {
		return vs[0].(string) + "/" + vs[1].(string) + "-" + vs[2].(string)
	})
}

// TestPropertyRoundTrip mirrors the teacher's gopter idiom (retrieved
// from the parser property-test file): parse then re-render then
// re-parse should be idempotent for every generated Cpv string.
func TestPropertyRoundTrip(t *testing.T) {
	params := gopter.DefaultTestParameters()
	props := gopter.NewProperties(params)

	props.Property("Cpv round-trips through String", prop.ForAll(
		func(s string) bool {
			cpv, err := ParseCpv(s)
			if err != nil {
				return true
			}
			cpv2, err := ParseCpv(cpv.String())
			if err != nil {
				return false
			}
			return cpv.String() == cpv2.String()
		},
		genCpvString(),
	))

	props.Property("Compare is antisymmetric", prop.ForAll(
		func(a, b string) bool {
			da, errA := ParseCpv(a)
			db, errB := ParseCpv(b)
			if errA != nil || errB != nil {
				return true
			}
			depA := Dep{Cpn: da.Cpn, HasVersion: true, Version: da.Version}
			depB := Dep{Cpn: db.Cpn, HasVersion: true, Version: db.Version}
			return Compare(depA, depB) == -Compare(depB, depA)
		},
		genCpvString(),
		genCpvString(),
	))

	props.TestingRun(t)
}
