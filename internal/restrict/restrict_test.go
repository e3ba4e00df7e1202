package restrict

import (
	"testing"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

type fakePkg struct {
	cat, pkg, slot, subslot, repo string
	hasVersion                    bool
	ver                           version.Version
	iuse, keywords, homepage, inherit []string
}

func (f fakePkg) Category() string      { return f.cat }
func (f fakePkg) Package() string       { return f.pkg }
func (f fakePkg) HasVersion() bool      { return f.hasVersion }
func (f fakePkg) Version() version.Version { return f.ver }
func (f fakePkg) Slot() string          { return f.slot }
func (f fakePkg) Subslot() string       { return f.subslot }
func (f fakePkg) Repo() string          { return f.repo }
func (f fakePkg) IUSE() []string        { return f.iuse }
func (f fakePkg) Keywords() []string    { return f.keywords }
func (f fakePkg) Homepage() []string    { return f.homepage }
func (f fakePkg) Inherit() []string     { return f.inherit }

func mustVersion(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func mustVersionOp(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.ParseWithOp(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestAlgebraIdentities(t *testing.T) {
	p := fakePkg{cat: "cat", pkg: "pkg"}
	if !And().Matches(p) {
		t.Fatal("And() should be True")
	}
	if Or().Matches(p) {
		t.Fatal("Or() should be False")
	}
	if Not(True()).Matches(p) {
		t.Fatal("Not(True()) should be False")
	}
}

func TestStringPredicates(t *testing.T) {
	p := fakePkg{cat: "dev-lang", pkg: "python"}
	if !Equal(FieldCategory, "dev-lang").Matches(p) {
		t.Fatal("Equal should match")
	}
	if !Prefix(FieldCategory, "dev-").Matches(p) {
		t.Fatal("Prefix should match")
	}
	if !Suffix(FieldCategory, "-lang").Matches(p) {
		t.Fatal("Suffix should match")
	}
	re, err := Regex(FieldPackage, "^py.*n$")
	if err != nil {
		t.Fatal(err)
	}
	if !re.Matches(p) {
		t.Fatal("Regex should match")
	}
}

func TestSetPredicates(t *testing.T) {
	p := fakePkg{iuse: []string{"ssl", "doc", "test"}}
	if !Contains(FieldIUSE, "doc").Matches(p) {
		t.Fatal("Contains should match")
	}
	if !First(FieldIUSE, "ssl").Matches(p) {
		t.Fatal("First should match")
	}
	if !Last(FieldIUSE, "test").Matches(p) {
		t.Fatal("Last should match")
	}
	if !Count(FieldIUSE, CmpEqual, 3).Matches(p) {
		t.Fatal("Count(=3) should match")
	}
	if !Count(FieldIUSE, CmpGreater, 2).Matches(p) {
		t.Fatal("Count(>2) should match")
	}
}

func TestVersionPredicate(t *testing.T) {
	p := fakePkg{hasVersion: true, ver: mustVersion(t, "1.2.3")}
	if !VersionConstraint(mustVersionOp(t, ">=1.0")).Matches(p) {
		t.Fatal("expected >=1.0 to match 1.2.3")
	}
	if VersionConstraint(mustVersionOp(t, ">=2.0")).Matches(p) {
		t.Fatal("expected >=2.0 to not match 1.2.3")
	}
	bare := fakePkg{hasVersion: false}
	if !NoVersion().Matches(bare) {
		t.Fatal("NoVersion should match a bare candidate")
	}
	if NoVersion().Matches(p) {
		t.Fatal("NoVersion should not match a versioned candidate")
	}
}

func TestFromAtom(t *testing.T) {
	d, err := atom.ParseDep("=cat/pkg-1.2.3:0", eapi.Extended)
	if err != nil {
		t.Fatal(err)
	}
	r := FromAtom(d)
	match := fakePkg{cat: "cat", pkg: "pkg", slot: "0", hasVersion: true, ver: mustVersion(t, "1.2.3")}
	if !r.Matches(match) {
		t.Fatal("expected atom restriction to match")
	}
	noMatch := fakePkg{cat: "cat", pkg: "pkg", slot: "1", hasVersion: true, ver: mustVersion(t, "1.2.3")}
	if r.Matches(noMatch) {
		t.Fatal("expected slot mismatch to fail")
	}
}

func TestParseGlob(t *testing.T) {
	r, err := ParseGlob("cat*/pkg*:*/*::repo*")
	if err != nil {
		t.Fatal(err)
	}
	match := fakePkg{cat: "category", pkg: "pkgname", slot: "0", subslot: "1", repo: "repository"}
	if !r.Matches(match) {
		t.Fatal("expected glob restriction to match")
	}
	noMatch := fakePkg{cat: "other", pkg: "pkgname", slot: "0", subslot: "1", repo: "repository"}
	if r.Matches(noMatch) {
		t.Fatal("expected category mismatch to fail")
	}
}

func TestParseGlobExact(t *testing.T) {
	r, err := ParseGlob("cat/pkg")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Matches(fakePkg{cat: "cat", pkg: "pkg"}) {
		t.Fatal("expected exact match")
	}
	if r.Matches(fakePkg{cat: "cat", pkg: "pkg2"}) {
		t.Fatal("expected exact mismatch to fail")
	}
}
