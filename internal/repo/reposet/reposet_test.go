package reposet

import (
	"testing"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
)

type fakeRepo struct {
	id       string
	priority int
	format   string
	cpvs     []atom.Cpv
}

func (f fakeRepo) ID() string     { return f.id }
func (f fakeRepo) Priority() int  { return f.priority }
func (f fakeRepo) Format() string { return f.format }

func mustCpv(t *testing.T, s string) atom.Cpv {
	t.Helper()
	cpv, err := atom.ParseCpv(s)
	if err != nil {
		t.Fatalf("ParseCpv(%q): %v", s, err)
	}
	return cpv
}

func TestSetOrdering(t *testing.T) {
	a := fakeRepo{id: "gentoo", priority: 0, format: "ebuild"}
	b := fakeRepo{id: "overlay", priority: 10, format: "ebuild"}
	c := fakeRepo{id: "zzz", priority: 0, format: "ebuild"}

	s := New(a, b, c)
	ids := s.IDs()
	if len(ids) != 3 || ids[0] != "overlay" || ids[1] != "gentoo" || ids[2] != "zzz" {
		t.Fatalf("got %v, want [overlay gentoo zzz]", ids)
	}
}

func TestSetDedupesByID(t *testing.T) {
	a := fakeRepo{id: "gentoo", priority: 0, format: "ebuild"}
	a2 := fakeRepo{id: "gentoo", priority: 5, format: "ebuild"}
	s := New(a, a2)
	if s.Len() != 1 {
		t.Fatalf("expected dedup to one repo, got %d", s.Len())
	}
}

func TestSetAlgebra(t *testing.T) {
	a := fakeRepo{id: "a", priority: 0, format: "ebuild"}
	b := fakeRepo{id: "b", priority: 0, format: "ebuild"}
	c := fakeRepo{id: "c", priority: 0, format: "ebuild"}

	s1 := New(a, b)
	s2 := New(b, c)

	union := s1.Union(s2)
	if union.Len() != 3 {
		t.Fatalf("expected union of 3, got %d", union.Len())
	}

	intersect := s1.Intersect(s2)
	if intersect.Len() != 1 || !intersect.Contains("b") {
		t.Fatalf("expected intersection {b}, got %v", intersect.IDs())
	}

	diff := s1.Difference(s2)
	if diff.Len() != 1 || !diff.Contains("a") {
		t.Fatalf("expected difference {a}, got %v", diff.IDs())
	}

	symdiff := s1.SymmetricDifference(s2)
	if symdiff.Len() != 2 || !symdiff.Contains("a") || !symdiff.Contains("c") {
		t.Fatalf("expected symmetric difference {a, c}, got %v", symdiff.IDs())
	}
}

func TestIterCpvPushesDownRepoID(t *testing.T) {
	gentoo := fakeRepo{id: "gentoo", priority: 0, format: "ebuild"}
	overlay := fakeRepo{id: "overlay", priority: 0, format: "ebuild"}
	s := New(gentoo, overlay)

	called := map[string]bool{}
	fns := map[string]func(restrict.Restrict) ([]atom.Cpv, error){
		"gentoo": func(restrict.Restrict) ([]atom.Cpv, error) {
			called["gentoo"] = true
			return []atom.Cpv{mustCpv(t, "app-misc/foo-1.0")}, nil
		},
		"overlay": func(restrict.Restrict) ([]atom.Cpv, error) {
			called["overlay"] = true
			return []atom.Cpv{mustCpv(t, "dev-libs/bar-2.0")}, nil
		},
	}

	restriction := restrict.Equal(restrict.FieldRepo, "overlay")
	cpvs, err := s.IterCpv(restriction, fns)
	if err != nil {
		t.Fatalf("IterCpv: %v", err)
	}
	if called["gentoo"] {
		t.Fatal("expected gentoo repo to be skipped by the repo-id pushdown")
	}
	if !called["overlay"] {
		t.Fatal("expected overlay repo to be queried")
	}
	if len(cpvs) != 1 || cpvs[0].String() != "dev-libs/bar-2.0" {
		t.Fatalf("got %v", cpvs)
	}
}

func TestIterCpvNoRestrictionQueriesAllAndSorts(t *testing.T) {
	gentoo := fakeRepo{id: "gentoo", priority: 0, format: "ebuild"}
	overlay := fakeRepo{id: "overlay", priority: 0, format: "ebuild"}
	s := New(gentoo, overlay)

	fns := map[string]func(restrict.Restrict) ([]atom.Cpv, error){
		"gentoo": func(restrict.Restrict) ([]atom.Cpv, error) {
			return []atom.Cpv{mustCpv(t, "zz-misc/zzz-1.0")}, nil
		},
		"overlay": func(restrict.Restrict) ([]atom.Cpv, error) {
			return []atom.Cpv{mustCpv(t, "app-misc/foo-1.0")}, nil
		},
	}

	cpvs, err := s.IterCpv(restrict.True(), fns)
	if err != nil {
		t.Fatalf("IterCpv: %v", err)
	}
	if len(cpvs) != 2 || cpvs[0].String() != "app-misc/foo-1.0" {
		t.Fatalf("expected app-misc/foo sorted first, got %v", cpvs)
	}
}
