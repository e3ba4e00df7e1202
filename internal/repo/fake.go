package repo

import (
	"sort"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// FakeRepo is an in-memory, filesystem-free repository backed by a
// fixed Cpv list (SUPPLEMENTED FEATURES #4, grounded on
// original_source/src/repo/fake.rs): useful for tests and for tooling
// that has no ebuild tree to read from.
type FakeRepo struct {
	id       string
	priority int
	cpvs     []atom.Cpv
}

// NewFakeRepo builds a FakeRepo from cpv strings, deduplicating and
// sorting them the way original_source/src/repo/fake.rs's constructor
// does (IndexSet + sort).
func NewFakeRepo(id string, priority int, cpvStrs []string) (*FakeRepo, error) {
	seen := map[string]bool{}
	var cpvs []atom.Cpv
	for _, s := range cpvStrs {
		cpv, err := atom.ParseCpv(s)
		if err != nil {
			return nil, err
		}
		key := cpv.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		cpvs = append(cpvs, cpv)
	}
	sort.Slice(cpvs, func(i, j int) bool {
		if cpvs[i].Category != cpvs[j].Category {
			return cpvs[i].Category < cpvs[j].Category
		}
		if cpvs[i].Package != cpvs[j].Package {
			return cpvs[i].Package < cpvs[j].Package
		}
		return version.Compare(cpvs[i].Version, cpvs[j].Version) < 0
	})
	return &FakeRepo{id: id, priority: priority, cpvs: cpvs}, nil
}

func (r *FakeRepo) ID() string     { return r.id }
func (r *FakeRepo) Priority() int  { return r.priority }
func (r *FakeRepo) Format() string { return "fake" }
func (r *FakeRepo) Len() int       { return len(r.cpvs) }

func (r *FakeRepo) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, cpv := range r.cpvs {
		if !seen[cpv.Category] {
			seen[cpv.Category] = true
			out = append(out, cpv.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (r *FakeRepo) Packages(cat string) []string {
	seen := map[string]bool{}
	var out []string
	for _, cpv := range r.cpvs {
		if cpv.Category == cat && !seen[cpv.Package] {
			seen[cpv.Package] = true
			out = append(out, cpv.Package)
		}
	}
	sort.Strings(out)
	return out
}

func (r *FakeRepo) Versions(cat, pkg string) []version.Version {
	var out []version.Version
	for _, cpv := range r.cpvs {
		if cpv.Category == cat && cpv.Package == pkg {
			out = append(out, cpv.Version)
		}
	}
	return out
}

// IterCpv returns every Cpv matching restriction, evaluated at the
// Cpn/Cpv level since a FakeRepo package carries no metadata beyond
// its identity. A restriction that needs fields FakeRepo can't supply
// (slot, keywords, ...) is treated as unfiltered rather than rejected,
// since FakeRepo's whole point is a minimal stand-in for identity-only
// tests.
func (r *FakeRepo) IterCpv(restriction restrict.Restrict) []atom.Cpv {
	pushdown := cpvDecidable(restriction) || cpnOnly(restriction)
	var out []atom.Cpv
	for _, cpv := range r.cpvs {
		if pushdown && !matchesCpv(restriction, cpv) {
			continue
		}
		out = append(out, cpv)
	}
	return out
}

// Contains reports Cpv membership.
func (r *FakeRepo) Contains(cpv atom.Cpv) bool {
	for _, x := range r.cpvs {
		if x.Category == cpv.Category && x.Package == cpv.Package && version.Compare(x.Version, cpv.Version) == 0 {
			return true
		}
	}
	return false
}
