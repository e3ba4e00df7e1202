// Package reposet implements an ordered, deduplicated collection of
// repositories (SUPPLEMENTED FEATURES #6, grounded on
// original_source/crates/pkgcraft/src/repo/set.rs): a fixed total
// order by (−priority, id, format), set algebra over membership, and
// restricted iteration that pushes a repo-id predicate down before
// delegating to each member's own restricted iterator.
package reposet

import (
	"sort"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// Repo is the minimal surface reposet needs from a member repository.
// internal/repo's EbuildRepo, ConfiguredRepo, and FakeRepo all satisfy
// this.
type Repo interface {
	ID() string
	Priority() int
	Format() string
}

// CpvIterable is implemented by repos that can return their full Cpv
// iteration pushed down through a restriction; FakeRepo satisfies this
// directly, EbuildRepo/ConfiguredRepo via their (restriction) (..., error)
// forms adapted by the caller.
type CpvIterable interface {
	IterCpv(restrict.Restrict) []atom.Cpv
}

// less implements the set's fixed total order: higher priority sorts
// first, then lexical id, then format as a final tiebreaker
// (original_source/crates/pkgcraft/src/repo.rs's make_repo_traits!
// macro inverts priority so "higher priority first" falls out of a
// plain ascending sort on the derived tuple).
func less(a, b Repo) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() > b.Priority()
	}
	if a.ID() != b.ID() {
		return a.ID() < b.ID()
	}
	return a.Format() < b.Format()
}

// Set is an ordered, deduplicated collection of repos (by id).
type Set struct {
	repos []Repo
}

// New builds a Set from repos, deduplicating by id (first occurrence
// wins) and sorting into the fixed total order.
func New(repos ...Repo) *Set {
	s := &Set{}
	for _, r := range repos {
		s.add(r)
	}
	s.sort()
	return s
}

func (s *Set) add(r Repo) {
	for _, existing := range s.repos {
		if existing.ID() == r.ID() {
			return
		}
	}
	s.repos = append(s.repos, r)
}

func (s *Set) sort() {
	sort.SliceStable(s.repos, func(i, j int) bool { return less(s.repos[i], s.repos[j]) })
}

// Repos returns the set's members in the fixed total order.
func (s *Set) Repos() []Repo {
	out := make([]Repo, len(s.repos))
	copy(out, s.repos)
	return out
}

// Len reports the number of member repos.
func (s *Set) Len() int { return len(s.repos) }

// IDs returns member ids in set order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.repos))
	for i, r := range s.repos {
		out[i] = r.ID()
	}
	return out
}

// Contains reports whether a repo with id is a member.
func (s *Set) Contains(id string) bool {
	for _, r := range s.repos {
		if r.ID() == id {
			return true
		}
	}
	return false
}

// Union returns the set union of s and other, re-sorted (spec-style
// set algebra, grounded on set.rs's BitOr).
func (s *Set) Union(other *Set) *Set {
	result := New(s.repos...)
	for _, r := range other.repos {
		result.add(r)
	}
	result.sort()
	return result
}

// Intersect returns repos present in both s and other (set.rs's BitAnd).
func (s *Set) Intersect(other *Set) *Set {
	result := &Set{}
	for _, r := range s.repos {
		if other.Contains(r.ID()) {
			result.add(r)
		}
	}
	result.sort()
	return result
}

// Difference returns repos in s but not in other (set.rs's Sub).
func (s *Set) Difference(other *Set) *Set {
	result := &Set{}
	for _, r := range s.repos {
		if !other.Contains(r.ID()) {
			result.add(r)
		}
	}
	result.sort()
	return result
}

// SymmetricDifference returns repos in exactly one of s or other
// (set.rs's BitXor).
func (s *Set) SymmetricDifference(other *Set) *Set {
	result := &Set{}
	for _, r := range s.repos {
		if !other.Contains(r.ID()) {
			result.add(r)
		}
	}
	for _, r := range other.repos {
		if !s.Contains(r.ID()) {
			result.add(r)
		}
	}
	result.sort()
	return result
}

// repoIDs extracts any repo-id equality predicates conjoined at the
// top level of restriction, mirroring set.rs's iter_restrict: a bare
// top-level And is inspected for Repo(id) children so repo-set
// iteration can skip whole member repos before delegating to their own
// restricted iterators.
func repoIDs(restriction restrict.Restrict) []string {
	var ids []string
	collect := func(r restrict.Restrict) {
		if r.Kind == restrict.KindString && r.StrField == restrict.FieldRepo && r.StrOp == restrict.StringEqual {
			ids = append(ids, r.StrValue)
		}
	}
	if restriction.Kind == restrict.KindAnd {
		for _, c := range restriction.Children {
			collect(c)
		}
	} else {
		collect(restriction)
	}
	return ids
}

// IterCpv pushes any repo-id predicate in restriction down to skip
// whole non-matching member repos, then delegates to each remaining
// member's own IterCpv, concatenating and re-sorting the result.
func (s *Set) IterCpv(restriction restrict.Restrict, iterFns map[string]func(restrict.Restrict) ([]atom.Cpv, error)) ([]atom.Cpv, error) {
	ids := repoIDs(restriction)
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}

	var out []atom.Cpv
	for _, r := range s.repos {
		if len(wanted) > 0 && !wanted[r.ID()] {
			continue
		}
		fn, ok := iterFns[r.ID()]
		if !ok {
			continue
		}
		cpvs, err := fn(restriction)
		if err != nil {
			return nil, err
		}
		out = append(out, cpvs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Package != out[j].Package {
			return out[i].Package < out[j].Package
		}
		return version.Compare(out[i].Version, out[j].Version) < 0
	})
	return out, nil
}
