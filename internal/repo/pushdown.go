package repo

import (
	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// cpnOnly reports whether r only ever inspects Category/Package, so it
// can be decided from a bare Cpn without enumerating versions (spec
// §4.I "if r entails a Cpn predicate, categories and packages that
// cannot match are skipped without enumerating their versions").
func cpnOnly(r restrict.Restrict) bool {
	switch r.Kind {
	case restrict.KindTrue, restrict.KindFalse:
		return true
	case restrict.KindString:
		return r.StrField == restrict.FieldCategory || r.StrField == restrict.FieldPackage
	case restrict.KindAnd, restrict.KindOr, restrict.KindXor:
		for _, c := range r.Children {
			if !cpnOnly(c) {
				return false
			}
		}
		return true
	case restrict.KindNot:
		return r.Child != nil && cpnOnly(*r.Child)
	default:
		return false
	}
}

// cpvDecidable reports whether r can be decided from category, package,
// and version alone, without loading full package metadata (spec §4.I
// "if r entails a Cpv predicate, versions that cannot match are
// skipped without loading metadata").
func cpvDecidable(r restrict.Restrict) bool {
	switch r.Kind {
	case restrict.KindVersion:
		return true
	case restrict.KindAnd, restrict.KindOr, restrict.KindXor:
		for _, c := range r.Children {
			if !cpvDecidable(c) {
				return false
			}
		}
		return true
	case restrict.KindNot:
		return r.Child != nil && cpvDecidable(*r.Child)
	default:
		return cpnOnly(r)
	}
}

// cpnProbe is a minimal restrict.Pkg adaptor exposing only Category and
// Package; used to evaluate a cpnOnly restriction without fabricating
// a full package record. Callers never reach the other accessors
// because cpnOnly already guarantees the restriction doesn't touch
// them.
type cpnProbe struct {
	cat, pkg string
}

func (p cpnProbe) Category() string         { return p.cat }
func (p cpnProbe) Package() string          { return p.pkg }
func (p cpnProbe) HasVersion() bool         { return false }
func (p cpnProbe) Version() version.Version { return version.Version{} }
func (p cpnProbe) Slot() string             { return "" }
func (p cpnProbe) Subslot() string          { return "" }
func (p cpnProbe) Repo() string             { return "" }
func (p cpnProbe) IUSE() []string           { return nil }
func (p cpnProbe) Keywords() []string       { return nil }
func (p cpnProbe) Homepage() []string       { return nil }
func (p cpnProbe) Inherit() []string        { return nil }

// cpvProbe extends cpnProbe with a concrete version, for cpvDecidable
// restrictions.
type cpvProbe struct {
	cat, pkg string
	ver      version.Version
}

func (p cpvProbe) Category() string         { return p.cat }
func (p cpvProbe) Package() string          { return p.pkg }
func (p cpvProbe) HasVersion() bool         { return true }
func (p cpvProbe) Version() version.Version { return p.ver }
func (p cpvProbe) Slot() string             { return "" }
func (p cpvProbe) Subslot() string          { return "" }
func (p cpvProbe) Repo() string             { return "" }
func (p cpvProbe) IUSE() []string           { return nil }
func (p cpvProbe) Keywords() []string       { return nil }
func (p cpvProbe) Homepage() []string       { return nil }
func (p cpvProbe) Inherit() []string        { return nil }

func matchesCpn(r restrict.Restrict, cpn atom.Cpn) bool {
	return r.Matches(cpnProbe{cat: cpn.Category, pkg: cpn.Package})
}

func matchesCpv(r restrict.Restrict, cpv atom.Cpv) bool {
	return r.Matches(cpvProbe{cat: cpv.Category, pkg: cpv.Package, ver: cpv.Version})
}
