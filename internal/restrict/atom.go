package restrict

import (
	"regexp"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// FromAtom converts d into its canonical Restrict: an And of the
// category/package predicates plus a predicate per present optional
// field (spec §4.E). This is what lets restriction-based iteration
// accept an atom literal as shorthand.
func FromAtom(d atom.Dep) Restrict {
	parts := []Restrict{
		Equal(FieldCategory, d.Category),
		Equal(FieldPackage, d.Package),
	}
	if d.HasVersion {
		parts = append(parts, VersionConstraint(d.Version))
	}
	if d.HasSlot {
		parts = append(parts, Equal(FieldSlot, d.Slot))
	}
	if d.HasSubslot {
		parts = append(parts, Equal(FieldSubslot, d.Subslot))
	}
	if d.HasRepo {
		parts = append(parts, Equal(FieldRepo, d.Repo))
	}
	return And(parts...)
}

// ParseGlob parses a glob dep string such as "cat*/pkg*:*/*::repo*"
// into a restriction tree (spec §4.E). Each "*" in a name component
// becomes a regex ".*" in an anchored regex predicate; components
// without "*" use exact-match predicates, and a bare "*" component
// imposes no constraint at all.
func ParseGlob(s string) (Restrict, error) {
	orig := s
	rest := s

	var repo string
	if idx := strings.LastIndex(rest, "::"); idx >= 0 {
		repo = rest[idx+2:]
		rest = rest[:idx]
	}

	var slotPart string
	hasSlot := false
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		slotPart = rest[idx+1:]
		hasSlot = true
		rest = rest[:idx]
	}

	catIdx := strings.IndexByte(rest, '/')
	if catIdx < 0 {
		return Restrict{}, perr.New(perr.KindGlob, orig, 0, "missing '/' separating category and package")
	}
	catTok, pkgTok := rest[:catIdx], rest[catIdx+1:]
	if catTok == "" || pkgTok == "" {
		return Restrict{}, perr.New(perr.KindGlob, orig, 0, "empty category or package component")
	}

	var parts []Restrict
	if r := globField(FieldCategory, catTok); r != nil {
		parts = append(parts, *r)
	}
	if r := globField(FieldPackage, pkgTok); r != nil {
		parts = append(parts, *r)
	}

	if hasSlot {
		slot, subslot, hasSub := strings.Cut(slotPart, "/")
		if r := globField(FieldSlot, slot); r != nil {
			parts = append(parts, *r)
		}
		if hasSub {
			if r := globField(FieldSubslot, subslot); r != nil {
				parts = append(parts, *r)
			}
		}
	}

	if repo != "" {
		if r := globField(FieldRepo, repo); r != nil {
			parts = append(parts, *r)
		}
	}

	return And(parts...), nil
}

// globField builds the predicate for one glob component, or nil when
// the component is a bare "*" imposing no constraint.
func globField(field StringField, tok string) *Restrict {
	if tok == "*" {
		return nil
	}
	if !strings.Contains(tok, "*") {
		r := Equal(field, tok)
		return &r
	}
	re := regexp.MustCompile(globToRegex(tok))
	r := Restrict{Kind: KindString, StrField: field, StrOp: StringRegex, StrRegex: re}
	return &r
}

// globToRegex escapes tok as a literal except for "*", which becomes
// ".*", and anchors the whole pattern.
func globToRegex(tok string) string {
	segments := strings.Split(tok, "*")
	for i, seg := range segments {
		segments[i] = regexp.QuoteMeta(seg)
	}
	return "^" + strings.Join(segments, ".*") + "$"
}
