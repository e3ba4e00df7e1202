// Package restrict implements the restriction algebra (spec §4.E): a
// boolean predicate tree over package-shaped candidates, used to drive
// repository iteration and set membership queries.
package restrict

import (
	"regexp"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// Pkg is the minimal surface a restriction tree evaluates against.
// internal/metadata's PackageMetadata satisfies this; keeping it as an
// interface here (rather than importing metadata) avoids a cycle.
type Pkg interface {
	Category() string
	Package() string
	HasVersion() bool
	Version() version.Version
	Slot() string
	Subslot() string
	Repo() string
	IUSE() []string
	Keywords() []string
	Homepage() []string
	Inherit() []string
}

// Kind tags which variant of the Restrict sum a node is.
type Kind int

const (
	KindTrue Kind = iota
	KindFalse
	KindAnd
	KindOr
	KindXor
	KindNot
	KindString
	KindSet
	KindVersion
)

// StringField names a string-valued package field.
type StringField int

const (
	FieldCategory StringField = iota
	FieldPackage
	FieldSlot
	FieldSubslot
	FieldRepo
)

func (f StringField) value(p Pkg) string {
	switch f {
	case FieldCategory:
		return p.Category()
	case FieldPackage:
		return p.Package()
	case FieldSlot:
		return p.Slot()
	case FieldSubslot:
		return p.Subslot()
	case FieldRepo:
		return p.Repo()
	default:
		return ""
	}
}

// StringOp is a string-predicate comparison operator.
type StringOp int

const (
	StringEqual StringOp = iota
	StringPrefix
	StringSuffix
	StringRegex
)

// SetField names a set-valued package field.
type SetField int

const (
	FieldIUSE SetField = iota
	FieldKeywords
	FieldHomepage
	FieldInherit
)

func (f SetField) value(p Pkg) []string {
	switch f {
	case FieldIUSE:
		return p.IUSE()
	case FieldKeywords:
		return p.Keywords()
	case FieldHomepage:
		return p.Homepage()
	case FieldInherit:
		return p.Inherit()
	default:
		return nil
	}
}

// SetOp is a set-predicate operator.
type SetOp int

const (
	SetContains SetOp = iota
	SetFirst
	SetLast
	SetCount
)

// CountCmp is the comparator used by Count's set-size predicate.
type CountCmp int

const (
	CmpLess CountCmp = iota
	CmpLessOrEqual
	CmpEqual
	CmpGreaterOrEqual
	CmpGreater
)

// Restrict is a single node of the restriction tree. Every optional
// field is only meaningful for the Kind(s) documented alongside it.
type Restrict struct {
	Kind     Kind
	Children []Restrict // And, Or, Xor
	Child    *Restrict  // Not

	StrField StringField // String
	StrOp    StringOp
	StrValue string
	StrRegex *regexp.Regexp // compiled form when StrOp == StringRegex

	SetFieldV SetField // Set
	SetOpV    SetOp
	SetValue  string
	CountCmp  CountCmp
	CountN    int

	VersionNone bool            // Version: true means "candidate carries no version"
	VersionDep  version.Version // Version: operator+version to intersect against the candidate
}

// True is the empty conjunction, always satisfied.
func True() Restrict { return Restrict{Kind: KindTrue} }

// False is the empty disjunction, never satisfied.
func False() Restrict { return Restrict{Kind: KindFalse} }

// And combines children conjunctively. And() with no children is True,
// matching the algebra's identity law (spec §4.E).
func And(children ...Restrict) Restrict {
	if len(children) == 0 {
		return True()
	}
	return Restrict{Kind: KindAnd, Children: children}
}

// Or combines children disjunctively. Or() with no children is False.
func Or(children ...Restrict) Restrict {
	if len(children) == 0 {
		return False()
	}
	return Restrict{Kind: KindOr, Children: children}
}

// Xor is satisfied when exactly one child matches.
func Xor(children ...Restrict) Restrict {
	return Restrict{Kind: KindXor, Children: children}
}

// Not negates r. Not(True()) is False, per the algebra's law.
func Not(r Restrict) Restrict {
	if r.Kind == KindTrue {
		return False()
	}
	if r.Kind == KindFalse {
		return True()
	}
	return Restrict{Kind: KindNot, Child: &r}
}

// Equal builds a string-equality predicate on field.
func Equal(field StringField, s string) Restrict {
	return Restrict{Kind: KindString, StrField: field, StrOp: StringEqual, StrValue: s}
}

// Prefix builds a string-prefix predicate on field.
func Prefix(field StringField, s string) Restrict {
	return Restrict{Kind: KindString, StrField: field, StrOp: StringPrefix, StrValue: s}
}

// Suffix builds a string-suffix predicate on field.
func Suffix(field StringField, s string) Restrict {
	return Restrict{Kind: KindString, StrField: field, StrOp: StringSuffix, StrValue: s}
}

// Regex builds a string-regex predicate on field.
func Regex(field StringField, pattern string) (Restrict, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Restrict{}, perr.New(perr.KindQuery, pattern, 0, "invalid regex: "+err.Error())
	}
	return Restrict{Kind: KindString, StrField: field, StrOp: StringRegex, StrRegex: re}, nil
}

// Contains builds a set-membership predicate on field.
func Contains(field SetField, v string) Restrict {
	return Restrict{Kind: KindSet, SetFieldV: field, SetOpV: SetContains, SetValue: v}
}

// First builds a predicate requiring v to be the first element of field.
func First(field SetField, v string) Restrict {
	return Restrict{Kind: KindSet, SetFieldV: field, SetOpV: SetFirst, SetValue: v}
}

// Last builds a predicate requiring v to be the last element of field.
func Last(field SetField, v string) Restrict {
	return Restrict{Kind: KindSet, SetFieldV: field, SetOpV: SetLast, SetValue: v}
}

// Count builds a predicate comparing len(field) against n.
func Count(field SetField, cmp CountCmp, n int) Restrict {
	return Restrict{Kind: KindSet, SetFieldV: field, SetOpV: SetCount, CountCmp: cmp, CountN: n}
}

// NoVersion matches candidates carrying no version at all (spec §4.E).
func NoVersion() Restrict { return Restrict{Kind: KindVersion, VersionNone: true} }

// VersionConstraint matches candidates whose version intersects dep
// (an operator-bearing version, per spec §4.A's intersection rule).
func VersionConstraint(dep version.Version) Restrict {
	return Restrict{Kind: KindVersion, VersionDep: dep}
}

// Matches evaluates r against p, each internal node evaluating its
// children eagerly (spec §4.E).
func (r Restrict) Matches(p Pkg) bool {
	switch r.Kind {
	case KindTrue:
		return true
	case KindFalse:
		return false
	case KindAnd:
		for _, c := range r.Children {
			if !c.Matches(p) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range r.Children {
			if c.Matches(p) {
				return true
			}
		}
		return false
	case KindXor:
		count := 0
		for _, c := range r.Children {
			if c.Matches(p) {
				count++
			}
		}
		return count == 1
	case KindNot:
		return !r.Child.Matches(p)
	case KindString:
		return matchString(r, p)
	case KindSet:
		return matchSet(r, p)
	case KindVersion:
		return matchVersion(r, p)
	default:
		return false
	}
}

func matchString(r Restrict, p Pkg) bool {
	v := r.StrField.value(p)
	switch r.StrOp {
	case StringEqual:
		return v == r.StrValue
	case StringPrefix:
		return len(v) >= len(r.StrValue) && v[:len(r.StrValue)] == r.StrValue
	case StringSuffix:
		return len(v) >= len(r.StrValue) && v[len(v)-len(r.StrValue):] == r.StrValue
	case StringRegex:
		return r.StrRegex.MatchString(v)
	default:
		return false
	}
}

func matchSet(r Restrict, p Pkg) bool {
	vs := r.SetFieldV.value(p)
	switch r.SetOpV {
	case SetContains:
		for _, v := range vs {
			if v == r.SetValue {
				return true
			}
		}
		return false
	case SetFirst:
		return len(vs) > 0 && vs[0] == r.SetValue
	case SetLast:
		return len(vs) > 0 && vs[len(vs)-1] == r.SetValue
	case SetCount:
		n := len(vs)
		switch r.CountCmp {
		case CmpLess:
			return n < r.CountN
		case CmpLessOrEqual:
			return n <= r.CountN
		case CmpEqual:
			return n == r.CountN
		case CmpGreaterOrEqual:
			return n >= r.CountN
		case CmpGreater:
			return n > r.CountN
		default:
			return false
		}
	default:
		return false
	}
}

func matchVersion(r Restrict, p Pkg) bool {
	if r.VersionNone {
		return !p.HasVersion()
	}
	if !p.HasVersion() {
		return false
	}
	return version.Intersects(r.VersionDep, p.Version())
}
