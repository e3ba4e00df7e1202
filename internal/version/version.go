// Package version implements the PMS version grammar: parsing,
// canonicalization, total ordering, operator semantics, and the
// intersection algebra used throughout the dependency-language parser
// family.
package version

import (
	"strconv"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// Operator is the optional range operator a version may carry.
type Operator int

const (
	// OpNone means the version is a concrete release identifier.
	OpNone Operator = iota
	OpLess
	OpLessOrEqual
	OpEqual
	OpEqualGlob // canonicalized form of "=...*"
	OpApproximate
	OpGreaterOrEqual
	OpGreater
)

func (o Operator) String() string {
	switch o {
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpEqual:
		return "="
	case OpEqualGlob:
		return "=" // the trailing "*" is appended by Version.String
	case OpApproximate:
		return "~"
	case OpGreaterOrEqual:
		return ">="
	case OpGreater:
		return ">"
	default:
		return ""
	}
}

// component is a single dot-separated numeric component. raw preserves
// the original textual form (leading zeros are significant, see
// Compare); num is its parsed value.
type component struct {
	raw string
	num uint64
}

// suffixKind orders as alpha < beta < pre < rc < (no suffix) < p.
type suffixKind int

const (
	suffixAlpha suffixKind = iota
	suffixBeta
	suffixPre
	suffixRc
	suffixP
)

func (k suffixKind) String() string {
	switch k {
	case suffixAlpha:
		return "alpha"
	case suffixBeta:
		return "beta"
	case suffixPre:
		return "pre"
	case suffixRc:
		return "rc"
	case suffixP:
		return "p"
	default:
		return ""
	}
}

type suffix struct {
	kind suffixKind
	num  uint64
}

// Version is a parsed, immutable PMS version. Value type: construct
// once, share freely, never mutate in place.
type Version struct {
	components []component
	letter     byte // 0 if absent
	hasLetter  bool
	suffixes   []suffix
	revision   uint64
	hasRev     bool
	op         Operator
	raw        string // full canonical text, without operator, without trailing "*"
}

// Parse parses a concrete version (no operator) such as "1.2.3_p4-r5".
func Parse(s string) (Version, error) {
	return parse(s, false)
}

// ParseWithOp parses a version that may be prefixed by a range operator
// and, for "=", optionally suffixed with "*".
func ParseWithOp(s string) (Version, error) {
	return parse(s, true)
}

func parse(s string, allowOp bool) (Version, error) {
	orig := s
	var op Operator
	rest := s

	if allowOp {
		switch {
		case strings.HasPrefix(rest, "<="):
			op, rest = OpLessOrEqual, rest[2:]
		case strings.HasPrefix(rest, ">="):
			op, rest = OpGreaterOrEqual, rest[2:]
		case strings.HasPrefix(rest, "<"):
			op, rest = OpLess, rest[1:]
		case strings.HasPrefix(rest, ">"):
			op, rest = OpGreater, rest[1:]
		case strings.HasPrefix(rest, "="):
			op, rest = OpEqual, rest[1:]
		case strings.HasPrefix(rest, "~"):
			op, rest = OpApproximate, rest[1:]
		default:
			op = OpNone
		}

		if op == OpEqual && strings.HasSuffix(rest, "*") {
			op = OpEqualGlob
			rest = rest[:len(rest)-1]
		} else if strings.HasSuffix(rest, "*") && op != OpEqual {
			return Version{}, perr.New(perr.KindVersion, orig, len(orig)-1,
				"'*' suffix is only valid with the '=' operator")
		}
	}

	v, err := parseBase(rest, orig, len(orig)-len(rest))
	if err != nil {
		return Version{}, err
	}
	v.op = op
	v.raw = rest

	if op == OpApproximate && v.hasRev {
		return Version{}, perr.New(perr.KindVersion, orig, 0,
			"'~' operator requires no revision")
	}

	return v, nil
}

// parseBase parses the operator-free body: numbers ('.' numbers)*
// letter? suffix* revision?
func parseBase(s, orig string, base int) (Version, error) {
	if s == "" {
		return Version{}, perr.New(perr.KindVersion, orig, base, "empty version")
	}

	var v Version
	i := 0
	first := true

	for {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return Version{}, perr.New(perr.KindVersion, orig, base+start,
				"expected a decimal component")
		}
		raw := s[start:i]
		num, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Version{}, perr.New(perr.KindVersion, orig, base+start,
				"numeric component overflows 64-bit range")
		}
		v.components = append(v.components, component{raw: raw, num: num})
		first = false
		_ = first

		if i < len(s) && s[i] == '.' {
			i++
			continue
		}
		break
	}

	// optional single lowercase letter
	if i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		v.letter = s[i]
		v.hasLetter = true
		i++
	}

	// suffixes: "_" (alpha|beta|pre|rc|p) digits?
	for i < len(s) && s[i] == '_' {
		j := i + 1
		kindStart := j
		for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
			j++
		}
		kindStr := s[kindStart:j]
		var kind suffixKind
		switch kindStr {
		case "alpha":
			kind = suffixAlpha
		case "beta":
			kind = suffixBeta
		case "pre":
			kind = suffixPre
		case "rc":
			kind = suffixRc
		case "p":
			kind = suffixP
		default:
			return Version{}, perr.New(perr.KindVersion, orig, base+i,
				"unknown suffix kind %q: must be alpha, beta, pre, rc, or p")
		}
		numStart := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		var num uint64
		if j > numStart {
			n, err := strconv.ParseUint(s[numStart:j], 10, 64)
			if err != nil {
				return Version{}, perr.New(perr.KindVersion, orig, base+numStart,
					"suffix numeric component overflows 64-bit range")
			}
			num = n
		}
		v.suffixes = append(v.suffixes, suffix{kind: kind, num: num})
		i = j
	}

	// revision: "-r" digits
	if i < len(s) && strings.HasPrefix(s[i:], "-r") {
		j := i + 2
		numStart := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == numStart {
			return Version{}, perr.New(perr.KindVersion, orig, base+i, "expected digits after '-r'")
		}
		num, err := strconv.ParseUint(s[numStart:j], 10, 64)
		if err != nil {
			return Version{}, perr.New(perr.KindVersion, orig, base+numStart,
				"revision overflows 64-bit range")
		}
		v.revision = num
		v.hasRev = true
		i = j
	}

	if i != len(s) {
		return Version{}, perr.New(perr.KindVersion, orig, base+i, "unexpected trailing input")
	}

	return v, nil
}

// Op returns the version's range operator, OpNone for a concrete
// release.
func (v Version) Op() Operator { return v.op }

// HasRevision reports whether an explicit "-rN" was present (absence is
// equivalent to -r0 for comparison, but distinguishable for display).
func (v Version) HasRevision() bool { return v.hasRev }

// Revision returns the numeric revision (0 if absent).
func (v Version) Revision() uint64 { return v.revision }

// WithoutOp returns a copy with no operator, for use as the canonical
// concrete-release projection (e.g. for Cpv).
func (v Version) WithoutOp() Version {
	v.op = OpNone
	return v
}

// WithoutRevision returns a copy with no revision component, used by the
// approximate ("~") operator's matching rule.
func (v Version) WithoutRevision() Version {
	v.revision = 0
	v.hasRev = false
	return v
}

// String renders the canonical textual form. Parse(String(v)) == v for
// any v produced by Parse/ParseWithOp (round-trip guarantee, spec §8).
func (v Version) String() string {
	var b strings.Builder
	switch v.op {
	case OpLess:
		b.WriteString("<")
	case OpLessOrEqual:
		b.WriteString("<=")
	case OpEqual, OpEqualGlob:
		b.WriteString("=")
	case OpApproximate:
		b.WriteString("~")
	case OpGreaterOrEqual:
		b.WriteString(">=")
	case OpGreater:
		b.WriteString(">")
	}
	b.WriteString(v.bodyString())
	if v.op == OpEqualGlob {
		b.WriteString("*")
	}
	return b.String()
}

func (v Version) bodyString() string {
	var b strings.Builder
	for i, c := range v.components {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.raw)
	}
	if v.hasLetter {
		b.WriteByte(v.letter)
	}
	for _, s := range v.suffixes {
		b.WriteByte('_')
		b.WriteString(s.kind.String())
		if s.num != 0 {
			b.WriteString(strconv.FormatUint(s.num, 10))
		}
	}
	if v.hasRev {
		b.WriteString("-r")
		b.WriteString(strconv.FormatUint(v.revision, 10))
	}
	return b.String()
}

// Base returns the canonical body text without operator or revision,
// i.e. numbers+letter+suffixes only.
func (v Version) Base() string {
	vv := v
	vv.op = OpNone
	vv.hasRev = false
	return vv.bodyString()
}
