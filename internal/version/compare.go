package version

import "strings"

// Compare implements the total order from spec §4.A: numeric
// components (index-aware), letter, suffixes, revision. It ignores
// both versions' operators — callers needing operator semantics use
// Matches/Intersects instead.
func Compare(a, b Version) int {
	if c := compareComponents(a.components, b.components); c != 0 {
		return c
	}
	if c := compareLetter(a, b); c != 0 {
		return c
	}
	if c := compareSuffixes(a.suffixes, b.suffixes); c != 0 {
		return c
	}
	return compareRevision(a, b)
}

// Less reports whether a orders strictly before b.
func Less(a, b Version) bool { return Compare(a, b) < 0 }

// Equal reports whether a and b are equal under the total order (this
// is what the "=" operator uses, ignoring operators themselves).
func Equal(a, b Version) bool { return Compare(a, b) == 0 }

func compareComponents(a, b []component) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareComponent(i, a[i], b[i]); c != 0 {
			return c
		}
	}
	// shorter sequence (proper prefix) is less
	if len(a) < len(b) {
		return -1
	}
	if len(a) > len(b) {
		return 1
	}
	return 0
}

// compareComponent compares the component at index idx. The first
// component is always numeric; later components starting with '0' are
// compared as trailing-zero-stripped strings (so "1.1" > "1.01" but
// "1.0" == "1.00"), others numerically.
func compareComponent(idx int, a, b component) int {
	if idx > 0 && (strings.HasPrefix(a.raw, "0") || strings.HasPrefix(b.raw, "0")) {
		as := strings.TrimRight(a.raw, "0")
		bs := strings.TrimRight(b.raw, "0")
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	default:
		return 0
	}
}

func compareLetter(a, b Version) int {
	switch {
	case a.hasLetter && !b.hasLetter:
		return 1
	case !a.hasLetter && b.hasLetter:
		return -1
	case !a.hasLetter && !b.hasLetter:
		return 0
	case a.letter < b.letter:
		return -1
	case a.letter > b.letter:
		return 1
	default:
		return 0
	}
}

func compareSuffixes(a, b []suffix) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].kind != b[i].kind {
			if a[i].kind < b[i].kind {
				return -1
			}
			return 1
		}
		if a[i].num != b[i].num {
			if a[i].num < b[i].num {
				return -1
			}
			return 1
		}
	}
	if len(a) > len(b) {
		// extra suffix decides: "p" means greater, anything else less
		if a[n].kind == suffixP {
			return 1
		}
		return -1
	}
	if len(b) > len(a) {
		if b[n].kind == suffixP {
			return -1
		}
		return 1
	}
	return 0
}

func compareRevision(a, b Version) int {
	ar, br := uint64(0), uint64(0)
	if a.hasRev {
		ar = a.revision
	}
	if b.hasRev {
		br = b.revision
	}
	switch {
	case ar < br:
		return -1
	case ar > br:
		return 1
	default:
		return 0
	}
}

// Matches reports whether candidate (a concrete, operator-free version)
// satisfies this version's operator+value constraint. If this version
// has OpNone it is treated as an exact match requirement.
func (v Version) Matches(candidate Version) bool {
	candidate = candidate.WithoutOp()
	switch v.op {
	case OpNone, OpEqual:
		return Equal(candidate, v.WithoutOp())
	case OpEqualGlob:
		return EqualGlobMatch(candidate, v)
	case OpApproximate:
		return Equal(candidate.WithoutRevision(), v.WithoutRevision())
	case OpLess:
		return Compare(candidate, v.WithoutOp()) < 0
	case OpLessOrEqual:
		return Compare(candidate, v.WithoutOp()) <= 0
	case OpGreaterOrEqual:
		return Compare(candidate, v.WithoutOp()) >= 0
	case OpGreater:
		return Compare(candidate, v.WithoutOp()) > 0
	default:
		return false
	}
}

// EqualGlobMatch implements the "=*" operator: rhs's canonical text
// (operator and trailing "*" stripped) must be a prefix of candidate's
// canonical text at a component boundary. A component boundary falls
// after a complete numeric component, after the optional letter, after
// each suffix, or after the revision — i.e. the next character in
// candidate's text (if any) must not continue the same numeric run that
// rhs's prefix ends in.
//
// Open Question (spec §9, resolved per the source's byte-boundary
// rule): "=a/b-1*" matches "1", "1.1", "1a", "1-r5" but not "10",
// because "10" continues the digit run that "1" ends in.
func EqualGlobMatch(candidate, rhs Version) bool {
	prefix := rhs.WithoutOp().bodyString()
	full := candidate.WithoutOp().bodyString()
	if !strings.HasPrefix(full, prefix) {
		return false
	}
	if len(full) == len(prefix) {
		return true
	}
	// boundary check: if the prefix ends mid-way through a run of
	// digits that continues in full, it's not a valid boundary.
	last := prefix[len(prefix)-1]
	next := full[len(prefix)]
	if isDigit(last) && isDigit(next) {
		return false
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Intersects reports whether there exists at least one concrete version
// satisfying both a and b's operator+value constraints (spec §4.A).
// Symmetric by construction.
func Intersects(a, b Version) bool {
	// concrete (operator-free) versions intersect only themselves
	if a.op == OpNone && b.op == OpNone {
		return Equal(a, b)
	}
	if a.op == OpNone {
		return b.Matches(a)
	}
	if b.op == OpNone {
		return a.Matches(b)
	}

	// both are ranges/constraints: reduce to interval intersection for
	// ordered operators, falling back to representative-based checks
	// for point-like operators (=, =*, ~).
	if isPoint(a.op) || isPoint(b.op) {
		return intersectWithPoint(a, b)
	}

	lo, loInc, hasLo := lowerBound(a)
	lo2, loInc2, hasLo2 := lowerBound(b)
	hi, hiInc, hasHi := upperBound(a)
	hi2, hiInc2, hasHi2 := upperBound(b)

	// merge lower bounds: take the greater
	effLo, effLoInc, effHasLo := lo, loInc, hasLo
	if hasLo2 && (!hasLo || Compare(lo2, lo) > 0 || (Compare(lo2, lo) == 0 && !loInc2)) {
		effLo, effLoInc, effHasLo = lo2, loInc2, true
	}
	effHi, effHiInc, effHasHi := hi, hiInc, hasHi
	if hasHi2 && (!hasHi || Compare(hi2, hi) < 0 || (Compare(hi2, hi) == 0 && !hiInc2)) {
		effHi, effHiInc, effHasHi = hi2, hiInc2, true
	}

	if !effHasLo || !effHasHi {
		return true
	}
	c := Compare(effLo, effHi)
	if c < 0 {
		return true
	}
	if c == 0 {
		return effLoInc && effHiInc
	}
	return false
}

func isPoint(op Operator) bool {
	return op == OpEqual || op == OpEqualGlob || op == OpApproximate
}

func intersectWithPoint(a, b Version) bool {
	// A representative concrete version drawn from one point operand
	// intersects the other constraint iff the other constraint matches
	// it. Try both operands as the representative source since two
	// globs (or a glob and an approximate) need not share one.
	repA := a.WithoutOp()
	if a.Matches(repA) && b.Matches(repA) {
		return true
	}
	repB := b.WithoutOp()
	if a.Matches(repB) && b.Matches(repB) {
		return true
	}
	return false
}

func lowerBound(v Version) (Version, bool, bool) {
	switch v.op {
	case OpGreaterOrEqual:
		return v.WithoutOp(), true, true
	case OpGreater:
		return v.WithoutOp(), false, true
	default:
		return Version{}, false, false
	}
}

func upperBound(v Version) (Version, bool, bool) {
	switch v.op {
	case OpLessOrEqual:
		return v.WithoutOp(), true, true
	case OpLess:
		return v.WithoutOp(), false, true
	default:
		return Version{}, false, false
	}
}
