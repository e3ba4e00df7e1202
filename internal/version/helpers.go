package version

import (
	"strconv"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// splitRanges splits a version's base text into PMS "ranges": each
// maximal run of digits or each maximal run of non-digits is one
// range, numbered from 1. This mirrors the component numbering that
// ver_cut/ver_rs operate on in the ebuild shell environment.
func splitRanges(base string) []string {
	var ranges []string
	i := 0
	for i < len(base) {
		start := i
		digit := isDigit(base[i])
		for i < len(base) && isDigit(base[i]) == digit {
			i++
		}
		ranges = append(ranges, base[start:i])
	}
	return ranges
}

// Cut implements the ebuild "ver_cut" builtin: extract the inclusive
// range [start, end] of components (1-indexed) from a version string,
// rejoining with the separators that originally appeared between them.
func Cut(ver string, start, end int) (string, error) {
	ranges := splitRanges(ver)
	// components sit at even range indices, separators between them
	n := (len(ranges) + 1) / 2
	if start < 1 {
		start = 1
	}
	if end < 1 || end > n {
		end = n
	}
	if start > end {
		return "", perr.New(perr.KindVersion, ver, 0, "ver_cut: start exceeds end")
	}
	return strings.Join(ranges[2*(start-1):2*end-1], ""), nil
}

// Rs implements the ebuild "ver_rs" builtin: replace the separator
// following range n with repl, for each (n, repl) pair given.
func Rs(ver string, pairs ...string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", perr.New(perr.KindVersion, ver, 0, "ver_rs: arguments must come in (range, repl) pairs")
	}
	ranges := splitRanges(ver)
	for i := 0; i+1 < len(pairs); i += 2 {
		n, err := strconv.Atoi(pairs[i])
		if err != nil {
			return "", perr.New(perr.KindVersion, ver, 0, "ver_rs: range must be numeric")
		}
		repl := pairs[i+1]
		// separators sit at odd range indices (1-based: range 2 is the
		// separator following range 1, range 4 follows range 3, ...)
		idx := n*2 - 1
		if idx < 0 || idx >= len(ranges) {
			continue
		}
		ranges[idx] = repl
	}
	return strings.Join(ranges, ""), nil
}

// Test implements the ebuild "ver_test" builtin: compare two versions
// (or the running package's version against one, by convention of the
// caller) using an operator string.
func Test(a, op, b string) (bool, error) {
	va, err := Parse(a)
	if err != nil {
		return false, err
	}
	vb, err := Parse(b)
	if err != nil {
		return false, err
	}
	c := Compare(va, vb)
	switch op {
	case "-eq", "eq":
		return c == 0, nil
	case "-ne", "ne":
		return c != 0, nil
	case "-lt", "lt":
		return c < 0, nil
	case "-le", "le":
		return c <= 0, nil
	case "-gt", "gt":
		return c > 0, nil
	case "-ge", "ge":
		return c >= 0, nil
	default:
		return false, perr.New(perr.KindVersion, op, 0, "ver_test: unknown operator")
	}
}
