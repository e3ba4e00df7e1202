// Package atom implements the Cpn/Cpv/Dep identity grammars (spec §4.B):
// category/package names, concrete package releases, and generalized
// package references (blockers, version constraints, slot deps, use
// deps, repo ids), all gated by the active EAPI.
package atom

import (
	"fmt"
	"regexp"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

var (
	categoryRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_.-]*$`)
	// packageRe matches the package-name shape; the "must not end with
	// a hyphen followed by a version" rule is a separate look-ahead
	// check applied during Cpn/Cpv parsing, since regex can't express
	// "the remainder doesn't parse as a version" directly.
	packageRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_-]*$`)
	slotRe    = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_.-]*$`)
	repoRe    = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)
)

// Cpn is a category/package pair, version-free.
type Cpn struct {
	Category string
	Package  string
}

func (c Cpn) String() string { return c.Category + "/" + c.Package }

// IsValidCategory reports whether s is a syntactically valid category
// name, for filtering directory listings during repository enumeration.
func IsValidCategory(s string) bool { return categoryRe.MatchString(s) }

// IsValidPackageName reports whether s is a syntactically valid bare
// package name (no version suffix), for filtering directory listings
// during repository enumeration.
func IsValidPackageName(s string) bool {
	return packageRe.MatchString(s) && !endsWithVersionSuffix(s)
}

// ParseCpn parses a bare "category/package" string.
func ParseCpn(s string) (Cpn, error) {
	cat, pkg, err := splitCategoryPackage(s)
	if err != nil {
		return Cpn{}, err
	}
	if err := validateCategory(s, cat, 0); err != nil {
		return Cpn{}, err
	}
	if err := validatePackageName(s, pkg, len(cat)+1); err != nil {
		return Cpn{}, err
	}
	return Cpn{Category: cat, Package: pkg}, nil
}

func splitCategoryPackage(s string) (cat, pkg string, err error) {
	idx := indexByte(s, '/')
	if idx < 0 {
		return "", "", perr.New(perr.KindAtom, s, 0, "missing '/' separating category and package")
	}
	return s[:idx], s[idx+1:], nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func validateCategory(orig, cat string, offset int) error {
	if !categoryRe.MatchString(cat) {
		return perr.New(perr.KindAtom, orig, offset, fmt.Sprintf("invalid category name %q", cat))
	}
	return nil
}

// validatePackageName checks the package-name grammar including the
// negative look-ahead: the package name must not end with "-<version>".
func validatePackageName(orig, pkg string, offset int) error {
	if !packageRe.MatchString(pkg) {
		return perr.New(perr.KindAtom, orig, offset, fmt.Sprintf("invalid package name %q", pkg))
	}
	if endsWithVersionSuffix(pkg) {
		return perr.New(perr.KindAtom, orig, offset,
			fmt.Sprintf("package name %q looks like it ends with a version", pkg))
	}
	return nil
}

// endsWithVersionSuffix reports whether pkg has a trailing "-<version>"
// that would parse as a valid operator-free version, per spec §4.B's
// package-name look-ahead rule.
func endsWithVersionSuffix(pkg string) bool {
	for i := len(pkg) - 1; i >= 0; i-- {
		if pkg[i] != '-' {
			continue
		}
		rest := pkg[i+1:]
		if rest == "" {
			continue
		}
		if looksLikeVersion(rest) {
			return true
		}
	}
	return false
}
