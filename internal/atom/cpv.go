package atom

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// looksLikeVersion reports whether s parses as an operator-free version.
func looksLikeVersion(s string) bool {
	_, err := version.Parse(s)
	return err == nil
}

// Cpv is a Cpn plus a concrete Version (never an operator) — the
// atomic identity of a package release.
type Cpv struct {
	Cpn
	Version version.Version
}

func (c Cpv) String() string { return c.Cpn.String() + "-" + c.Version.String() }

// ParseCpv parses "category/package-version" where version must be
// operator-free. A look-ahead disambiguates the pkg-ver boundary: we
// try progressively longer package prefixes and check whether the
// remainder parses as "-version" (spec §4.B).
func ParseCpv(s string) (Cpv, error) {
	cat, rest, err := splitCategoryPackage(s)
	if err != nil {
		return Cpv{}, err
	}
	if err := validateCategory(s, cat, 0); err != nil {
		return Cpv{}, err
	}

	pkg, ver, ok := splitPackageVersion(rest)
	if !ok {
		return Cpv{}, perr.New(perr.KindAtom, s, len(cat)+1,
			"could not locate a valid '-<version>' suffix")
	}
	if !packageRe.MatchString(pkg) {
		return Cpv{}, perr.New(perr.KindAtom, s, len(cat)+1, "invalid package name")
	}

	v, err := version.Parse(ver)
	if err != nil {
		return Cpv{}, err
	}

	return Cpv{Cpn: Cpn{Category: cat, Package: pkg}, Version: v}, nil
}

// splitPackageVersion finds the last "-" such that everything before it
// is a syntactically valid package-name-shaped prefix and everything
// after it parses as an operator-free version.
func splitPackageVersion(s string) (pkg, ver string, ok bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != '-' {
			continue
		}
		candidatePkg := s[:i]
		candidateVer := s[i+1:]
		if candidatePkg == "" || candidateVer == "" {
			continue
		}
		if !looksLikeVersion(candidateVer) {
			continue
		}
		return candidatePkg, candidateVer, true
	}
	return "", "", false
}

// ParsePath parses a standard ebuild repository path
// "<category>/<package>/<package>-<version>.ebuild" into its Cpv,
// matching the layout described in spec §6.
func ParsePath(path string) (Cpv, error) {
	path = strings.TrimSuffix(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return Cpv{}, perr.New(perr.KindAtom, path, 0, "expected category/package/package-version.ebuild")
	}
	file := parts[len(parts)-1]
	pkg := parts[len(parts)-2]
	cat := parts[len(parts)-3]

	if !strings.HasSuffix(file, ".ebuild") {
		return Cpv{}, perr.New(perr.KindAtom, path, 0, "expected a '.ebuild' filename")
	}
	stem := strings.TrimSuffix(file, ".ebuild")
	prefix := pkg + "-"
	if !strings.HasPrefix(stem, prefix) {
		return Cpv{}, perr.New(perr.KindAtom, path, 0, "ebuild filename doesn't match its package directory")
	}
	verStr := stem[len(prefix):]

	if err := validateCategory(path, cat, 0); err != nil {
		return Cpv{}, err
	}
	if !packageRe.MatchString(pkg) {
		return Cpv{}, perr.New(perr.KindAtom, path, 0, "invalid package name")
	}
	v, err := version.Parse(verStr)
	if err != nil {
		return Cpv{}, err
	}

	return Cpv{Cpn: Cpn{Category: cat, Package: pkg}, Version: v}, nil
}
