package depspec

import (
	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

// ParsePackageDeps parses a PACKAGE_DEPS-dialect string (DEPEND,
// BDEPEND, IDEPEND, RDEPEND, PDEPEND) into a Dependency[atom.Dep] set.
func ParsePackageDeps(s string, e *eapi.Eapi) (DependencySet[atom.Dep], error) {
	g := grammar{allowAnyOf: true}
	return parse(s, g, func(tok string) (atom.Dep, error) { return atom.ParseDep(tok, e) })
}

// ParseSrcURI parses a SRC_URI-dialect string into a Dependency[Uri]
// set. "-> rename" pairs require FeatureSrcURIRenames.
func ParseSrcURI(s string, e *eapi.Eapi) (DependencySet[Uri], error) {
	g := grammar{}
	return parse(joinRenames(s), g, newURILeafParser(e))
}

// ParseLicense parses a LICENSE-dialect string into a Dependency[string]
// set of license names.
func ParseLicense(s string) (DependencySet[string], error) {
	g := grammar{allowAnyOf: true}
	return parse(s, g, identityLeaf)
}

// ParseProperties parses a PROPERTIES-dialect string.
func ParseProperties(s string) (DependencySet[string], error) {
	return parse(s, grammar{}, identityLeaf)
}

// ParseRestrict parses a RESTRICT-dialect string.
func ParseRestrict(s string) (DependencySet[string], error) {
	return parse(s, grammar{}, identityLeaf)
}

// ParseRequiredUse parses a REQUIRED_USE-dialect string into a
// Dependency[string] set of flag names, where Kind distinguishes a
// bare flag (KindEnabled) from a "!flag" negated leaf (KindDisabled).
// "??" (at-most-one-of) additionally requires FeatureRequiredUseOne.
func ParseRequiredUse(s string, e *eapi.Eapi) (DependencySet[string], error) {
	g := grammar{
		allowAnyOf:        true,
		allowExactlyOneOf: true,
		allowAtMostOneOf:  e != nil && e.Has(eapi.FeatureRequiredUseOne),
		allowNegatedLeaf:  true,
	}
	return parse(s, g, identityLeaf)
}

func identityLeaf(tok string) (string, error) { return tok, nil }
