package repo

import (
	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/depspec"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/metadata"
)

// ConfiguredRepo decorates an EbuildRepo with a fixed profile USE-flag
// set (SUPPLEMENTED FEATURES #4, grounded on
// original_source/crates/pkgcraft/src/repo/ebuild/configured.rs):
// every dependency-bearing field it reads through has its Conditional
// nodes resolved against that fixed set before flattening, the way a
// real build would see a package's dependencies once profile and
// package.use settings are applied.
type ConfiguredRepo struct {
	*EbuildRepo
	useFlags map[string]bool
}

// NewConfiguredRepo wraps raw with a fixed USE-flag configuration.
func NewConfiguredRepo(raw *EbuildRepo, useFlags map[string]bool) *ConfiguredRepo {
	return &ConfiguredRepo{EbuildRepo: raw, useFlags: useFlags}
}

func (c *ConfiguredRepo) Format() string { return "configured" }

// UseFlags returns the fixed profile USE-flag configuration.
func (c *ConfiguredRepo) UseFlags() map[string]bool { return c.useFlags }

// ConfiguredDependencies returns m's dependencies for keys (or the
// EAPI-default keys when empty) with every conditional already
// resolved against this repo's fixed USE-flag set, rather than the
// unevaluated tree m.Dependencies flattens blindly.
func (c *ConfiguredRepo) ConfiguredDependencies(m *metadata.PackageMetadata, keys []eapi.DepKey) []atom.Dep {
	if len(keys) == 0 {
		if e, err := eapi.Get(m.EapiID); err == nil {
			keys = e.DepKeys()
		}
	}
	var out []atom.Dep
	for _, k := range keys {
		var set depspec.DependencySet[atom.Dep]
		switch k {
		case eapi.KeyDEPEND:
			set = m.Depend
		case eapi.KeyBDEPEND:
			set = m.Bdepend
		case eapi.KeyIDEPEND:
			set = m.Idepend
		case eapi.KeyRDEPEND:
			set = m.Rdepend
		case eapi.KeyPDEPEND:
			set = m.Pdepend
		default:
			continue
		}
		out = append(out, depspec.Flatten(depspec.Evaluate(set, c.useFlags))...)
	}
	return out
}

// ConfiguredIuse returns the subset of m's IUSE flags enabled under
// this repo's fixed configuration, falling back to each flag's default
// when the profile doesn't mention it.
func (c *ConfiguredRepo) ConfiguredIuse(m *metadata.PackageMetadata) []string {
	var out []string
	for _, iu := range m.IuseList {
		enabled, configured := c.useFlags[iu.Flag]
		if !configured {
			enabled = iu.Default == metadata.IusePlus
		}
		if enabled {
			out = append(out, iu.Flag)
		}
	}
	return out
}
