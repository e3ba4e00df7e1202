package metadata

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/depspec"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// PackageMetadata is the canonical record produced per ebuild (spec
// §3, §4.F). Cpv and RepoID identify which package the record belongs
// to; the rest are the fields sourced from the ebuild itself.
type PackageMetadata struct {
	Cpv    atom.Cpv
	RepoID string

	EapiID string

	Description string

	SlotName    string
	SubslotName string
	HasSubslot  bool

	Depend  depspec.DependencySet[atom.Dep]
	Bdepend depspec.DependencySet[atom.Dep]
	Idepend depspec.DependencySet[atom.Dep]
	Rdepend depspec.DependencySet[atom.Dep]
	Pdepend depspec.DependencySet[atom.Dep]

	License     depspec.DependencySet[string]
	SrcURI      depspec.DependencySet[depspec.Uri]
	Properties  depspec.DependencySet[string]
	RestrictSet depspec.DependencySet[string]
	RequiredUse depspec.DependencySet[string]

	HomepageURIs  []string
	DefinedPhases []string
	KeywordsList  []Keyword
	IuseList      []Iuse

	InheritDirect []string // eclasses the ebuild directly inherits
	InheritAll    []string // transitive closure, parent-first

	Checksum        string            // ebuild content checksum
	EclassChecksums map[string]string // per-eclass checksum as seen at cache time
}

// The following methods implement internal/restrict's Pkg interface,
// letting a PackageMetadata be matched directly by a restriction tree.

func (m *PackageMetadata) Category() string         { return m.Cpv.Category }
func (m *PackageMetadata) Package() string          { return m.Cpv.Package }
func (m *PackageMetadata) HasVersion() bool         { return true }
func (m *PackageMetadata) Version() version.Version { return m.Cpv.Version }
func (m *PackageMetadata) Slot() string             { return m.SlotName }
func (m *PackageMetadata) Subslot() string          { return m.SubslotName }
func (m *PackageMetadata) Repo() string             { return m.RepoID }

func (m *PackageMetadata) IUSE() []string {
	return m.IuseEffective()
}

func (m *PackageMetadata) Keywords() []string {
	out := make([]string, len(m.KeywordsList))
	for i, k := range m.KeywordsList {
		out[i] = k.String()
	}
	return out
}

func (m *PackageMetadata) Homepage() []string { return m.HomepageURIs }
func (m *PackageMetadata) Inherit() []string  { return m.InheritAll }

// Dependencies returns a flattened union of the dep-sets indicated by
// keys, or the EAPI-default dep-keys when keys is empty (spec §4.F).
func (m *PackageMetadata) Dependencies(keys []eapi.DepKey) []atom.Dep {
	if len(keys) == 0 {
		if e, err := eapi.Get(m.EapiID); err == nil {
			keys = e.DepKeys()
		}
	}
	var out []atom.Dep
	for _, k := range keys {
		switch k {
		case eapi.KeyDEPEND:
			out = append(out, depspec.Flatten(m.Depend)...)
		case eapi.KeyBDEPEND:
			out = append(out, depspec.Flatten(m.Bdepend)...)
		case eapi.KeyIDEPEND:
			out = append(out, depspec.Flatten(m.Idepend)...)
		case eapi.KeyRDEPEND:
			out = append(out, depspec.Flatten(m.Rdepend)...)
		case eapi.KeyPDEPEND:
			out = append(out, depspec.Flatten(m.Pdepend)...)
		}
	}
	return out
}

// Distfiles returns the filename projection of SrcURI's flattened
// leaves, skipping the empty-filename case: a bare URL whose filename
// must be derived externally (spec §4.F).
func (m *PackageMetadata) Distfiles() []string {
	var out []string
	for _, u := range depspec.Flatten(m.SrcURI) {
		if f := distfileName(u); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func distfileName(u depspec.Uri) string {
	if u.HasRename {
		return u.Rename
	}
	idx := strings.LastIndexByte(u.URI, '/')
	return u.URI[idx+1:]
}

// IuseEffective returns the flag-name projection of IUSE entries.
func (m *PackageMetadata) IuseEffective() []string {
	out := make([]string, len(m.IuseList))
	for i, iu := range m.IuseList {
		out[i] = iu.Flag
	}
	return out
}

// Intersects reports whether d could plausibly refer to m: Cpn equal,
// slot/subslot equal when d constrains them, repo equal when d
// constrains it, and version intersects when d carries one (spec
// §4.F).
func (m *PackageMetadata) Intersects(d atom.Dep) bool {
	if d.Category != m.Cpv.Category || d.Package != m.Cpv.Package {
		return false
	}
	if d.HasSlot && d.Slot != m.SlotName {
		return false
	}
	if d.HasSubslot && d.Subslot != m.SubslotName {
		return false
	}
	if d.HasRepo && d.Repo != m.RepoID {
		return false
	}
	if d.HasVersion && !version.Intersects(d.Version, m.Cpv.Version) {
		return false
	}
	return true
}
