// Package cache implements the on-disk md5-cache format (spec §4.G):
// one text file per package under <repo>/metadata/md5-cache/, a
// sequence of "KEY=VALUE" records plus the reserved "_md5_" and
// "_eclasses_" keys, written atomically via temp-file-then-rename.
package cache

import (
	"sort"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/depspec"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/metadata"
	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// Entry is a decoded md5-cache record: the PackageMetadata plus the
// two reserved validation fields.
type Entry struct {
	Meta     *metadata.PackageMetadata
	MD5      string
	Eclasses map[string]string // eclass name -> content checksum
}

// orderedKeys lists every regular (non-reserved) cache key in the
// fixed order the writer emits them, mirroring the dep-key ordering
// each EAPI publishes via DepKeys plus the constant fields every EAPI
// carries since EAPI0.
func orderedKeys(e *eapi.Eapi) []string {
	keys := make([]string, 0, 16)
	for _, dk := range e.DepKeys() {
		keys = append(keys, string(dk))
	}
	if !contains(keys, "PDEPEND") {
		keys = append(keys, "PDEPEND")
	}
	keys = append(keys,
		"LICENSE", "DESCRIPTION", "HOMEPAGE", "INHERITED", "IUSE",
		"KEYWORDS", "PROPERTIES", "DEFINED_PHASES", "RESTRICT",
	)
	if e.Has(eapi.FeatureRequiredUse) {
		keys = append(keys, "REQUIRED_USE")
	}
	keys = append(keys, "SLOT", "SRC_URI", "EAPI")
	return keys
}

func contains(keys []string, k string) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

func depString(d atom.Dep) string { return d.String() }
func identity(s string) string    { return s }
func uriString(u depspec.Uri) string { return u.String() }

// fieldValue renders the raw text for one regular key, or "" if the
// key carries no value for m (omitted per spec's "empty values for
// optional fields are omitted" rule).
func fieldValue(key string, m *metadata.PackageMetadata) string {
	switch key {
	case "DEPEND":
		return depspec.Render(m.Depend, depString)
	case "BDEPEND":
		return depspec.Render(m.Bdepend, depString)
	case "IDEPEND":
		return depspec.Render(m.Idepend, depString)
	case "RDEPEND":
		return depspec.Render(m.Rdepend, depString)
	case "PDEPEND":
		return depspec.Render(m.Pdepend, depString)
	case "LICENSE":
		return depspec.Render(m.License, identity)
	case "DESCRIPTION":
		return m.Description
	case "HOMEPAGE":
		return strings.Join(m.HomepageURIs, " ")
	case "INHERITED":
		return strings.Join(m.InheritDirect, " ")
	case "IUSE":
		parts := make([]string, len(m.IuseList))
		for i, iu := range m.IuseList {
			parts[i] = iu.String()
		}
		return strings.Join(parts, " ")
	case "KEYWORDS":
		parts := make([]string, len(m.KeywordsList))
		for i, k := range m.KeywordsList {
			parts[i] = k.String()
		}
		return strings.Join(parts, " ")
	case "PROPERTIES":
		return depspec.Render(m.Properties, identity)
	case "RESTRICT":
		return depspec.Render(m.RestrictSet, identity)
	case "REQUIRED_USE":
		return depspec.Render(m.RequiredUse, identity)
	case "SLOT":
		if m.HasSubslot {
			return m.SlotName + "/" + m.SubslotName
		}
		return m.SlotName
	case "SRC_URI":
		return depspec.Render(m.SrcURI, uriString)
	case "EAPI":
		return m.EapiID
	case "DEFINED_PHASES":
		if len(m.DefinedPhases) == 0 {
			return "-"
		}
		return strings.Join(m.DefinedPhases, " ")
	default:
		return ""
	}
}

// Encode renders m as a complete md5-cache file body.
func Encode(m *metadata.PackageMetadata, e *eapi.Eapi, md5 string) string {
	var b strings.Builder
	for _, key := range orderedKeys(e) {
		v := fieldValue(key, m)
		if v == "" && key != "DEFINED_PHASES" {
			continue
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	b.WriteString("_md5_=")
	b.WriteString(md5)
	b.WriteByte('\n')

	if len(m.EclassChecksums) > 0 {
		names := make([]string, 0, len(m.EclassChecksums))
		for n := range m.EclassChecksums {
			names = append(names, n)
		}
		sort.Strings(names)
		pairs := make([]string, 0, len(names)*2)
		for _, n := range names {
			pairs = append(pairs, n, m.EclassChecksums[n])
		}
		b.WriteString("_eclasses_=")
		b.WriteString(strings.Join(pairs, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Decode parses a complete md5-cache file body into an Entry. The
// EAPI key must be present to interpret the remaining dep-spec and
// dependency-bearing fields.
func Decode(content string, cpv atom.Cpv, repoID string) (*Entry, error) {
	raw := map[string]string{}
	for lineNo, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			return nil, perr.New(perr.KindCacheEntry, content, lineOffset(content, lineNo), "malformed line: missing '='")
		}
		raw[line[:idx]] = line[idx+1:]
	}

	eapiID, ok := raw["EAPI"]
	if !ok {
		return nil, perr.New(perr.KindCacheEntry, content, 0, "missing EAPI key")
	}
	e, err := eapi.Get(eapiID)
	if err != nil {
		return nil, err
	}

	m := &metadata.PackageMetadata{
		Cpv:         cpv,
		RepoID:      repoID,
		EapiID:      eapiID,
		Description: raw["DESCRIPTION"],
	}

	if v, ok := raw["DEPEND"]; ok {
		if m.Depend, err = depspec.ParsePackageDeps(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["BDEPEND"]; ok {
		if m.Bdepend, err = depspec.ParsePackageDeps(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["IDEPEND"]; ok {
		if m.Idepend, err = depspec.ParsePackageDeps(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["RDEPEND"]; ok {
		if m.Rdepend, err = depspec.ParsePackageDeps(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["PDEPEND"]; ok {
		if m.Pdepend, err = depspec.ParsePackageDeps(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["LICENSE"]; ok {
		if m.License, err = depspec.ParseLicense(v); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["PROPERTIES"]; ok {
		if m.Properties, err = depspec.ParseProperties(v); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["RESTRICT"]; ok {
		if m.RestrictSet, err = depspec.ParseRestrict(v); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["REQUIRED_USE"]; ok {
		if m.RequiredUse, err = depspec.ParseRequiredUse(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["SRC_URI"]; ok {
		if m.SrcURI, err = depspec.ParseSrcURI(v, e); err != nil {
			return nil, err
		}
	}
	if v, ok := raw["HOMEPAGE"]; ok && v != "" {
		m.HomepageURIs = strings.Fields(v)
	}
	if v, ok := raw["INHERITED"]; ok && v != "" {
		m.InheritDirect = strings.Fields(v)
	}
	if v, ok := raw["IUSE"]; ok && v != "" {
		for _, tok := range strings.Fields(v) {
			iu, err := metadata.ParseIuse(tok)
			if err != nil {
				return nil, err
			}
			m.IuseList = append(m.IuseList, iu)
		}
	}
	if v, ok := raw["KEYWORDS"]; ok && v != "" {
		for _, tok := range strings.Fields(v) {
			kw, err := metadata.ParseKeyword(tok)
			if err != nil {
				return nil, err
			}
			m.KeywordsList = append(m.KeywordsList, kw)
		}
	}
	if v, ok := raw["SLOT"]; ok {
		if slot, subslot, hasSub := strings.Cut(v, "/"); hasSub {
			m.SlotName, m.SubslotName, m.HasSubslot = slot, subslot, true
		} else {
			m.SlotName = v
		}
	}
	if v, ok := raw["DEFINED_PHASES"]; ok && v != "-" && v != "" {
		m.DefinedPhases = strings.Fields(v)
	}

	entry := &Entry{Meta: m, MD5: raw["_md5_"]}
	if ec, ok := raw["_eclasses_"]; ok && ec != "" {
		fields := strings.Split(ec, "\t")
		if len(fields)%2 != 0 {
			return nil, perr.New(perr.KindCacheEntry, content, 0, "malformed _eclasses_: odd field count")
		}
		entry.Eclasses = make(map[string]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			entry.Eclasses[fields[i]] = fields[i+1]
		}
		m.EclassChecksums = entry.Eclasses
	}

	return entry, nil
}

func lineOffset(content string, lineNo int) int {
	lines := strings.SplitAfter(content, "\n")
	off := 0
	for i := 0; i < lineNo && i < len(lines); i++ {
		off += len(lines[i])
	}
	return off
}
