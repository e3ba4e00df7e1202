package shell

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/depspec"
	"github.com/pkgcraft/go-pkgcraft/internal/metadata"
)

// BuildMetadata transforms a completed sourcing run's raw variables
// into a typed PackageMetadata (spec §4.H "collect the canonical
// metadata variables, transform each into its typed form via the
// corresponding parser, and assemble a PackageMetadata"). Any attribute
// parse failure is reported with the offending variable's name folded
// into a ShellEvalError, since a malformed metadata value sourced from
// an ebuild is itself a sourcing failure, not a standalone parse error
// surfaced to the caller.
func BuildMetadata(job SourceJob, res SourceResult) (*metadata.PackageMetadata, error) {
	pkg := job.Cpv.String()
	v := res.Vars

	m := &metadata.PackageMetadata{
		Cpv:         job.Cpv,
		RepoID:      job.RepoID,
		EapiID:      job.Eapi.ID(),
		Description: v["DESCRIPTION"],
	}

	var err error
	parse := func(attr string, fn func(string) error) {
		if err != nil {
			return
		}
		if raw, ok := v[attr]; ok && raw != "" {
			if perr := fn(raw); perr != nil {
				err = &ShellEvalError{Pkg: pkg, Message: attr + ": " + perr.Error()}
			}
		}
	}

	parse("DEPEND", func(s string) error {
		var e error
		m.Depend, e = depspec.ParsePackageDeps(s, job.Eapi)
		return e
	})
	parse("BDEPEND", func(s string) error {
		var e error
		m.Bdepend, e = depspec.ParsePackageDeps(s, job.Eapi)
		return e
	})
	parse("IDEPEND", func(s string) error {
		var e error
		m.Idepend, e = depspec.ParsePackageDeps(s, job.Eapi)
		return e
	})
	parse("RDEPEND", func(s string) error {
		var e error
		m.Rdepend, e = depspec.ParsePackageDeps(s, job.Eapi)
		return e
	})
	parse("PDEPEND", func(s string) error {
		var e error
		m.Pdepend, e = depspec.ParsePackageDeps(s, job.Eapi)
		return e
	})
	parse("LICENSE", func(s string) error {
		var e error
		m.License, e = depspec.ParseLicense(s)
		return e
	})
	parse("PROPERTIES", func(s string) error {
		var e error
		m.Properties, e = depspec.ParseProperties(s)
		return e
	})
	parse("RESTRICT", func(s string) error {
		var e error
		m.RestrictSet, e = depspec.ParseRestrict(s)
		return e
	})
	parse("REQUIRED_USE", func(s string) error {
		var e error
		m.RequiredUse, e = depspec.ParseRequiredUse(s, job.Eapi)
		return e
	})
	parse("SRC_URI", func(s string) error {
		var e error
		m.SrcURI, e = depspec.ParseSrcURI(s, job.Eapi)
		return e
	})
	parse("IUSE", func(s string) error {
		for _, tok := range strings.Fields(s) {
			iu, e := metadata.ParseIuse(tok)
			if e != nil {
				return e
			}
			m.IuseList = append(m.IuseList, iu)
		}
		return nil
	})
	parse("KEYWORDS", func(s string) error {
		for _, tok := range strings.Fields(s) {
			kw, e := metadata.ParseKeyword(tok)
			if e != nil {
				return e
			}
			m.KeywordsList = append(m.KeywordsList, kw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if v["HOMEPAGE"] != "" {
		m.HomepageURIs = strings.Fields(v["HOMEPAGE"])
	}
	if slot, subslot, hasSub := strings.Cut(v["SLOT"], "/"); hasSub {
		m.SlotName, m.SubslotName, m.HasSubslot = slot, subslot, true
	} else {
		m.SlotName = v["SLOT"]
	}
	m.DefinedPhases = append([]string{}, res.DefinedPhases...)

	for _, ec := range job.Eclasses {
		m.InheritDirect = append(m.InheritDirect, ec.Name)
	}
	m.InheritAll = append([]string{}, m.InheritDirect...)
	if len(job.Eclasses) > 0 {
		m.EclassChecksums = make(map[string]string, len(job.Eclasses))
		for _, ec := range job.Eclasses {
			m.EclassChecksums[ec.Name] = ec.Checksum
		}
	}

	return m, nil
}
