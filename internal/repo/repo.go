// Package repo implements the repository abstraction (spec §4.I): an
// on-disk ebuild tree, enumerable by category/package/version with
// restriction-pushdown iteration, plus in-memory and configured
// variants (SUPPLEMENTED FEATURES #4).
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/cache"
	"github.com/pkgcraft/go-pkgcraft/internal/diag"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/metadata"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
	"github.com/pkgcraft/go-pkgcraft/internal/shell"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// ignoredTopDirs are top-level directory names that look like valid
// category names syntactically but are reserved repository structure,
// not package categories.
var ignoredTopDirs = map[string]bool{
	"metadata": true, "profiles": true, "eclass": true,
	"licenses": true, ".git": true,
}

// InvalidRepoError reports a repository that fails structural
// validation (spec §7 InvalidRepo(id, reason)).
type InvalidRepoError struct {
	Path   string
	Reason string
}

func (e *InvalidRepoError) Error() string {
	return fmt.Sprintf("invalid repo at %q: %s", e.Path, e.Reason)
}

// EbuildRepo is an on-disk Gentoo-layout repository (spec §6
// "Repository layout on disk").
type EbuildRepo struct {
	id       string
	priority int
	path     string
	layout   LayoutConf
	eclasses EclassTable
	eapi     *eapi.Eapi
	diag     diag.Sink
}

// Open constructs an EbuildRepo rooted at path. masterPaths are the
// already-resolved filesystem paths of any repositories this one
// declares as masters in layout.conf, oldest (most distant ancestor)
// first; the caller (internal/config, which holds the repo catalog) is
// responsible for resolving master ids to paths and for failing with
// MissingMaster before calling Open (spec §4.I "resolve masters by id
// against a provided catalog; fail with MissingMaster otherwise").
func Open(path string, priority int, masterPaths []string, sink diag.Sink) (*EbuildRepo, error) {
	profilesDir := filepath.Join(path, "profiles")
	if _, err := os.Stat(profilesDir); os.IsNotExist(err) {
		return nil, &InvalidRepoError{Path: path, Reason: "missing profiles dir"}
	}

	idBytes, err := os.ReadFile(filepath.Join(profilesDir, "repo_name"))
	if err != nil {
		return nil, &InvalidRepoError{Path: path, Reason: "missing profiles/repo_name"}
	}
	id := strings.TrimSpace(string(idBytes))

	layout, err := loadLayoutConf(filepath.Join(path, "metadata", "layout.conf"))
	if err != nil {
		return nil, &InvalidRepoError{Path: path, Reason: err.Error()}
	}

	eclasses, err := buildEclassTable(append(append([]string{}, masterPaths...), path))
	if err != nil {
		return nil, &InvalidRepoError{Path: path, Reason: err.Error()}
	}

	defaultEapi := eapi.Latest
	if eapiBytes, err := os.ReadFile(filepath.Join(profilesDir, "eapi")); err == nil {
		if e, err := eapi.ParseString(strings.TrimSpace(string(eapiBytes))); err == nil {
			defaultEapi = e
		}
	}

	if sink == nil {
		sink = diag.Discard
	}

	return &EbuildRepo{
		id: id, priority: priority, path: path,
		layout: layout, eclasses: eclasses, eapi: defaultEapi, diag: sink,
	}, nil
}

func (r *EbuildRepo) ID() string         { return r.id }
func (r *EbuildRepo) Priority() int      { return r.priority }
func (r *EbuildRepo) Format() string     { return "ebuild" }
func (r *EbuildRepo) Path() string       { return r.path }
func (r *EbuildRepo) Layout() LayoutConf { return r.layout }
func (r *EbuildRepo) EclassTable() EclassTable { return r.eclasses }

// Categories lists top-level package categories (spec §4.I
// "Enumeration"): profiles/categories if present, else top-level
// directories matching the category grammar.
func (r *EbuildRepo) Categories() ([]string, error) {
	if content, err := os.ReadFile(filepath.Join(r.path, "profiles", "categories")); err == nil {
		var cats []string
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				cats = append(cats, line)
			}
		}
		sort.Strings(cats)
		return cats, nil
	}

	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, err
	}
	var cats []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || ignoredTopDirs[name] || !atom.IsValidCategory(name) {
			continue
		}
		cats = append(cats, name)
	}
	sort.Strings(cats)
	return cats, nil
}

// Packages lists package directories within cat (spec §4.I).
func (r *EbuildRepo) Packages(cat string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.path, cat))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pkgs []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !atom.IsValidPackageName(name) {
			continue
		}
		pkgs = append(pkgs, name)
	}
	sort.Strings(pkgs)
	return pkgs, nil
}

// Versions lists the parsed versions of cat/pkg's ebuilds (spec §4.I):
// invalid filenames are skipped and reported to the diagnostic sink
// rather than failing enumeration.
func (r *EbuildRepo) Versions(cat, pkg string) ([]version.Version, error) {
	entries, err := os.ReadDir(filepath.Join(r.path, cat, pkg))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	prefix := pkg + "-"
	var versions []version.Version
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".ebuild") || !strings.HasPrefix(name, prefix) {
			continue
		}
		verStr := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".ebuild")
		v, err := version.Parse(verStr)
		if err != nil {
			r.diag.Record(diag.Diagnostic{
				Severity: diag.SeverityWarning, Repo: r.id, Pkg: cat + "/" + name,
				Message: "skipping invalid ebuild filename", Err: err,
			})
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return version.Compare(versions[i], versions[j]) < 0 })
	return versions, nil
}

// EbuildPath returns the absolute ebuild file path for cpv, satisfying
// internal/shell's Locator interface.
func (r *EbuildRepo) EbuildPath(cpv atom.Cpv) (string, error) {
	name := cpv.Package + "-" + cpv.Version.String() + ".ebuild"
	return filepath.Join(r.path, cpv.Category, cpv.Package, name), nil
}

// EbuildChecksum hashes the ebuild file content for cpv.
func (r *EbuildRepo) EbuildChecksum(cpv atom.Cpv) (string, error) {
	path, err := r.EbuildPath(cpv)
	if err != nil {
		return "", err
	}
	return checksumFile(path)
}

// Eapi resolves the active EAPI for cpv; repositories in this
// implementation use one repository-wide default, read from
// profiles/eapi (spec §6), since per-directory profile EAPI overrides
// are outside scope.
func (r *EbuildRepo) Eapi(cpv atom.Cpv) (*eapi.Eapi, error) {
	return r.eapi, nil
}

// Eclasses returns the inherit list a fresh sourcing run should use
// for cpv. Without an actual shell evaluator inspecting the ebuild's
// `inherit` calls, the full known eclass table is offered; a real
// Sourcer only pulls in what the ebuild actually inherits.
func (r *EbuildRepo) Eclasses(cpv atom.Cpv) ([]shell.EclassRef, error) {
	names := r.eclasses.Names()
	refs := make([]shell.EclassRef, len(names))
	for i, n := range names {
		refs[i] = shell.EclassRef{Name: n, Checksum: r.eclasses.Checksum(n)}
	}
	return refs, nil
}

// CachePath returns the md5-cache file path for cpv.
func (r *EbuildRepo) CachePath(cpv atom.Cpv) string {
	return cache.Path(r.path, cpv)
}

// IterCpn returns every Cpn in the repository, in (category, package)
// order, optionally pushed down through restrict (spec §4.I).
func (r *EbuildRepo) IterCpn(restriction restrict.Restrict) ([]atom.Cpn, error) {
	pushdown := cpnOnly(restriction)
	cats, err := r.Categories()
	if err != nil {
		return nil, err
	}
	var out []atom.Cpn
	for _, cat := range cats {
		pkgs, err := r.Packages(cat)
		if err != nil {
			return nil, err
		}
		for _, pkg := range pkgs {
			cpn := atom.Cpn{Category: cat, Package: pkg}
			if pushdown && !matchesCpn(restriction, cpn) {
				continue
			}
			out = append(out, cpn)
		}
	}
	return out, nil
}

// IterCpv returns every Cpv in the repository, ordered by (category,
// package, version) per §4.A's version order, pushed down through
// restrict at the Cpn and Cpv level where possible.
func (r *EbuildRepo) IterCpv(restriction restrict.Restrict) ([]atom.Cpv, error) {
	cpnPushdown := cpnOnly(restriction)
	cpvPushdown := cpvDecidable(restriction)

	cats, err := r.Categories()
	if err != nil {
		return nil, err
	}
	var out []atom.Cpv
	for _, cat := range cats {
		pkgs, err := r.Packages(cat)
		if err != nil {
			return nil, err
		}
		for _, pkg := range pkgs {
			cpn := atom.Cpn{Category: cat, Package: pkg}
			if cpnPushdown && !matchesCpn(restriction, cpn) {
				continue
			}
			versions, err := r.Versions(cat, pkg)
			if err != nil {
				return nil, err
			}
			for _, v := range versions {
				cpv := atom.Cpv{Cpn: cpn, Version: v}
				if cpvPushdown && !matchesCpv(restriction, cpv) {
					continue
				}
				out = append(out, cpv)
			}
		}
	}
	return out, nil
}

// Iter materializes package metadata for every Cpv matching
// restriction, obtaining each package's metadata from loader and
// logging per-package failures to the diagnostic sink rather than
// aborting iteration (spec §7 Propagation).
func (r *EbuildRepo) Iter(restriction restrict.Restrict, loader func(atom.Cpv) (*metadata.PackageMetadata, error)) ([]*metadata.PackageMetadata, error) {
	cpvs, err := r.IterCpv(restriction)
	if err != nil {
		return nil, err
	}
	var out []*metadata.PackageMetadata
	for _, cpv := range cpvs {
		m, err := loader(cpv)
		if err != nil {
			r.diag.Record(diag.Diagnostic{
				Severity: diag.SeverityError, Repo: r.id, Pkg: cpv.String(),
				Message: "failed loading package metadata", Err: err,
			})
			continue
		}
		if !restriction.Matches(m) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Contains reports whether v (an atom.Cpn, atom.Cpv, or atom.Dep) could
// plausibly be found in this repository (spec §4.I "contains").
func (r *EbuildRepo) Contains(v interface{}) (bool, error) {
	switch x := v.(type) {
	case atom.Cpn:
		pkgs, err := r.Packages(x.Category)
		if err != nil {
			return false, err
		}
		for _, p := range pkgs {
			if p == x.Package {
				return true, nil
			}
		}
		return false, nil
	case atom.Cpv:
		versions, err := r.Versions(x.Category, x.Package)
		if err != nil {
			return false, err
		}
		for _, ver := range versions {
			if version.Compare(ver, x.Version) == 0 {
				return true, nil
			}
		}
		return false, nil
	case atom.Dep:
		cpvs, err := r.IterCpv(restrict.FromAtom(x))
		if err != nil {
			return false, err
		}
		return len(cpvs) > 0, nil
	default:
		return false, fmt.Errorf("repo: Contains: unsupported type %T", v)
	}
}
