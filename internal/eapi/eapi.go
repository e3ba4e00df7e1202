// Package eapi implements the EAPI feature registry (spec §4.C): a
// versioned capability matrix selecting which grammar rules, metadata
// keys, shell commands, and environment variables are legal for a
// given ebuild.
package eapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// Feature is a single grammar/behavior capability bit.
type Feature string

const (
	FeatureIuseDefaults    Feature = "iuse_defaults"
	FeatureSlotDeps        Feature = "slot_deps"
	FeatureBlockers        Feature = "blockers"
	FeatureUseDeps         Feature = "use_deps"
	FeatureSrcURIRenames   Feature = "src_uri_renames"
	FeatureUseDepDefaults  Feature = "use_dep_defaults"
	FeatureRequiredUse     Feature = "required_use"
	FeatureSubslots        Feature = "subslots"
	FeatureSlotOps         Feature = "slot_ops"
	FeatureRequiredUseOne  Feature = "required_use_one_of"
	FeatureSrcURIUnrestrict Feature = "src_uri_unrestrict"
	FeatureRepoIDs         Feature = "repo_ids"
)

// allFeatures lists every known feature, defaulted to false for EAPI0.
var allFeatures = []Feature{
	FeatureIuseDefaults, FeatureSlotDeps, FeatureBlockers, FeatureUseDeps,
	FeatureSrcURIRenames, FeatureUseDepDefaults, FeatureRequiredUse,
	FeatureSubslots, FeatureSlotOps, FeatureRequiredUseOne,
	FeatureSrcURIUnrestrict, FeatureRepoIDs,
}

// Scope controls where an environment variable is visible/exported.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeGlobal
	ScopeMetadata
	ScopeBuildOnly
)

// DepKey names a dependency-bearing metadata key.
type DepKey string

const (
	KeyDEPEND  DepKey = "DEPEND"
	KeyBDEPEND DepKey = "BDEPEND"
	KeyIDEPEND DepKey = "IDEPEND"
	KeyRDEPEND DepKey = "RDEPEND"
	KeyPDEPEND DepKey = "PDEPEND"
)

// Eapi is an immutable capability record. Inheritance is copy-and-
// override at construction time (spec §9 "Design Notes"): each new
// EAPI clones its parent's tables and merges overrides, so runtime
// lookups are O(1) map reads with no inheritance-chain walk.
type Eapi struct {
	id       string
	index    int // position in the known-EAPI catalog, 0 = oldest
	features map[Feature]bool
	metaKeys map[string]bool // mandatory+optional metadata keys
	incKeys  map[string]bool // incremental (accumulate across inherits)
	commands map[string]bool
	env      map[string]Scope
	depKeys  []DepKey
}

func (e *Eapi) String() string { return e.id }

// ID returns the bare EAPI identifier string, e.g. "7" or "extended".
func (e *Eapi) ID() string { return e.id }

// Has reports whether the named feature is enabled for this EAPI.
func (e *Eapi) Has(f Feature) bool { return e.features[f] }

// HasKey reports whether key is a recognized metadata key for this EAPI.
func (e *Eapi) HasKey(key string) bool { return e.metaKeys[key] }

// IsIncremental reports whether key accumulates across eclass inherits.
func (e *Eapi) IsIncremental(key string) bool { return e.incKeys[key] }

// HasCommand reports whether the named shell command/builtin is enabled.
func (e *Eapi) HasCommand(cmd string) bool { return e.commands[cmd] }

// EnvScope returns the visibility/export scope of an environment
// variable, ScopeNone if the variable is not recognized at all.
func (e *Eapi) EnvScope(name string) Scope { return e.env[name] }

// DepKeys returns the default dependency-metadata keys queried when a
// caller doesn't specify an explicit key set (spec §4.F Dependencies).
func (e *Eapi) DepKeys() []DepKey {
	out := make([]DepKey, len(e.depKeys))
	copy(out, e.depKeys)
	return out
}

// Compare orders EAPIs oldest-to-newest by catalog position
// (SUPPLEMENTED FEATURES #1): EAPI0 < EAPI1 < ... < EAPI8 < Extended.
func Compare(a, b *Eapi) int {
	switch {
	case a.index < b.index:
		return -1
	case a.index > b.index:
		return 1
	default:
		return 0
	}
}

type builder struct {
	id       string
	parent   *Eapi
	features map[Feature]bool
	metaKeys map[string]bool
	incKeys  map[string]bool
	commands map[string]bool
	env      map[string]Scope
	depKeys  []DepKey
}

func newEapi(id string, parent *Eapi, overrides map[Feature]bool, metaAdd, incAdd, cmdAdd []string, envAdd map[string]Scope, depKeys []DepKey) *Eapi {
	e := &Eapi{id: id, features: map[Feature]bool{}, metaKeys: map[string]bool{},
		incKeys: map[string]bool{}, commands: map[string]bool{}, env: map[string]Scope{}}

	if parent == nil {
		for _, f := range allFeatures {
			e.features[f] = false
		}
		e.index = 0
	} else {
		for f, v := range parent.features {
			e.features[f] = v
		}
		for k, v := range parent.metaKeys {
			e.metaKeys[k] = v
		}
		for k, v := range parent.incKeys {
			e.incKeys[k] = v
		}
		for k, v := range parent.commands {
			e.commands[k] = v
		}
		for k, v := range parent.env {
			e.env[k] = v
		}
		e.depKeys = append([]DepKey{}, parent.depKeys...)
		e.index = parent.index + 1
	}

	for f, v := range overrides {
		e.features[f] = v
	}
	for _, k := range metaAdd {
		e.metaKeys[k] = true
	}
	for _, k := range incAdd {
		e.incKeys[k] = true
	}
	for _, c := range cmdAdd {
		e.commands[c] = true
	}
	for k, v := range envAdd {
		e.env[k] = v
	}
	if depKeys != nil {
		e.depKeys = depKeys
	}

	return e
}

// baseMetaKeys are recognized from EAPI0 onward.
var baseMetaKeys = []string{
	"DESCRIPTION", "HOMEPAGE", "SRC_URI", "LICENSE", "SLOT", "KEYWORDS",
	"IUSE", "DEPEND", "RDEPEND", "PDEPEND", "PROPERTIES", "RESTRICT",
	"DEFINED_PHASES", "EAPI",
}

var baseIncKeys = []string{"IUSE", "DEPEND", "RDEPEND", "PDEPEND", "LICENSE", "KEYWORDS"}

var baseCommands = []string{
	"die", "has", "hasq", "use", "useq", "usex", "unpack", "econf",
	"emake", "einstall", "dosym", "doins", "dodoc", "dobin", "newbin",
	"elog", "einfo", "ewarn", "eerror", "debug-print", "inherit",
	"ver_cut", "ver_rs", "ver_test",
}

var baseEnv = map[string]Scope{
	"P": ScopeGlobal, "PN": ScopeGlobal, "PV": ScopeGlobal, "PR": ScopeGlobal,
	"PVR": ScopeGlobal, "PF": ScopeGlobal, "CATEGORY": ScopeGlobal,
	"A": ScopeBuildOnly, "FILESDIR": ScopeBuildOnly, "WORKDIR": ScopeBuildOnly,
	"T": ScopeBuildOnly, "D": ScopeBuildOnly, "ED": ScopeBuildOnly,
	"DISTDIR": ScopeBuildOnly, "S": ScopeBuildOnly,
	"EAPI": ScopeMetadata, "SLOT": ScopeMetadata,
}

// EAPI0 through EAPI8 plus the Extended variant, matching
// original_source/pkgcraft/src/eapi.rs's inheritance chain.
var (
	EAPI0 = newEapi("0", nil, nil, baseMetaKeys, baseIncKeys, baseCommands, baseEnv,
		[]DepKey{KeyDEPEND, KeyRDEPEND})
	EAPI1 = newEapi("1", EAPI0, map[Feature]bool{FeatureSlotDeps: true}, nil, nil, nil, nil, nil)
	EAPI2 = newEapi("2", EAPI1, map[Feature]bool{
		FeatureBlockers: true, FeatureUseDeps: true, FeatureSrcURIRenames: true,
	}, nil, nil, nil, nil, nil)
	EAPI3 = newEapi("3", EAPI2, nil, nil, nil, nil, nil, nil)
	EAPI4 = newEapi("4", EAPI3, map[Feature]bool{
		FeatureUseDepDefaults: true, FeatureRequiredUse: true, FeatureIuseDefaults: true,
	}, []string{"REQUIRED_USE"}, []string{"REQUIRED_USE"}, []string{"usex"}, nil, nil)
	EAPI5 = newEapi("5", EAPI4, map[Feature]bool{
		FeatureSubslots: true, FeatureSlotOps: true, FeatureRequiredUseOne: true,
	}, nil, nil, nil, nil, nil)
	EAPI6 = newEapi("6", EAPI5, nil, nil, nil, nil, nil, nil)
	EAPI7 = newEapi("7", EAPI6, nil,
		[]string{"BDEPEND"}, []string{"BDEPEND"}, nil, nil,
		[]DepKey{KeyBDEPEND, KeyDEPEND, KeyRDEPEND})
	EAPI8 = newEapi("8", EAPI7, map[Feature]bool{FeatureSrcURIUnrestrict: true},
		[]string{"IDEPEND"}, []string{"IDEPEND"}, nil, nil,
		[]DepKey{KeyBDEPEND, KeyDEPEND, KeyIDEPEND, KeyRDEPEND})

	// Latest is the newest standard EAPI this registry knows about.
	Latest = EAPI8

	// Extended is a pkgcraft-specific superset layered on top of
	// Latest, enabling repo-ids (spec §4.B) which no standard EAPI
	// defines (SUPPLEMENTED FEATURES #1).
	Extended = newEapi("extended", Latest, map[Feature]bool{FeatureRepoIDs: true}, nil, nil, nil, nil, nil)
)

// KnownEAPIs is the oldest-to-newest ordered catalog (spec §4.C).
var KnownEAPIs = []*Eapi{EAPI0, EAPI1, EAPI2, EAPI3, EAPI4, EAPI5, EAPI6, EAPI7, EAPI8, Extended}

var validIDRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_.-]*$`)

// UnsupportedError reports an EAPI identifier not present in the known
// catalog (spec §7 EapiUnsupported).
type UnsupportedError struct{ ID string }

func (e *UnsupportedError) Error() string { return fmt.Sprintf("unsupported EAPI: %q", e.ID) }

// FeatureDisabledError reports a parse attempting a feature the active
// EAPI does not grant (spec §7 EapiFeatureDisabled).
type FeatureDisabledError struct {
	Feature Feature
	Eapi    string
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("feature %q disabled under EAPI %q", e.Feature, e.Eapi)
}

// Get resolves a bare EAPI identifier to its registry entry.
func Get(id string) (*Eapi, error) {
	for _, e := range KnownEAPIs {
		if e.id == id {
			return e, nil
		}
	}
	return nil, &UnsupportedError{ID: id}
}

// ParseString parses an "EAPI=..." value, accepting the bare name and
// optionally single- or double-quoted variants (spec §4.C), e.g. the
// literal text that appears on an ebuild's `EAPI="8"` line.
func ParseString(s string) (*Eapi, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	if !validIDRe.MatchString(s) {
		return nil, perr.New(perr.KindEapiString, s, 0, "invalid EAPI identifier syntax")
	}
	return Get(s)
}

// RequireFeature returns a FeatureDisabledError if e doesn't grant f.
func RequireFeature(e *Eapi, f Feature) error {
	if e == nil || !e.Has(f) {
		id := "<nil>"
		if e != nil {
			id = e.id
		}
		return &FeatureDisabledError{Feature: f, Eapi: id}
	}
	return nil
}
