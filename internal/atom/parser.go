package atom

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/perr"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// ParseDep parses a full dependency atom string under the given EAPI,
// per the grammar and feature gating in spec §4.B: optional blocker,
// then either a bare Cpn or an operator+Cpv (optionally globbed), then
// optional slot-dep, use-deps, and repo-id, each EAPI-gated.
func ParseDep(s string, e *eapi.Eapi) (Dep, error) {
	if e == nil {
		e = eapi.Latest
	}
	orig := s
	rest := s
	var d Dep

	// 1. blocker
	switch {
	case strings.HasPrefix(rest, "!!"):
		if err := eapi.RequireFeature(e, eapi.FeatureBlockers); err != nil {
			return Dep{}, wrapFeature(orig, err)
		}
		d.Blocker = BlockerStrong
		rest = rest[2:]
	case strings.HasPrefix(rest, "!"):
		if err := eapi.RequireFeature(e, eapi.FeatureBlockers); err != nil {
			return Dep{}, wrapFeature(orig, err)
		}
		d.Blocker = BlockerWeak
		rest = rest[1:]
	}

	// split off trailing "::repo", "[use,...]", ":slot-dep" before
	// parsing the core package fragment, since those all anchor to the
	// end of the core-package+version text.
	core, repoPart, hasRepo := cutRepo(rest)
	core, usePart, hasUse := cutUseDeps(core)
	core, slotPart, hasSlot := cutSlotDep(core)

	// 2. core: operator+Cpv or bare Cpn
	if op, cpvText, ok := cutOperator(core); ok {
		glob := false
		if op == version.OpEqual && strings.HasSuffix(cpvText, "*") {
			glob = true
			cpvText = cpvText[:len(cpvText)-1]
		}
		cpv, err := ParseCpv(cpvText)
		if err != nil {
			return Dep{}, err
		}
		d.Cpn = cpv.Cpn
		d.HasVersion = true
		vop := op
		if glob {
			vop = version.OpEqualGlob
		}
		verText := vop.String() + cpv.Version.String()
		if glob {
			verText += "*"
		}
		v, err := version.ParseWithOp(verText)
		if err != nil {
			return Dep{}, err
		}
		d.Version = v
	} else {
		cpn, err := ParseCpn(core)
		if err != nil {
			return Dep{}, err
		}
		d.Cpn = cpn
	}

	// 3. slot-dep
	if hasSlot {
		if err := eapi.RequireFeature(e, eapi.FeatureSlotDeps); err != nil {
			return Dep{}, wrapFeature(orig, err)
		}
		if err := parseSlotDep(orig, slotPart, e, &d); err != nil {
			return Dep{}, err
		}
	}

	// 4. use-deps
	if hasUse {
		if err := eapi.RequireFeature(e, eapi.FeatureUseDeps); err != nil {
			return Dep{}, wrapFeature(orig, err)
		}
		ud, err := parseUseDeps(orig, usePart, e)
		if err != nil {
			return Dep{}, err
		}
		d.UseDeps = ud
	}

	// 5. repo
	if hasRepo {
		if err := eapi.RequireFeature(e, eapi.FeatureRepoIDs); err != nil {
			return Dep{}, wrapFeature(orig, err)
		}
		if !repoRe.MatchString(repoPart) {
			return Dep{}, perr.New(perr.KindAtom, orig, len(orig)-len(repoPart), "invalid repo id")
		}
		d.HasRepo = true
		d.Repo = repoPart
	}

	return d, nil
}

func wrapFeature(orig string, err error) error {
	return perr.New(perr.KindAtom, orig, 0, err.Error())
}

// cutRepo splits off a trailing "::repo" component.
func cutRepo(s string) (rest, repo string, ok bool) {
	idx := strings.LastIndex(s, "::")
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+2:], true
}

// cutUseDeps splits off a trailing "[...]" component.
func cutUseDeps(s string) (rest, use string, ok bool) {
	if !strings.HasSuffix(s, "]") {
		return s, "", false
	}
	idx := strings.IndexByte(s, '[')
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+1 : len(s)-1], true
}

// cutSlotDep splits off a trailing ":slot-dep" component at the first
// ':' in s (in practice atoms have exactly one top-level ':' once
// use-deps/repo have already been stripped).
func cutSlotDep(s string) (rest, slot string, ok bool) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+1:], true
}

// cutOperator recognizes a leading version operator and returns the
// remaining "category/package-version[*]" text.
func cutOperator(s string) (version.Operator, string, bool) {
	switch {
	case strings.HasPrefix(s, "<="):
		return version.OpLessOrEqual, s[2:], true
	case strings.HasPrefix(s, ">="):
		return version.OpGreaterOrEqual, s[2:], true
	case strings.HasPrefix(s, "<"):
		return version.OpLess, s[1:], true
	case strings.HasPrefix(s, ">"):
		return version.OpGreater, s[1:], true
	case strings.HasPrefix(s, "~"):
		return version.OpApproximate, s[1:], true
	case strings.HasPrefix(s, "="):
		return version.OpEqual, s[1:], true
	default:
		return version.OpNone, s, false
	}
}

func parseSlotDep(orig, slotPart string, e *eapi.Eapi, d *Dep) error {
	op := SlotOpNone
	body := slotPart
	switch {
	case body == "=":
		op = SlotOpEqual
		body = ""
	case body == "*":
		op = SlotOpStar
		body = ""
	case strings.HasSuffix(body, "="):
		if err := eapi.RequireFeature(e, eapi.FeatureSlotOps); err != nil {
			return wrapFeature(orig, err)
		}
		op = SlotOpEqual
		body = body[:len(body)-1]
	}

	if body != "" {
		if idx := strings.IndexByte(body, '/'); idx >= 0 {
			if err := eapi.RequireFeature(e, eapi.FeatureSubslots); err != nil {
				return wrapFeature(orig, err)
			}
			slot, subslot := body[:idx], body[idx+1:]
			if !slotRe.MatchString(slot) || !slotRe.MatchString(subslot) {
				return perr.New(perr.KindAtom, orig, 0, "invalid slot/subslot")
			}
			d.HasSlot, d.Slot = true, slot
			d.HasSubslot, d.Subslot = true, subslot
		} else {
			if !slotRe.MatchString(body) {
				return perr.New(perr.KindAtom, orig, 0, "invalid slot")
			}
			d.HasSlot, d.Slot = true, body
		}
	}
	d.SlotOp = op
	return nil
}

var useFlagRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9+_-]*$`)

func parseUseDeps(orig, usePart string, e *eapi.Eapi) ([]UseDep, error) {
	if usePart == "" {
		return nil, perr.New(perr.KindAtom, orig, 0, "empty use-dep list")
	}
	var deps []UseDep
	for _, tok := range strings.Split(usePart, ",") {
		if tok == "" {
			return nil, perr.New(perr.KindAtom, orig, 0, "empty use-dep entry")
		}
		ud, err := parseOneUseDep(orig, tok, e)
		if err != nil {
			return nil, err
		}
		deps = append(deps, ud)
	}
	return deps, nil
}

func parseOneUseDep(orig, tok string, e *eapi.Eapi) (UseDep, error) {
	var ud UseDep
	body := tok

	switch {
	case strings.HasPrefix(body, "!"):
		ud.Prefix = UsePrefixBang
		body = body[1:]
	case strings.HasPrefix(body, "-"):
		ud.Prefix = UsePrefixMinus
		body = body[1:]
	}

	switch {
	case strings.HasSuffix(body, "="):
		ud.Suffix = UseSuffixEqual
		body = body[:len(body)-1]
	case strings.HasSuffix(body, "?"):
		ud.Suffix = UseSuffixQuestion
		body = body[:len(body)-1]
	}

	// table validation (spec §4.B)
	switch {
	case ud.Prefix == UsePrefixMinus && ud.Suffix != UseSuffixNone:
		return UseDep{}, perr.New(perr.KindAtom, orig, 0, "'-' use-dep prefix cannot combine with '=' or '?'")
	case ud.Prefix == UsePrefixBang && ud.Suffix == UseSuffixNone:
		return UseDep{}, perr.New(perr.KindAtom, orig, 0, "'!' use-dep prefix requires '=' or '?' suffix")
	}

	if strings.HasSuffix(body, "(+)") {
		ud.Default = '+'
		body = body[:len(body)-3]
	} else if strings.HasSuffix(body, "(-)") {
		ud.Default = '-'
		body = body[:len(body)-3]
	}

	if ud.Default != 0 {
		if err := eapi.RequireFeature(e, eapi.FeatureUseDepDefaults); err != nil {
			return UseDep{}, wrapFeature(orig, err)
		}
	}

	if !useFlagRe.MatchString(body) {
		return UseDep{}, perr.New(perr.KindAtom, orig, 0, fmt.Sprintf("invalid use flag name %q", body))
	}
	ud.Flag = body

	return ud, nil
}
