package atom

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// Blocker is the optional "!"/"!!" prefix turning a Dep into a
// conflict constraint.
type Blocker int

const (
	BlockerNone Blocker = iota
	BlockerWeak         // !cat/pkg
	BlockerStrong       // !!cat/pkg
)

func (b Blocker) String() string {
	switch b {
	case BlockerWeak:
		return "!"
	case BlockerStrong:
		return "!!"
	default:
		return ""
	}
}

// SlotOperator is the optional "="/"*" slot-dep operator.
type SlotOperator int

const (
	SlotOpNone SlotOperator = iota
	SlotOpEqual
	SlotOpStar
)

// UseDepPrefix is the optional "-"/"!" use-dep prefix.
type UseDepPrefix int

const (
	UsePrefixNone UseDepPrefix = iota
	UsePrefixMinus
	UsePrefixBang
)

// UseDepSuffix is the optional "="/"?" use-dep suffix.
type UseDepSuffix int

const (
	UseSuffixNone UseDepSuffix = iota
	UseSuffixEqual
	UseSuffixQuestion
)

// UseDep is a single entry of an atom's "[use,...]" list (spec §4.B).
type UseDep struct {
	Prefix  UseDepPrefix
	Flag    string
	Default byte // 0, '+', or '-'
	Suffix  UseDepSuffix
}

func (u UseDep) String() string {
	var b strings.Builder
	switch u.Prefix {
	case UsePrefixMinus:
		b.WriteByte('-')
	case UsePrefixBang:
		b.WriteByte('!')
	}
	b.WriteString(u.Flag)
	if u.Default != 0 {
		b.WriteByte('(')
		b.WriteByte(u.Default)
		b.WriteByte(')')
	}
	switch u.Suffix {
	case UseSuffixEqual:
		b.WriteByte('=')
	case UseSuffixQuestion:
		b.WriteByte('?')
	}
	return b.String()
}

// Dep is a generalized package reference: a Cpn plus optional blocker,
// version constraint, slot dep, use deps, and repo id (spec §4.B).
// Every optional part is gated by the active EAPI at parse time.
type Dep struct {
	Cpn
	Blocker    Blocker
	HasVersion bool
	Version    version.Version // operator-bearing; zero value if !HasVersion

	HasSlot    bool
	Slot       string
	HasSubslot bool
	Subslot    string
	SlotOp     SlotOperator

	UseDeps []UseDep

	HasRepo bool
	Repo    string
}

// Key returns the "category/package" string, the dependency's identity
// ignoring all constraints.
func (d Dep) Key() string { return d.Cpn.String() }

// Cpv returns "category/package-version", or just Key() if no version
// is attached.
func (d Dep) Cpv() string {
	if !d.HasVersion {
		return d.Key()
	}
	return d.Key() + "-" + d.Version.WithoutOp().String()
}

// FullVer returns the version text (without leading operator), or ""
// if no version is attached.
func (d Dep) FullVer() string {
	if !d.HasVersion {
		return ""
	}
	return d.Version.WithoutOp().String()
}

// UseDepsSet returns the flag-name projection of UseDeps, for use as a
// restriction Set predicate target.
func (d Dep) UseDepsSet() []string {
	out := make([]string, len(d.UseDeps))
	for i, u := range d.UseDeps {
		out[i] = u.Flag
	}
	return out
}

func (d Dep) String() string {
	var b strings.Builder
	b.WriteString(d.Blocker.String())

	if d.HasVersion {
		b.WriteString(d.Version.Op().String())
		b.WriteString(d.Key())
		b.WriteByte('-')
		b.WriteString(d.Version.WithoutOp().String())
		if d.Version.Op() == version.OpEqualGlob {
			b.WriteByte('*')
		}
	} else {
		b.WriteString(d.Key())
	}

	switch {
	case d.HasSlot && d.HasSubslot && d.SlotOp == SlotOpEqual:
		b.WriteString(":" + d.Slot + "/" + d.Subslot + "=")
	case d.HasSlot && d.HasSubslot:
		b.WriteString(":" + d.Slot + "/" + d.Subslot)
	case d.HasSlot && d.SlotOp == SlotOpEqual:
		b.WriteString(":" + d.Slot + "=")
	case d.HasSlot:
		b.WriteString(":" + d.Slot)
	case d.SlotOp == SlotOpEqual:
		b.WriteString(":=")
	case d.SlotOp == SlotOpStar:
		b.WriteString(":*")
	}

	if len(d.UseDeps) > 0 {
		parts := make([]string, len(d.UseDeps))
		for i, u := range d.UseDeps {
			parts[i] = u.String()
		}
		b.WriteString("[" + strings.Join(parts, ",") + "]")
	}

	if d.HasRepo {
		b.WriteString("::" + d.Repo)
	}

	return b.String()
}
