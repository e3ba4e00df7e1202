// Package metadata implements the canonical PackageMetadata record
// (spec §4.F) and its derived query operations.
package metadata

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// KeywordStatus is the arch-support state a Keyword carries.
type KeywordStatus int

const (
	KeywordStable KeywordStatus = iota
	KeywordUnstable
	KeywordDisabled
)

// Keyword is "{status, arch}" (spec §3); the sentinel "-*" is legal
// only with Disabled.
type Keyword struct {
	Status KeywordStatus
	Arch   string
}

func (k Keyword) String() string {
	switch k.Status {
	case KeywordUnstable:
		return "~" + k.Arch
	case KeywordDisabled:
		return "-" + k.Arch
	default:
		return k.Arch
	}
}

// ParseKeyword parses a single KEYWORDS token.
func ParseKeyword(s string) (Keyword, error) {
	switch {
	case strings.HasPrefix(s, "~"):
		arch := s[1:]
		if arch == "" || arch == "*" {
			return Keyword{}, perr.New(perr.KindMetadata, s, 0, "invalid unstable keyword")
		}
		return Keyword{Status: KeywordUnstable, Arch: arch}, nil
	case strings.HasPrefix(s, "-"):
		arch := s[1:]
		if arch == "" {
			return Keyword{}, perr.New(perr.KindMetadata, s, 0, "invalid disabled keyword")
		}
		return Keyword{Status: KeywordDisabled, Arch: arch}, nil
	default:
		if s == "" || s == "*" {
			return Keyword{}, perr.New(perr.KindMetadata, s, 0, "'*' is only legal as the disabled sentinel '-*'")
		}
		return Keyword{Status: KeywordStable, Arch: s}, nil
	}
}

// IuseDefault is the optional default-enabled marker on an IUSE entry.
type IuseDefault int

const (
	IuseNone IuseDefault = iota
	IusePlus
	IuseMinus
)

// Iuse is "{default, flag name}" (spec §3). Flag names forbid '@',
// unlike use-dep flag names.
type Iuse struct {
	Default IuseDefault
	Flag    string
}

func (i Iuse) String() string {
	switch i.Default {
	case IusePlus:
		return "+" + i.Flag
	case IuseMinus:
		return "-" + i.Flag
	default:
		return i.Flag
	}
}

// ParseIuse parses a single IUSE token.
func ParseIuse(s string) (Iuse, error) {
	def := IuseNone
	flag := s
	switch {
	case strings.HasPrefix(s, "+"):
		def = IusePlus
		flag = s[1:]
	case strings.HasPrefix(s, "-"):
		def = IuseMinus
		flag = s[1:]
	}
	if flag == "" {
		return Iuse{}, perr.New(perr.KindMetadata, s, 0, "empty IUSE flag name")
	}
	if strings.ContainsRune(flag, '@') {
		return Iuse{}, perr.New(perr.KindMetadata, s, 0, "IUSE flag names forbid '@'")
	}
	return Iuse{Default: def, Flag: flag}, nil
}

// MergeIncremental appends additions to existing in order, skipping any
// value already present, matching the incremental-key accumulation
// rule: eclass-then-ebuild contributions are merged parent-first with
// duplicates removed keeping the first occurrence (spec §4.F "Storage
// guarantees").
func MergeIncremental(existing []string, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(additions))
	for _, v := range existing {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range additions {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
