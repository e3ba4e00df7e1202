package atom

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// Compare implements the Dep total order (SUPPLEMENTED FEATURES #2),
// grounded on original_source/src/atom.rs's "impl Ord for Atom":
// category, then package, then version (unconstrained/absent sorts
// first), then blocker, then slot, then subslot, then use-deps, then
// repo. Version comparison ignores any attached operator.
func Compare(a, b Dep) int {
	if c := strings.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	if c := strings.Compare(a.Package, b.Package); c != 0 {
		return c
	}
	if c := compareVersionPresence(a, b); c != 0 {
		return c
	}
	if c := compareInt(int(a.Blocker), int(b.Blocker)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Slot, b.Slot); c != 0 {
		return c
	}
	if c := strings.Compare(a.Subslot, b.Subslot); c != 0 {
		return c
	}
	if c := compareUseDeps(a.UseDeps, b.UseDeps); c != 0 {
		return c
	}
	return strings.Compare(a.Repo, b.Repo)
}

// Less reports whether a sorts strictly before b.
func Less(a, b Dep) bool { return Compare(a, b) < 0 }

func compareVersionPresence(a, b Dep) int {
	switch {
	case !a.HasVersion && !b.HasVersion:
		return 0
	case !a.HasVersion:
		return -1
	case !b.HasVersion:
		return 1
	default:
		return version.Compare(a.Version.WithoutOp(), b.Version.WithoutOp())
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareUseDeps orders use-dep lists lexicographically by rendered
// form, matching how the original compares the sorted-use-dep vector.
func compareUseDeps(a, b []UseDep) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i].String(), b[i].String()); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}
