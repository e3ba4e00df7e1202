// Package shell drives the external ebuild sourcing collaborator (spec
// §4.H): given an ebuild path, its EAPI, and the eclass tree it
// inherits, produce the raw variable assignments and defined phase
// names a shell evaluator would export, then assemble them into a
// PackageMetadata. The actual shell evaluation is out of process (or,
// in tests, faked in-process) behind the Sourcer interface so this
// package never forks or execs itself.
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

// SourceJob describes one ebuild sourcing request.
type SourceJob struct {
	Cpv       atom.Cpv
	RepoID    string
	Eapi      *eapi.Eapi
	EbuildPath string

	// Eclasses lists the eclasses to inherit, in source order, each
	// paired with its current content checksum.
	Eclasses []EclassRef
}

// EclassRef names one eclass to inherit along with its checksum as
// seen by the caller (the repository layer), used both to drive
// sourcing and to stamp the resulting cache entry's _eclasses_ field.
type EclassRef struct {
	Name     string
	Checksum string
}

// SourceResult is the product of one successful sourcing run: the flat
// variable->value map a shell evaluator would have exported after
// running the ebuild and every inherited eclass, plus the names of any
// phase functions (src_compile, pkg_postinst, ...) the ebuild defined.
type SourceResult struct {
	Vars          map[string]string
	DefinedPhases []string
}

// Sourcer is the external collaborator: an out-of-process shell
// evaluator, or an in-process fake for tests. Implementations are
// responsible for the parts of the driver contract this package does
// not enforce itself: restricted environment, failglob policy, command-table enforcement,
// and ordered eclass inheritance with incremental-key accumulation.
type Sourcer interface {
	Source(ctx context.Context, job SourceJob) (SourceResult, error)
}

// ShellEvalError reports a fatal sourcing failure for one ebuild (spec
// §7 ShellEval(pkg, message)): an undefined command, a malformed
// assignment, or a phase call at top level. The record is not written
// when this error occurs.
type ShellEvalError struct {
	Pkg          string   // "category/package-version"
	InheritChain []string // eclasses inherited at the point of failure, outermost first
	Message      string
}

func (e *ShellEvalError) Error() string {
	if len(e.InheritChain) == 0 {
		return fmt.Sprintf("%s: %s", e.Pkg, e.Message)
	}
	return fmt.Sprintf("%s: %s (inherited from %s)", e.Pkg, e.Message, strings.Join(e.InheritChain, " -> "))
}

// mergeIncremental prepends the accumulated eclass value for an
// incremental key to any locally-set value, space-joined (spec §4.H
// "prepend inherited values to any locally-set incremental").
func mergeIncremental(inherited, local string) string {
	inherited = strings.TrimSpace(inherited)
	local = strings.TrimSpace(local)
	switch {
	case inherited == "":
		return local
	case local == "":
		return inherited
	default:
		return inherited + " " + local
	}
}
