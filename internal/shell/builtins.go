package shell

import (
	"fmt"
	"strconv"

	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

// VersionBuiltin dispatches one of the ver_cut/ver_rs/ver_test
// non-phase builtins (SUPPLEMENTED FEATURES #5) for a concrete Sourcer
// to call into while evaluating an ebuild: these are small pure
// helpers the shell environment exposes, not something an external
// process needs its own implementation of. Gated by e.HasCommand so a
// Sourcer can reject the call under an EAPI too old to define it
// (none currently gate these, but the check keeps callers honest as
// the command table grows).
func VersionBuiltin(e *eapi.Eapi, name string, args []string) (string, error) {
	if !e.HasCommand(name) {
		return "", fmt.Errorf("shell: %s: not available under EAPI %q", name, e.ID())
	}

	switch name {
	case "ver_cut":
		if len(args) != 2 {
			return "", fmt.Errorf("shell: ver_cut: expected 2 arguments, got %d", len(args))
		}
		start, end, err := parseRange(args[1])
		if err != nil {
			return "", fmt.Errorf("shell: ver_cut: %w", err)
		}
		return version.Cut(args[0], start, end)
	case "ver_rs":
		if len(args) < 3 {
			return "", fmt.Errorf("shell: ver_rs: expected a version and at least one (range, repl) pair")
		}
		return version.Rs(args[len(args)-1], args[:len(args)-1]...)
	case "ver_test":
		if len(args) != 3 {
			return "", fmt.Errorf("shell: ver_test: expected 3 arguments, got %d", len(args))
		}
		ok, err := version.Test(args[0], args[1], args[2])
		if err != nil {
			return "", fmt.Errorf("shell: ver_test: %w", err)
		}
		if ok {
			return "0", nil
		}
		return "1", nil
	default:
		return "", fmt.Errorf("shell: unknown version builtin %q", name)
	}
}

// parseRange splits a "start-end", "start-", or bare "n" range token
// the way ver_cut's shell argument is written, defaulting a missing
// end to the version's final range (signaled here as 0, which
// version.Cut treats as "through the end").
func parseRange(token string) (start, end int, err error) {
	for i := 0; i < len(token); i++ {
		if token[i] == '-' {
			start, err = strconv.Atoi(token[:i])
			if err != nil {
				return 0, 0, err
			}
			if i == len(token)-1 {
				return start, 0, nil
			}
			end, err = strconv.Atoi(token[i+1:])
			return start, end, err
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, err
	}
	return n, n, nil
}
