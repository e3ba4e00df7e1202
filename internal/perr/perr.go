// Package perr provides the shared parse-error type used by every
// grammar in the dependency-language parser family (versions, atoms,
// dep-specs, EAPI strings, layout.conf, cache entries).
package perr

import (
	"fmt"
	"strings"
)

// Kind identifies which grammar failed to parse.
type Kind string

const (
	KindAtom       Kind = "atom"
	KindVersion    Kind = "version"
	KindDepSet     Kind = "dep-set"
	KindLayoutConf Kind = "layout-conf"
	KindCacheEntry Kind = "cache-entry"
	KindEapiString Kind = "eapi-string"
	KindGlob       Kind = "glob"
	KindQuery      Kind = "query"
	KindMetadata   Kind = "metadata"
)

// Error is a parse failure at a byte offset within some input, carrying
// a one-line excerpt with a caret marker so callers can render it the
// way a compiler diagnostic would.
type Error struct {
	Kind   Kind
	Input  string
	Offset int
	Reason string
}

func New(kind Kind, input string, offset int, reason string) *Error {
	if offset < 0 {
		offset = 0
	}
	if offset > len(input) {
		offset = len(input)
	}
	return &Error{Kind: kind, Input: input, Offset: offset, Reason: reason}
}

func (e *Error) Error() string {
	line, caret := excerpt(e.Input, e.Offset)
	return fmt.Sprintf("%s: %s at offset %d\n%s\n%s", e.Kind, e.Reason, e.Offset, line, caret)
}

// excerpt renders the single line containing offset plus a caret marker
// pointing at the exact column.
func excerpt(input string, offset int) (line, caret string) {
	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	lineEnd := len(input)
	if idx := strings.IndexByte(input[offset:], '\n'); idx >= 0 {
		lineEnd = offset + idx
	}
	line = input[lineStart:lineEnd]
	col := offset - lineStart
	caret = strings.Repeat(" ", col) + "^"
	return line, caret
}
