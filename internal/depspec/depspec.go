// Package depspec implements the generic Dependency[T] tree shared by
// the six dep-spec dialects (spec §4.D): PACKAGE_DEPS, SRC_URI,
// LICENSE, PROPERTIES, RESTRICT, REQUIRED_USE. Each dialect fixes the
// leaf type T and which grouping constructs are legal; the recursive
// descent grammar itself is shared.
package depspec

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// Kind tags which variant of the Dependency sum a node is.
type Kind int

const (
	KindEnabled Kind = iota
	KindDisabled
	KindAllOf
	KindAnyOf
	KindExactlyOneOf
	KindAtMostOneOf
	KindConditional
)

func (k Kind) String() string {
	switch k {
	case KindEnabled:
		return "enabled"
	case KindDisabled:
		return "disabled"
	case KindAllOf:
		return "all-of"
	case KindAnyOf:
		return "any-of"
	case KindExactlyOneOf:
		return "exactly-one-of"
	case KindAtMostOneOf:
		return "at-most-one-of"
	case KindConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// Dependency is a single node of a dep-spec tree: either a leaf
// (Enabled/Disabled wrapping a T) or a grouping/conditional node over
// children. Disabled only ever appears for REQUIRED_USE's "!flag"
// leaves; every other dialect only produces Enabled leaves.
type Dependency[T any] struct {
	Kind     Kind
	Leaf     T // valid when Kind is KindEnabled or KindDisabled
	Children []Dependency[T]
	UseFlag  string // valid when Kind is KindConditional
	Negate   bool   // valid when Kind is KindConditional ("!use? ( ... )")
}

// DependencySet is an ordered top-level collection of Dependency nodes
// for one metadata key.
type DependencySet[T any] struct {
	Nodes []Dependency[T]
}

// grammar fixes which constructs a dialect permits beyond the always-
// legal leaf/all-of/conditional triad.
type grammar struct {
	allowAnyOf        bool
	allowExactlyOneOf bool
	allowAtMostOneOf  bool
	allowNegatedLeaf  bool
}

// LeafParser converts one whitespace-delimited token (with any leading
// "!" already stripped for REQUIRED_USE) into the dialect's leaf type.
type LeafParser[T any] func(token string) (T, error)

// parse runs the shared recursive-descent grammar over s, using g to
// gate which constructs are legal and leaf to parse individual tokens.
func parse[T any](s string, g grammar, leaf LeafParser[T]) (DependencySet[T], error) {
	toks := strings.Fields(s)
	pos := 0
	nodes, err := parseSequence(s, toks, &pos, g, leaf)
	if err != nil {
		return DependencySet[T]{}, err
	}
	if pos != len(toks) {
		return DependencySet[T]{}, perr.New(perr.KindDepSet, s, 0, "unmatched ')'")
	}
	return DependencySet[T]{Nodes: nodes}, nil
}

func parseSequence[T any](orig string, toks []string, pos *int, g grammar, leaf LeafParser[T]) ([]Dependency[T], error) {
	var out []Dependency[T]
	for *pos < len(toks) && toks[*pos] != ")" {
		node, err := parseElement(orig, toks, pos, g, leaf)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func parseGroup[T any](orig string, toks []string, pos *int, g grammar, leaf LeafParser[T], kind Kind) (Dependency[T], error) {
	*pos++ // consume the operator token ("||", "^^", "??", or "flag?")
	if *pos >= len(toks) || toks[*pos] != "(" {
		return Dependency[T]{}, perr.New(perr.KindDepSet, orig, 0, "expected '(' after group operator")
	}
	*pos++ // consume "("
	children, err := parseSequence(orig, toks, pos, g, leaf)
	if err != nil {
		return Dependency[T]{}, err
	}
	if *pos >= len(toks) || toks[*pos] != ")" {
		return Dependency[T]{}, perr.New(perr.KindDepSet, orig, 0, "missing closing ')'")
	}
	*pos++ // consume ")"
	return Dependency[T]{Kind: kind, Children: children}, nil
}

func parseElement[T any](orig string, toks []string, pos *int, g grammar, leaf LeafParser[T]) (Dependency[T], error) {
	tok := toks[*pos]

	switch tok {
	case "(":
		return parseGroup(orig, toks, pos, g, leaf, KindAllOf)
	case "||":
		if !g.allowAnyOf {
			return Dependency[T]{}, perr.New(perr.KindDepSet, orig, 0, "'||' not permitted in this dialect")
		}
		return parseGroup(orig, toks, pos, g, leaf, KindAnyOf)
	case "^^":
		if !g.allowExactlyOneOf {
			return Dependency[T]{}, perr.New(perr.KindDepSet, orig, 0, "'^^' not permitted in this dialect")
		}
		return parseGroup(orig, toks, pos, g, leaf, KindExactlyOneOf)
	case "??":
		if !g.allowAtMostOneOf {
			return Dependency[T]{}, perr.New(perr.KindDepSet, orig, 0, "'??' not permitted in this dialect")
		}
		return parseGroup(orig, toks, pos, g, leaf, KindAtMostOneOf)
	}

	if flag, negate, ok := conditionalFlag(tok); ok {
		node, err := parseGroup(orig, toks, pos, g, leaf, KindConditional)
		if err != nil {
			return Dependency[T]{}, err
		}
		node.UseFlag = flag
		node.Negate = negate
		return node, nil
	}

	// leaf
	tokText := tok
	negateLeaf := false
	if g.allowNegatedLeaf && strings.HasPrefix(tokText, "!") {
		negateLeaf = true
		tokText = tokText[1:]
	}
	val, err := leaf(tokText)
	if err != nil {
		return Dependency[T]{}, err
	}
	*pos++
	kind := KindEnabled
	if negateLeaf {
		kind = KindDisabled
	}
	return Dependency[T]{Kind: kind, Leaf: val}, nil
}

// conditionalFlag reports whether tok is a "useflag?" or "!useflag?"
// conditional-group opener, returning the bare flag name and negation.
func conditionalFlag(tok string) (flag string, negate bool, ok bool) {
	if !strings.HasSuffix(tok, "?") {
		return "", false, false
	}
	body := tok[:len(tok)-1]
	if body == "" {
		return "", false, false
	}
	if strings.HasPrefix(body, "!") {
		return body[1:], true, true
	}
	return body, false, true
}
