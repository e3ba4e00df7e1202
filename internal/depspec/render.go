package depspec

import "strings"

// Render reconstructs the textual dep-spec form of set, the inverse of
// parse: leafStr renders a single leaf's text (the "!" negation prefix
// for KindDisabled leaves is added here, not by leafStr).
func Render[T any](set DependencySet[T], leafStr func(T) string) string {
	return strings.Join(renderNodes(set.Nodes, leafStr), " ")
}

func renderNodes[T any](nodes []Dependency[T], leafStr func(T) string) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = renderNode(n, leafStr)
	}
	return out
}

func renderNode[T any](n Dependency[T], leafStr func(T) string) string {
	switch n.Kind {
	case KindEnabled:
		return leafStr(n.Leaf)
	case KindDisabled:
		return "!" + leafStr(n.Leaf)
	case KindAllOf:
		return "( " + strings.Join(renderNodes(n.Children, leafStr), " ") + " )"
	case KindAnyOf:
		return "|| ( " + strings.Join(renderNodes(n.Children, leafStr), " ") + " )"
	case KindExactlyOneOf:
		return "^^ ( " + strings.Join(renderNodes(n.Children, leafStr), " ") + " )"
	case KindAtMostOneOf:
		return "?? ( " + strings.Join(renderNodes(n.Children, leafStr), " ") + " )"
	case KindConditional:
		prefix := n.UseFlag + "?"
		if n.Negate {
			prefix = "!" + prefix
		}
		return prefix + " ( " + strings.Join(renderNodes(n.Children, leafStr), " ") + " )"
	default:
		return ""
	}
}
