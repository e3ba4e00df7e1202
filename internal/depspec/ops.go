package depspec

// Flatten produces the ordered sequence of leaves in set, discarding
// all grouping/conditional structure (spec §4.D, §8 scenario 4).
func Flatten[T any](set DependencySet[T]) []T {
	var out []T
	var walk func(nodes []Dependency[T])
	walk = func(nodes []Dependency[T]) {
		for _, n := range nodes {
			switch n.Kind {
			case KindEnabled, KindDisabled:
				out = append(out, n.Leaf)
			default:
				walk(n.Children)
			}
		}
	}
	walk(set.Nodes)
	return out
}

// Condition is one enclosing "flag? ( ... )" constraint a leaf sits
// under; Required is false for the "!flag? ( ... )" form.
type Condition struct {
	Flag     string
	Required bool
}

// ConditionalLeaf pairs a leaf with the conjunction of conditionals
// enclosing it.
type ConditionalLeaf[T any] struct {
	Leaf       T
	Disabled   bool // true if the leaf was a REQUIRED_USE "!flag" entry
	Conditions []Condition
}

// IterConditionals walks set depth-first, yielding every leaf paired
// with the use-conditionals that gate it (spec §8 scenario 4).
func IterConditionals[T any](set DependencySet[T]) []ConditionalLeaf[T] {
	var out []ConditionalLeaf[T]
	var walk func(nodes []Dependency[T], conds []Condition)
	walk = func(nodes []Dependency[T], conds []Condition) {
		for _, n := range nodes {
			switch n.Kind {
			case KindEnabled, KindDisabled:
				cp := append([]Condition(nil), conds...)
				out = append(out, ConditionalLeaf[T]{Leaf: n.Leaf, Disabled: n.Kind == KindDisabled, Conditions: cp})
			case KindConditional:
				nc := append(append([]Condition(nil), conds...), Condition{Flag: n.UseFlag, Required: !n.Negate})
				walk(n.Children, nc)
			default:
				walk(n.Children, conds)
			}
		}
	}
	walk(set.Nodes, nil)
	return out
}

// Evaluate collapses set under a concrete USE flag assignment: every
// Conditional node is resolved (its children are spliced in if the
// condition holds, dropped otherwise) while every other construct is
// preserved structurally (spec §4.D "evaluate").
func Evaluate[T any](set DependencySet[T], useflags map[string]bool) DependencySet[T] {
	return DependencySet[T]{Nodes: evalNodes(set.Nodes, useflags)}
}

func evalNodes[T any](nodes []Dependency[T], useflags map[string]bool) []Dependency[T] {
	var out []Dependency[T]
	for _, n := range nodes {
		switch n.Kind {
		case KindConditional:
			enabled := useflags[n.UseFlag]
			if n.Negate {
				enabled = !enabled
			}
			if enabled {
				out = append(out, evalNodes(n.Children, useflags)...)
			}
		case KindAllOf, KindAnyOf, KindExactlyOneOf, KindAtMostOneOf:
			out = append(out, Dependency[T]{Kind: n.Kind, Children: evalNodes(n.Children, useflags)})
		default:
			out = append(out, n)
		}
	}
	return out
}
