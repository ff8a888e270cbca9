// Package step implements the pure, testable half of the algorithm:
// computing the exit and entry sets a conflict-resolved transition set
// implies. The
// side-effecting half (calling host hooks, mutating the live configuration,
// recording history) lives in the root Interpreter, which calls these
// functions to find out *what* to exit/enter before doing it.
package step

import "github.com/arcstate/scxml/tree"

// ExitSet collects, for each transition with effective targets, every state
// in the current configuration that is a descendant of that transition's
// domain.
func ExitSet(t *tree.Tree, config *tree.OrderedSet, transitions []*tree.Transition) *tree.OrderedSet {
	out := tree.NewOrderedSet()
	for _, tr := range transitions {
		dom, ok := tree.GetTransitionDomain(t, tr)
		if !ok {
			continue
		}
		for _, s := range config.Slice() {
			if tree.IsDescendant(t, s, dom) {
				out.Add(s)
			}
		}
	}
	return out
}
