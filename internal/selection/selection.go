// Package selection enumerates the enabled transitions for an event (or
// eventlessly) per atomic state in the configuration.
package selection

import (
	"github.com/arcstate/scxml/internal/eventmatch"
	"github.com/arcstate/scxml/tree"
)

// GuardFunc reports whether a candidate transition's guard passes.
type GuardFunc func(tr *tree.Transition) bool

// Transitions enumerates transitions for event across atomicStates (which
// must already be in document order of the configuration): for each atomic
// state, walk outward through [s, ...properAncestors(s, nil)], scan each
// state's outbound transitions in document order, and take the first whose
// event name matches and whose guard passes, then move to the next atomic
// state.
func Transitions(t *tree.Tree, atomicStates []tree.ID, eventName string, guard GuardFunc) []*tree.Transition {
	return selectFor(t, atomicStates, func(tr *tree.Transition) bool {
		return tr.Event != "" && eventmatch.Matches(tr.Event, eventName)
	}, guard)
}

// Eventless enumerates transitions with no event attribute, same shape as
// Transitions.
func Eventless(t *tree.Tree, atomicStates []tree.ID, guard GuardFunc) []*tree.Transition {
	return selectFor(t, atomicStates, func(tr *tree.Transition) bool {
		return tr.Event == ""
	}, guard)
}

func selectFor(t *tree.Tree, atomicStates []tree.ID, matches func(tr *tree.Transition) bool, guard GuardFunc) []*tree.Transition {
	var enabled []*tree.Transition
	for _, s := range atomicStates {
		chain := append([]tree.ID{s}, tree.ProperAncestors(t, s, tree.NoID)...)
		for _, anc := range chain {
			picked := false
			for _, tr := range t.Node(anc).Transitions {
				if !matches(tr) {
					continue
				}
				if guard == nil || guard(tr) {
					enabled = append(enabled, tr)
					picked = true
					break
				}
			}
			if picked {
				break
			}
		}
	}
	return enabled
}
