// Package conflict prunes mutually-incompatible transitions from an
// enabled set using exit-set intersection, with
// document order (the order the caller's transitions arrive in, which is
// the order atomic states selected them) as the tiebreaker.
package conflict

import "github.com/arcstate/scxml/tree"

// Resolve filters enabled down to a conflict-free set. For each t1 (in
// input order): compare against each t2 already accepted; if their exit
// sets intersect, the descendant source preempts the ancestor source — ties
// (equal source, e.g. the same transition reached via two atomic states)
// resolve in favor of whichever was accepted first. Targetless transitions
// have empty exit sets and never conflict.
func Resolve(t *tree.Tree, config *tree.OrderedSet, enabled []*tree.Transition) []*tree.Transition {
	var filtered []*tree.Transition
	exitCache := make(map[*tree.Transition]map[tree.ID]bool)

	exitSetFor := func(tr *tree.Transition) map[tree.ID]bool {
		if es, ok := exitCache[tr]; ok {
			return es
		}
		es := exitSetMap(t, config, tr)
		exitCache[tr] = es
		return es
	}

	for _, t1 := range enabled {
		exit1 := exitSetFor(t1)
		preempted := false
		var toRemove []*tree.Transition

		for _, t2 := range filtered {
			exit2 := exitSetFor(t2)
			if !intersects(exit1, exit2) {
				continue
			}
			if tree.IsDescendant(t, t1.Source, t2.Source) {
				toRemove = append(toRemove, t2)
			} else {
				preempted = true
				break
			}
		}

		if preempted {
			continue
		}
		if len(toRemove) > 0 {
			filtered = removeAll(filtered, toRemove)
		}
		filtered = append(filtered, t1)
	}
	return filtered
}

func exitSetMap(t *tree.Tree, config *tree.OrderedSet, tr *tree.Transition) map[tree.ID]bool {
	out := make(map[tree.ID]bool)
	dom, ok := tree.GetTransitionDomain(t, tr)
	if !ok {
		return out
	}
	for _, s := range config.Slice() {
		if tree.IsDescendant(t, s, dom) {
			out[s] = true
		}
	}
	return out
}

func intersects(a, b map[tree.ID]bool) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func removeAll(list []*tree.Transition, remove []*tree.Transition) []*tree.Transition {
	rm := make(map[*tree.Transition]bool, len(remove))
	for _, r := range remove {
		rm[r] = true
	}
	out := make([]*tree.Transition, 0, len(list))
	for _, tr := range list {
		if !rm[tr] {
			out = append(out, tr)
		}
	}
	return out
}
