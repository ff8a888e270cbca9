package tree

// ProperAncestors returns s1's ancestors, nearest first, stopping before s2
// (exclusive). Empty when s1 == s2, when s2 is s1's parent, or when s2 is a
// descendant of s1. A NoID s2 walks all the way up to and including Root.
func ProperAncestors(t *Tree, s1, s2 ID) []ID {
	if s1 == s2 {
		return nil
	}
	if s2 != NoID && IsDescendant(t, s2, s1) {
		return nil
	}
	var out []ID
	for cur := t.Node(s1).Parent; cur != NoID; cur = t.Node(cur).Parent {
		if cur == s2 {
			break
		}
		out = append(out, cur)
	}
	return out
}

// IsDescendant reports whether s appears anywhere beneath p, where p must be
// a compound, parallel, or root state to contain anything at all.
func IsDescendant(t *Tree, s, p ID) bool {
	pn := t.Node(p)
	if pn.Kind != KindCompound && pn.Kind != KindParallel && pn.Kind != KindRoot {
		return false
	}
	for cur := t.Node(s).Parent; cur != NoID; cur = t.Node(cur).Parent {
		if cur == p {
			return true
		}
	}
	return false
}

// FindTarget resolves an id reference using the parent-to-top search
// strategy: check start's own children (the siblings of the transition
// declared on it), then start itself, then start's siblings in document
// order, then recurse upward through each ancestor and its siblings.
func FindTarget(t *Tree, start ID, idref string) (ID, error) {
	for _, c := range t.Node(start).Children {
		if t.Node(c).ID == idref {
			return c, nil
		}
	}
	cur := start
	for {
		if t.Node(cur).ID == idref {
			return cur, nil
		}
		parent := t.Node(cur).Parent
		if parent == NoID {
			return NoID, &UnresolvedTargetError{SourceID: t.Node(start).ID, IDRef: idref}
		}
		for _, sib := range t.Node(parent).Children {
			if t.Node(sib).ID == idref {
				return sib, nil
			}
		}
		cur = parent
	}
}

// FindLCCA returns the least common compound ancestor of states: the
// deepest element that is a compound state or Root and is a proper
// ancestor of every element in the input.
func FindLCCA(t *Tree, states []ID) ID {
	if len(states) == 0 {
		return t.Root
	}
	for _, anc := range ProperAncestors(t, states[0], NoID) {
		n := t.Node(anc)
		if n.Kind != KindCompound && n.Kind != KindRoot {
			continue
		}
		all := true
		for _, s := range states[1:] {
			if !IsDescendant(t, s, anc) {
				all = false
				break
			}
		}
		if all {
			return anc
		}
	}
	return t.Root
}

// GetTransitionDomain returns the domain of t: the scope within which exit
// and entry are computed. The second return is false when t has no
// effective targets (caller treats that as "no exits").
func GetTransitionDomain(tr *Tree, t *Transition) (ID, bool) {
	if !t.HasTargets() {
		return NoID, false
	}
	if t.Kind == Internal {
		src := tr.Node(t.Source)
		if src.Kind == KindCompound {
			allDescendants := true
			for _, tgt := range t.Targets {
				if !IsDescendant(tr, tgt, t.Source) {
					allDescendants = false
					break
				}
			}
			if allDescendants {
				return t.Source, true
			}
		}
	}
	states := make([]ID, 0, len(t.Targets)+1)
	states = append(states, t.Source)
	states = append(states, t.Targets...)
	return FindLCCA(tr, states), true
}

// GetEffectiveTargetStates dereferences history pseudo-states to their
// stored history value (if present in history) else their default
// transition's targets; ordinary states pass through unchanged.
func GetEffectiveTargetStates(tr *Tree, t *Transition, history map[ID][]ID) []ID {
	var out []ID
	seen := make(map[ID]bool)
	for _, tgt := range t.Targets {
		addEffectiveTarget(tr, tgt, history, &out, seen)
	}
	return out
}

func addEffectiveTarget(tr *Tree, s ID, history map[ID][]ID, out *[]ID, seen map[ID]bool) {
	n := tr.Node(s)
	if n.Kind == KindHistory {
		if vals, ok := history[s]; ok {
			for _, v := range vals {
				addUnique(out, seen, v)
			}
			return
		}
		if n.HistoryDefault != nil {
			for _, v := range n.HistoryDefault.Targets {
				addUnique(out, seen, v)
			}
		}
		return
	}
	addUnique(out, seen, s)
}

func addUnique(out *[]ID, seen map[ID]bool, id ID) {
	if seen[id] {
		return
	}
	seen[id] = true
	*out = append(*out, id)
}
