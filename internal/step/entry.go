package step

import "github.com/arcstate/scxml/tree"

// EntryResult bundles the three outputs of computeEntrySet: the states to
// enter, the subset of those that should run their default
// (<initial>) entry content, and the per-history-state default content to
// run when a history pseudo-state had no recorded value.
type EntryResult struct {
	StatesToEnter         *tree.OrderedSet
	StatesForDefaultEntry *tree.OrderedSet
	DefaultHistoryContent map[tree.ID]tree.ContentRef
}

// EntrySet computes statesToEnter/statesForDefaultEntry/defaultHistoryContent
// for a conflict-resolved transition set, given the interpreter's current
// history value (nil-safe).
func EntrySet(t *tree.Tree, transitions []*tree.Transition, history map[tree.ID][]tree.ID) *EntryResult {
	res := &EntryResult{
		StatesToEnter:         tree.NewOrderedSet(),
		StatesForDefaultEntry: tree.NewOrderedSet(),
		DefaultHistoryContent: make(map[tree.ID]tree.ContentRef),
	}
	for _, tr := range transitions {
		targets := tree.GetEffectiveTargetStates(t, tr, history)
		for _, s := range targets {
			addDescendantStatesToEnter(t, s, history, res)
		}
		dom, ok := tree.GetTransitionDomain(t, tr)
		if !ok {
			continue
		}
		for _, s := range targets {
			addAncestorStatesToEnter(t, s, dom, history, res)
		}
	}
	return res
}

func addDescendantStatesToEnter(t *tree.Tree, s tree.ID, history map[tree.ID][]tree.ID, res *EntryResult) {
	n := t.Node(s)

	if n.Kind == tree.KindHistory {
		if vals, ok := history[s]; ok {
			for _, v := range vals {
				addDescendantStatesToEnter(t, v, history, res)
			}
			for _, v := range vals {
				addAncestorStatesToEnter(t, v, n.Parent, history, res)
			}
			return
		}
		if n.HistoryDefault != nil {
			res.DefaultHistoryContent[s] = n.HistoryDefault.Content
			for _, v := range n.HistoryDefault.Targets {
				addDescendantStatesToEnter(t, v, history, res)
			}
			for _, v := range n.HistoryDefault.Targets {
				addAncestorStatesToEnter(t, v, n.Parent, history, res)
			}
		}
		return
	}

	res.StatesToEnter.Add(s)

	switch n.Kind {
	case tree.KindCompound:
		res.StatesForDefaultEntry.Add(s)
		targets := n.InitialTransition.Targets
		for _, v := range targets {
			addDescendantStatesToEnter(t, v, history, res)
		}
		for _, v := range targets {
			addAncestorStatesToEnter(t, v, s, history, res)
		}
	case tree.KindParallel:
		for _, child := range n.Children {
			if !hasDescendantInEntry(t, res.StatesToEnter, child) {
				addDescendantStatesToEnter(t, child, history, res)
			}
		}
	}
}

func addAncestorStatesToEnter(t *tree.Tree, s, stop tree.ID, history map[tree.ID][]tree.ID, res *EntryResult) {
	for _, a := range tree.ProperAncestors(t, s, stop) {
		res.StatesToEnter.Add(a)
		an := t.Node(a)
		if an.Kind == tree.KindParallel {
			for _, child := range an.Children {
				if !hasDescendantInEntry(t, res.StatesToEnter, child) {
					addDescendantStatesToEnter(t, child, history, res)
				}
			}
		}
	}
}

func hasDescendantInEntry(t *tree.Tree, statesToEnter *tree.OrderedSet, child tree.ID) bool {
	for _, s := range statesToEnter.Slice() {
		if s == child || tree.IsDescendant(t, s, child) {
			return true
		}
	}
	return false
}
