package tree

// validate checks the structural invariants construction must guarantee:
// every compound/parallel/root has children; compound and root additionally
// require a resolved default initial child (parallel states have no
// Initial concept — every child is simultaneously active); atomic/final
// states have no children; history states have no children; every resolved
// initial target of a compound or root is a direct child. History default
// targets are not checked here.
func validate(t *Tree) error {
	for id, n := range t.Nodes {
		switch n.Kind {
		case KindCompound, KindParallel, KindRoot:
			if len(n.Children) == 0 {
				return &InvalidTreeError{ElementID: n.ID, DocOrder: n.DocOrder, Reason: n.Kind.String() + " state has no children"}
			}
			if n.Kind == KindParallel {
				continue
			}
			if n.InitialTransition == nil || len(n.InitialTransition.Targets) == 0 {
				return &InvalidTreeError{ElementID: n.ID, DocOrder: n.DocOrder, Reason: n.Kind.String() + " state has no default initial child"}
			}
			for _, target := range n.InitialTransition.Targets {
				if t.Node(target).Parent != ID(id) {
					return &InvalidTreeError{ElementID: n.ID, DocOrder: n.DocOrder, Reason: "initial target is not a direct child"}
				}
			}
		case KindAtomic, KindFinal:
			if len(n.Children) != 0 {
				return &InvalidTreeError{ElementID: n.ID, DocOrder: n.DocOrder, Reason: n.Kind.String() + " state cannot have children"}
			}
		case KindHistory:
			if len(n.Children) != 0 {
				return &InvalidTreeError{ElementID: n.ID, DocOrder: n.DocOrder, Reason: "history state cannot have children"}
			}
		}
	}
	return nil
}
