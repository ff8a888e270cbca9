package tree

import "log"

// Builder assembles a Tree through a fluent API, generalizing the reference
// engine's StateConfig/MachineBuilder fluent builders to the full SCXML
// node-kind set. It allocates nodes into a growing arena and defers target
// resolution and invariant validation to Build().
type Builder struct {
	nodes []*Node
	byID  map[string]ID
	doc   int
}

// NewBuilder creates a Builder seeded with the Root node (doc order 0).
func NewBuilder() *Builder {
	b := &Builder{byID: make(map[string]ID)}
	root := &Node{Kind: KindRoot, Parent: NoID, DocOrder: 0}
	b.nodes = append(b.nodes, root)
	b.doc = 1
	return b
}

func (b *Builder) alloc(n *Node) ID {
	id := ID(len(b.nodes))
	n.DocOrder = b.doc
	b.doc++
	b.nodes = append(b.nodes, n)
	if n.ID != "" {
		b.byID[n.ID] = id
	}
	return id
}

// Handle wraps an arena ID for fluent chaining from a containing state.
type Handle struct {
	b  *Builder
	id ID
}

// Root returns a handle to the synthesized Root node.
func (b *Builder) Root() *Handle {
	return &Handle{b: b, id: 0}
}

// ID returns the arena ID this handle wraps.
func (h *Handle) ID() ID { return h.id }

func (h *Handle) addChild(n *Node) *Handle {
	n.Parent = h.id
	id := h.b.alloc(n)
	parent := h.b.nodes[h.id]
	parent.Children = append(parent.Children, id)
	return &Handle{b: h.b, id: id}
}

// Compound adds a compound child state.
func (h *Handle) Compound(id string) *Handle {
	return h.addChild(&Node{ID: id, Kind: KindCompound})
}

// Parallel adds a parallel child state.
func (h *Handle) Parallel(id string) *Handle {
	return h.addChild(&Node{ID: id, Kind: KindParallel})
}

// Atomic adds an atomic leaf child state.
func (h *Handle) Atomic(id string) *Handle {
	return h.addChild(&Node{ID: id, Kind: KindAtomic})
}

// Final adds a final leaf child state.
func (h *Handle) Final(id string) *Handle {
	return h.addChild(&Node{ID: id, Kind: KindFinal})
}

// History adds a history pseudo-state child of the given kind.
func (h *Handle) History(id string, kind HistoryKind) *Handle {
	return h.addChild(&Node{ID: id, Kind: KindHistory, HistoryKind: kind})
}

// Initial sets the default-entry transition targets for a compound, parallel
// or root handle (the synthesized <initial> element).
func (h *Handle) Initial(targets ...string) *Handle {
	n := h.b.nodes[h.id]
	n.InitialTransition = &Transition{Source: h.id, TargetRefs: targets, Kind: External, DocOrder: h.b.doc}
	h.b.doc++
	return h
}

// OnEntry attaches opaque content run whenever this state is entered.
func (h *Handle) OnEntry(c ContentRef) *Handle {
	h.b.nodes[h.id].OnEntry = c
	return h
}

// OnExit attaches opaque content run whenever this state is exited.
func (h *Handle) OnExit(c ContentRef) *Handle {
	h.b.nodes[h.id].OnExit = c
	return h
}

// HistoryDefault sets the fallback transition used when a history
// pseudo-state has never recorded a value.
func (h *Handle) HistoryDefault(targets ...string) *Handle {
	n := h.b.nodes[h.id]
	n.HistoryDefault = &Transition{Source: h.id, TargetRefs: targets, Kind: External, DocOrder: h.b.doc}
	h.b.doc++
	return h
}

// TransitionHandle wraps a freshly added outbound transition for fluent
// guard/content/kind configuration.
type TransitionHandle struct {
	tr *Transition
}

// Guard attaches an opaque guard reference.
func (th *TransitionHandle) Guard(g GuardRef) *TransitionHandle {
	th.tr.Guard = g
	return th
}

// Content attaches opaque executable content.
func (th *TransitionHandle) Content(c ContentRef) *TransitionHandle {
	th.tr.Content = c
	return th
}

// Internal marks the transition internal (a transition from a compound
// source whose targets are all descendants of that source then keeps the
// source as its domain instead of exiting it).
func (th *TransitionHandle) Internal() *TransitionHandle {
	th.tr.Kind = Internal
	return th
}

// On adds an outbound transition triggered by event ("" for eventless) with
// the given targets (none for a targetless transition).
func (h *Handle) On(event string, targets ...string) *TransitionHandle {
	tr := &Transition{Source: h.id, Event: event, TargetRefs: targets, Kind: External, DocOrder: h.b.doc}
	h.b.doc++
	n := h.b.nodes[h.id]
	n.Transitions = append(n.Transitions, tr)
	return &TransitionHandle{tr: tr}
}

// Build resolves every transition's idrefs against the tree (parent-to-top
// search) and validates the tree's structural invariants, returning an
// immutable Tree.
func (b *Builder) Build() (*Tree, error) {
	t := &Tree{Nodes: b.nodes, byID: b.byID, Root: 0}

	for _, n := range t.Nodes {
		if n.InitialTransition != nil {
			if err := resolveTransition(t, n.InitialTransition); err != nil {
				log.Printf("tree: build failed: %v", err)
				return nil, err
			}
		}
		if n.HistoryDefault != nil {
			if err := resolveTransition(t, n.HistoryDefault); err != nil {
				log.Printf("tree: build failed: %v", err)
				return nil, err
			}
		}
		for _, tr := range n.Transitions {
			if err := resolveTransition(t, tr); err != nil {
				log.Printf("tree: build failed: %v", err)
				return nil, err
			}
		}
	}

	if err := validate(t); err != nil {
		log.Printf("tree: build failed: %v", err)
		return nil, err
	}
	return t, nil
}

func resolveTransition(t *Tree, tr *Transition) error {
	tr.Targets = make([]ID, 0, len(tr.TargetRefs))
	for _, ref := range tr.TargetRefs {
		id, err := FindTarget(t, tr.Source, ref)
		if err != nil {
			return err
		}
		tr.Targets = append(tr.Targets, id)
	}
	return nil
}
