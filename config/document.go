// Package config decodes a declarative YAML/JSON statechart document into a
// tree.Tree, generalizing the reference engine's stdlib-only
// primitives.MachineConfig/StateConfig/TransitionConfig to the full SCXML
// node-kind set (compound/parallel/atomic/final/history) and compiling
// straight into the arena-backed core instead of a flat id-keyed map.
package config

import (
	"fmt"
	"sort"

	"github.com/arcstate/scxml/tree"
)

// StateType names a document state's kind, the YAML/JSON-facing counterpart
// of tree.Kind.
type StateType string

const (
	TypeCompound       StateType = "compound"
	TypeParallel       StateType = "parallel"
	TypeAtomic         StateType = "atomic"
	TypeFinal          StateType = "final"
	TypeShallowHistory StateType = "shallowHistory"
	TypeDeepHistory    StateType = "deepHistory"
)

// TransitionDoc is one declared "on event -> target" entry. Guard/Actions
// are opaque references the host resolves via a Registry before Compile.
type TransitionDoc struct {
	Event    string   `json:"event" yaml:"event"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty"`
	Guard    string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	Actions  []string `json:"actions,omitempty" yaml:"actions,omitempty"`
	Internal bool     `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// StateDoc is one declared state, nestable via Children.
type StateDoc struct {
	ID       string                     `json:"id" yaml:"id"`
	Type     StateType                  `json:"type" yaml:"type"`
	Initial  []string                   `json:"initial,omitempty" yaml:"initial,omitempty"`
	On       map[string][]TransitionDoc `json:"on,omitempty" yaml:"on,omitempty"`
	Entry    string                     `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit     string                     `json:"exit,omitempty" yaml:"exit,omitempty"`
	Children []*StateDoc                `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is the top-level decoded statechart document.
type Document struct {
	Version string      `json:"version,omitempty" yaml:"version,omitempty"`
	ID      string      `json:"id" yaml:"id"`
	Initial []string    `json:"initial" yaml:"initial"`
	States  []*StateDoc `json:"states" yaml:"states"`
}

// Registry resolves the string guard/action/content ids a Document declares
// into the opaque tree.GuardRef/tree.ContentRef values the core threads
// through to a host's GuardEvaluator/ContentExecutor.
type Registry struct {
	guards  map[string]tree.GuardRef
	content map[string]tree.ContentRef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{guards: make(map[string]tree.GuardRef), content: make(map[string]tree.ContentRef)}
}

// RegisterGuard binds a guard id to an opaque reference (typically a
// func(*scxml.Context, scxml.Event) bool).
func (r *Registry) RegisterGuard(id string, ref tree.GuardRef) { r.guards[id] = ref }

// RegisterContent binds an action/content id to an opaque reference
// (typically a func(*scxml.Context, scxml.Event) or ...error variant).
func (r *Registry) RegisterContent(id string, ref tree.ContentRef) { r.content[id] = ref }

// Validate checks structural invariants the builder itself doesn't catch
// until Build(): unique ids, a non-empty document, resolvable top-level
// initial state(s).
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if len(d.States) == 0 {
		return fmt.Errorf("document %q has no states", d.ID)
	}
	seen := make(map[string]bool)
	var walk func(s *StateDoc) error
	walk = func(s *StateDoc) error {
		if s.ID == "" {
			return fmt.Errorf("state with empty id in document %q", d.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate state id %q in document %q", s.ID, d.ID)
		}
		seen[s.ID] = true
		for _, c := range s.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range d.States {
		if err := walk(s); err != nil {
			return err
		}
	}
	for _, id := range d.Initial {
		if !seen[id] {
			return fmt.Errorf("initial state %q not declared in document %q", id, d.ID)
		}
	}
	return nil
}

// Compile resolves Document into an immutable tree.Tree via tree.Builder,
// generalizing the reference engine's flat-map MachineConfig into the
// arena's hierarchical node-kind set. Guard/action ids absent from registry
// compile to a nil GuardRef/ContentRef (identity guard / no-op content).
func (d *Document) Compile(registry *Registry) (*tree.Tree, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = NewRegistry()
	}

	b := tree.NewBuilder()
	root := b.Root()

	for _, s := range d.States {
		if err := addState(root, s, registry); err != nil {
			return nil, fmt.Errorf("state %q: %w", s.ID, err)
		}
	}
	root.Initial(d.Initial...)

	return b.Build()
}

func addState(parent *tree.Handle, s *StateDoc, registry *Registry) error {
	var h *tree.Handle
	switch s.Type {
	case TypeCompound, "":
		h = parent.Compound(s.ID)
	case TypeParallel:
		h = parent.Parallel(s.ID)
	case TypeAtomic:
		h = parent.Atomic(s.ID)
	case TypeFinal:
		h = parent.Final(s.ID)
	case TypeShallowHistory:
		h = parent.History(s.ID, tree.HistoryShallow)
	case TypeDeepHistory:
		h = parent.History(s.ID, tree.HistoryDeep)
	default:
		return fmt.Errorf("unknown state type %q", s.Type)
	}

	if s.Entry != "" {
		h.OnEntry(registry.content[s.Entry])
	}
	if s.Exit != "" {
		h.OnExit(registry.content[s.Exit])
	}

	for _, event := range sortedKeys(s.On) {
		for _, td := range s.On[event] {
			th := h.On(event, targetsOf(td)...)
			if td.Guard != "" {
				th.Guard(registry.guards[td.Guard])
			}
			if len(td.Actions) > 0 {
				th.Content(registry.content[td.Actions[0]])
			}
			if td.Internal {
				th.Internal()
			}
		}
	}

	for _, c := range s.Children {
		if err := addState(h, c, registry); err != nil {
			return err
		}
	}

	if len(s.Initial) > 0 {
		h.Initial(s.Initial...)
	}

	return nil
}

func targetsOf(td TransitionDoc) []string {
	if td.Target == "" {
		return nil
	}
	return []string{td.Target}
}

func sortedKeys(m map[string][]TransitionDoc) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
