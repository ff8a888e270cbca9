// Package flat offers a trivial flat machine of sibling atomic states with
// plain "state + event -> target" transitions and identity on no match,
// built as a thin wrapper over the hierarchical core rather than a second
// execution engine.
package flat

import (
	"fmt"
	"sort"

	scxml "github.com/arcstate/scxml"
	"github.com/arcstate/scxml/tree"
)

// Transitions maps a source state id to its event-to-target table. A state
// absent from the map, or an event absent from its table, simply has no
// matching transition: Send leaves the machine in place.
type Transitions map[string]map[string]string

// Machine is a flat statechart: exactly one compound root with atomic
// children, each wired from Transitions. It is built once over an
// Interpreter and never needs the hierarchical API directly.
type Machine struct {
	interp      *scxml.Interpreter
	transitions Transitions
}

// New builds a Machine whose states are every id mentioned by initial or
// transitions (as a source or a target), wires each transition table entry
// as a same-level atomic-to-atomic transition, and returns it unstarted.
func New(initial string, transitions Transitions, opts ...scxml.Option) (*Machine, error) {
	if initial == "" {
		return nil, fmt.Errorf("flat: initial state id is required")
	}
	ids := map[string]bool{initial: true}
	for s, table := range transitions {
		ids[s] = true
		for _, target := range table {
			ids[target] = true
		}
	}

	names := make([]string, 0, len(ids))
	for id := range ids {
		names = append(names, id)
	}
	sort.Strings(names)

	b := tree.NewBuilder()
	root := b.Root()

	handles := make(map[string]*tree.Handle, len(names))
	for _, id := range names {
		handles[id] = root.Atomic(id)
	}
	for s, table := range transitions {
		eventNames := make([]string, 0, len(table))
		for event := range table {
			eventNames = append(eventNames, event)
		}
		sort.Strings(eventNames)
		for _, event := range eventNames {
			handles[s].On(event, table[event])
		}
	}
	root.Initial(initial)

	tr, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("flat: %w", err)
	}
	return &Machine{interp: scxml.NewInterpreter(tr, opts...), transitions: transitions}, nil
}

// Start enters the initial state.
func (m *Machine) Start() { m.interp.Start() }

// Value reports the current state id.
func (m *Machine) Value() string {
	cfg := m.interp.CurrentConfiguration()
	if len(cfg) == 0 {
		return ""
	}
	return cfg[0]
}

// Send fires event against the current state and returns the resulting
// value, the shape the XState-style "transition(state, event) -> {value}"
// convenience describes.
func (m *Machine) Send(event string) map[string]string {
	_ = m.interp.Send(scxml.NewEvent(event, nil))
	return map[string]string{"value": m.Value()}
}

// Transition is the pure "transition(state, event) -> {value}" lookup: it
// takes the source state explicitly rather than reading it off the shared
// Interpreter, so independent what-if evaluations from the same state don't
// have to be driven there first. A state absent from the table, or an event
// absent from its table, returns state unchanged.
func (m *Machine) Transition(state, event string) map[string]string {
	if table, ok := m.transitions[state]; ok {
		if target, ok := table[event]; ok {
			return map[string]string{"value": target}
		}
	}
	return map[string]string{"value": state}
}

// Interpreter exposes the underlying hierarchical Interpreter for callers
// that outgrow the flat convenience and want direct access (error sink,
// snapshotting, and so on).
func (m *Machine) Interpreter() *scxml.Interpreter { return m.interp }
