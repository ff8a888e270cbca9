package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderValidTree(t *testing.T) {
	b := NewBuilder()
	root := b.Root()
	root.Atomic("Green").On("TIMER", "Yellow")
	root.Atomic("Yellow").On("TIMER", "Red")
	root.Atomic("Red").On("TIMER", "Green")
	root.Initial("Green")

	tr, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 4, len(tr.Nodes)) // root + 3 atomics
}

func TestBuilderUnresolvedTarget(t *testing.T) {
	b := NewBuilder()
	root := b.Root()
	root.Atomic("idle").On("FETCH", "fetching")
	root.Initial("idle")

	_, err := b.Build()
	require.Error(t, err)
	var unresolved *UnresolvedTargetError
	assert.ErrorAs(t, err, &unresolved)
}

func TestBuilderCompoundRequiresInitial(t *testing.T) {
	b := NewBuilder()
	root := b.Root()
	a := root.Compound("A")
	a.Atomic("a1")
	root.Initial("A")
	// deliberately omit a.Initial(...)

	_, err := b.Build()
	require.Error(t, err)
	var invalid *InvalidTreeError
	assert.ErrorAs(t, err, &invalid)
}

func TestBuilderParallelDoesNotRequireInitial(t *testing.T) {
	b := NewBuilder()
	root := b.Root()
	p := root.Parallel("P")
	x := p.Compound("X")
	x.Atomic("x1")
	x.Initial("x1")
	y := p.Compound("Y")
	y.Atomic("y1")
	y.Initial("y1")
	// P itself is parallel: every region is simultaneously active, so it
	// deliberately has no Initial of its own.
	root.Initial("P")

	tr, err := b.Build()
	require.NoError(t, err, "parallel state must not require a default initial child")
	pID, ok := tr.Lookup("P")
	require.True(t, ok)
	assert.Nil(t, tr.Node(pID).InitialTransition)
}

func TestBuilderAtomicCannotHaveChildren(t *testing.T) {
	// Atomic/Final states never get Children appended by the builder API
	// itself (there is no AddChild equivalent exposed on an atomic handle),
	// so this exercises the invariant indirectly via a hand-assembled tree.
	b := NewBuilder()
	root := b.Root()
	leaf := root.Atomic("leaf")
	root.Initial("leaf")
	tr, err := b.Build()
	require.NoError(t, err)
	assert.Empty(t, tr.Node(leaf.ID()).Children)

	hand := &Tree{Root: 0, Nodes: []*Node{
		{Kind: KindRoot, Parent: NoID, Children: []ID{1}, InitialTransition: &Transition{Source: 0, Targets: []ID{1}}},
		{ID: "leaf", Kind: KindAtomic, Parent: 0, DocOrder: 1, Children: []ID{2}},
		{ID: "child", Kind: KindAtomic, Parent: 1, DocOrder: 2},
	}}
	var invalid *InvalidTreeError
	assert.ErrorAs(t, validate(hand), &invalid)
}

func TestBuilderHistoryAndFinal(t *testing.T) {
	b := NewBuilder()
	root := b.Root()
	c := root.Compound("C")
	c.Atomic("c1")
	c.Atomic("c2")
	c.History("hist", HistoryDeep).HistoryDefault("c1")
	c.Initial("c1")
	root.Final("done")
	root.Initial("C")

	tr, err := b.Build()
	require.NoError(t, err)

	histID, ok := tr.Lookup("hist")
	require.True(t, ok)
	assert.Equal(t, KindHistory, tr.Node(histID).Kind)
	assert.Equal(t, HistoryDeep, tr.Node(histID).HistoryKind)

	doneID, ok := tr.Lookup("done")
	require.True(t, ok)
	assert.Equal(t, KindFinal, tr.Node(doneID).Kind)
}
