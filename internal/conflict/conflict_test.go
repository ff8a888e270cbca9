package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcstate/scxml/tree"
)

// buildParallelConflict builds Root { P parallel { X compound{x1 --e--> x2};
// Y compound{y1 --e--> y2} } } plus an ancestor-sourced transition from P
// itself on the same event targeting a state outside the parallel region,
// so the two transitions' exit sets intersect.
func buildParallelConflict(t *testing.T) (*tree.Tree, map[string]tree.ID) {
	t.Helper()
	b := tree.NewBuilder()
	root := b.Root()
	p := root.Parallel("P")
	x := p.Compound("X")
	x.Atomic("x1").On("e", "x2")
	x.Atomic("x2")
	x.Initial("x1")
	y := p.Compound("Y")
	y.Atomic("y1").On("e", "y2")
	y.Atomic("y2")
	y.Initial("y1")
	root.Atomic("Done")
	p.On("e", "Done")
	root.Initial("P")

	tr, err := b.Build()
	require.NoError(t, err)

	ids := make(map[string]tree.ID)
	for _, name := range []string{"P", "X", "x1", "x2", "Y", "y1", "y2", "Done"} {
		id, ok := tr.Lookup(name)
		require.True(t, ok, name)
		ids[name] = id
	}
	return tr, ids
}

func findOn(t *tree.Tree, source tree.ID, event string) *tree.Transition {
	for _, tr := range t.Node(source).Transitions {
		if tr.Event == event {
			return tr
		}
	}
	return nil
}

func TestResolveAcceptedDescendantSourcePreemptsLaterAncestor(t *testing.T) {
	tr, ids := buildParallelConflict(t)
	config := tree.NewOrderedSet()
	config.Add(ids["x1"])
	config.Add(ids["y1"])

	regionTr := findOn(tr, ids["x1"], "e")
	ancestorTr := findOn(tr, ids["P"], "e")
	require.NotNil(t, regionTr)
	require.NotNil(t, ancestorTr)

	// region (descendant) transition is selected before the ancestor one.
	enabled := []*tree.Transition{regionTr, ancestorTr}
	got := Resolve(tr, config, enabled)

	assert.Equal(t, []*tree.Transition{regionTr}, got,
		"an already-accepted descendant-source transition must preempt a later conflicting ancestor-source one")
}

func TestResolveDescendantSourceRemovesAlreadyAcceptedAncestor(t *testing.T) {
	tr, ids := buildParallelConflict(t)
	config := tree.NewOrderedSet()
	config.Add(ids["x1"])
	config.Add(ids["y1"])

	regionTr := findOn(tr, ids["x1"], "e")
	ancestorTr := findOn(tr, ids["P"], "e")
	require.NotNil(t, regionTr)
	require.NotNil(t, ancestorTr)

	// ancestor transition is selected (and provisionally accepted) first.
	enabled := []*tree.Transition{ancestorTr, regionTr}
	got := Resolve(tr, config, enabled)

	assert.Equal(t, []*tree.Transition{regionTr}, got,
		"a later descendant-source transition must evict an already-accepted conflicting ancestor-source one")
}

func TestResolveNonConflictingRegionsBothSurvive(t *testing.T) {
	tr, ids := buildParallelConflict(t)
	config := tree.NewOrderedSet()
	config.Add(ids["x1"])
	config.Add(ids["y1"])

	xTr := findOn(tr, ids["x1"], "e")
	yTr := findOn(tr, ids["y1"], "e")
	require.NotNil(t, xTr)
	require.NotNil(t, yTr)

	got := Resolve(tr, config, []*tree.Transition{xTr, yTr})

	assert.ElementsMatch(t, []*tree.Transition{xTr, yTr}, got,
		"transitions confined to disjoint parallel regions do not conflict")
}
