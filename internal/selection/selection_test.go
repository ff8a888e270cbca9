package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcstate/scxml/tree"
)

// buildChain builds Root{ A compound{ B compound{ b1 atomic } } } with
// transitions at every level on "e", plus an eventless transition on B, so
// the outward walk from b1 has a candidate at each ancestor to pick from.
func buildChain(t *testing.T) (*tree.Tree, map[string]tree.ID) {
	t.Helper()
	b := tree.NewBuilder()
	root := b.Root()
	a := root.Compound("A")
	bb := a.Compound("B")
	bb.Atomic("b1")
	bb.Initial("b1")
	a.Initial("B")
	root.Atomic("sibling")
	root.Initial("A")

	root.On("e", "sibling")
	a.On("e", "sibling")
	bb.On("") // eventless, targetless

	tr, err := b.Build()
	require.NoError(t, err)

	ids := make(map[string]tree.ID)
	for _, name := range []string{"A", "B", "b1", "sibling"} {
		id, ok := tr.Lookup(name)
		require.True(t, ok, name)
		ids[name] = id
	}
	return tr, ids
}

func TestTransitionsPicksNearestAncestorMatch(t *testing.T) {
	tr, ids := buildChain(t)

	got := Transitions(tr, []tree.ID{ids["b1"]}, "e", nil)
	require.Len(t, got, 1)
	// b1 itself has no "e" transition, B has no "e" transition, A does:
	// the walk must stop at the first ancestor carrying a match.
	assert.Equal(t, ids["A"], got[0].Source)
}

func TestTransitionsStopsAtNearestEvenWhenFartherAncestorAlsoMatches(t *testing.T) {
	tr, ids := buildChain(t)

	// Root also has an "e" transition, but A's must win since A is nearer.
	got := Transitions(tr, []tree.ID{ids["b1"]}, "e", nil)
	require.Len(t, got, 1)
	assert.NotEqual(t, tr.Root, got[0].Source)
}

func TestTransitionsHonorsGuardFallthrough(t *testing.T) {
	tr, ids := buildChain(t)

	// A guard that always fails on A's transition forces the walk past A
	// up to Root's "e" transition instead.
	guard := func(tr *tree.Transition) bool {
		return tr.Source != ids["A"]
	}
	got := Transitions(tr, []tree.ID{ids["b1"]}, "e", guard)
	require.Len(t, got, 1)
	assert.Equal(t, tr.Root, got[0].Source)
}

func TestTransitionsNoMatchReturnsEmpty(t *testing.T) {
	tr, ids := buildChain(t)

	got := Transitions(tr, []tree.ID{ids["b1"]}, "nonexistent", nil)
	assert.Empty(t, got)
}

func TestEventlessMatchesOnlyTargetlessEventlessTransition(t *testing.T) {
	tr, ids := buildChain(t)

	got := Eventless(tr, []tree.ID{ids["b1"]}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, ids["B"], got[0].Source)
	assert.False(t, got[0].HasTargets())
}

func TestTransitionsAcrossMultipleAtomicStates(t *testing.T) {
	tr, ids := buildChain(t)

	got := Transitions(tr, []tree.ID{ids["b1"], ids["sibling"]}, "e", nil)
	require.Len(t, got, 2)
	assert.Equal(t, ids["A"], got[0].Source)
	assert.Equal(t, tr.Root, got[1].Source)
}
