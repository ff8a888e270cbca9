package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcstate/scxml/tree"
)

func buildParallel(t *testing.T) (*tree.Tree, map[string]tree.ID) {
	t.Helper()
	b := tree.NewBuilder()
	root := b.Root()
	p := root.Parallel("P")
	x := p.Compound("X")
	x.Atomic("x1")
	x.Atomic("x2")
	x.Initial("x1")
	y := p.Compound("Y")
	y.Atomic("y1")
	y.Atomic("y2")
	y.Initial("y1")
	p.Initial("X", "Y")
	root.Initial("P")

	tr, err := b.Build()
	require.NoError(t, err)

	ids := map[string]tree.ID{}
	for _, n := range tr.Nodes {
		if n.ID != "" {
			id, _ := tr.Lookup(n.ID)
			ids[n.ID] = id
		}
	}
	return tr, ids
}

func TestEntrySetParallelEntersBothRegions(t *testing.T) {
	tr, ids := buildParallel(t)

	initial := tr.Node(tr.Root).InitialTransition
	res := EntrySet(tr, []*tree.Transition{initial}, nil)

	for _, want := range []string{"P", "X", "x1", "Y", "y1"} {
		assert.True(t, res.StatesToEnter.Has(ids[want]), "expected %s in entry set", want)
	}
}

func TestExitSetParallelRegionOnly(t *testing.T) {
	tr, ids := buildParallel(t)

	config := tree.NewOrderedSet()
	for _, s := range []string{"P", "X", "x1", "Y", "y1"} {
		config.Add(ids[s])
	}

	// x1 --e--> x2 stays within X; exit set should be just x1.
	trn := &tree.Transition{Source: ids["x1"], Kind: tree.External, Targets: []tree.ID{ids["x2"]}}
	exitSet := ExitSet(tr, config, []*tree.Transition{trn})

	assert.True(t, exitSet.Has(ids["x1"]))
	assert.False(t, exitSet.Has(ids["y1"]), "Y region must be untouched")
	assert.False(t, exitSet.Has(ids["P"]))
}
