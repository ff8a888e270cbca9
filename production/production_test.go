package production_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scxml "github.com/arcstate/scxml"
	"github.com/arcstate/scxml/production"
	"github.com/arcstate/scxml/tree"
)

func buildSimple(t *testing.T) *tree.Tree {
	t.Helper()
	b := tree.NewBuilder()
	root := b.Root()
	a := root.Compound("A")
	a.Atomic("a1")
	a.Atomic("a2")
	a.Initial("a1")
	root.Initial("A")
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

func TestJSONPersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := production.NewJSONPersister(dir)
	require.NoError(t, err)

	snap := scxml.Snapshot{MachineID: "m1", Configuration: []string{"A", "a1"}, IsRunning: true}
	require.NoError(t, p.Save(snap))

	got, err := p.Load("m1")
	require.NoError(t, err)
	assert.Equal(t, snap.Configuration, got.Configuration)
	assert.True(t, got.IsRunning)
}

func TestJSONPersisterLoadMissing(t *testing.T) {
	dir := t.TempDir()
	p, err := production.NewJSONPersister(dir)
	require.NoError(t, err)

	_, err = p.Load("missing")
	assert.True(t, os.IsNotExist(err) || err != nil)
}

func TestYAMLPersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := production.NewYAMLPersister(dir)
	require.NoError(t, err)

	snap := scxml.Snapshot{MachineID: "m2", Configuration: []string{"A", "a2"}}
	require.NoError(t, p.Save(snap))

	got, err := p.Load("m2")
	require.NoError(t, err)
	assert.Equal(t, snap.Configuration, got.Configuration)
}

func TestChannelPublisherForwardsEvents(t *testing.T) {
	ch := make(chan production.PublishedEvent, 1)
	pub := production.NewChannelPublisher(ch)

	require.NoError(t, pub.Publish(scxml.NewEvent("tick", nil), scxml.EventMeta{MachineID: "m"}))

	select {
	case got := <-ch:
		assert.Equal(t, "tick", got.Event.Name)
	default:
		t.Fatal("expected a forwarded event")
	}
}

func TestChannelPublisherDropsOnBackpressure(t *testing.T) {
	ch := make(chan production.PublishedEvent, 1)
	pub := production.NewChannelPublisher(ch)

	require.NoError(t, pub.Publish(scxml.NewEvent("first", nil), scxml.EventMeta{}))
	require.NoError(t, pub.Publish(scxml.NewEvent("dropped", nil), scxml.EventMeta{}))

	got := <-ch
	assert.Equal(t, "first", got.Event.Name)
}

func TestTreeVisualizerExportsDOTAndJSON(t *testing.T) {
	tr := buildSimple(t)
	interp := scxml.NewInterpreter(tr)
	interp.Start()

	vis := production.NewTreeVisualizer(tr, interp)

	dot, err := vis.ExportDOT()
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph Statechart")
	assert.Contains(t, dot, "a1")

	data, err := vis.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"active": true`)
}
