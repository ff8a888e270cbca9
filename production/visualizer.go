package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	scxml "github.com/arcstate/scxml"
	"github.com/arcstate/scxml/tree"
)

// TreeVisualizer renders a Tree's shape and a running Interpreter's current
// configuration as Graphviz DOT or JSON, adapting the reference engine's
// config-driven DefaultVisualizer to the arena-backed tree.
type TreeVisualizer struct {
	tree   *tree.Tree
	interp *scxml.Interpreter
}

// NewTreeVisualizer builds a TreeVisualizer over t, highlighting whatever
// states interp currently reports active.
func NewTreeVisualizer(t *tree.Tree, interp *scxml.Interpreter) *TreeVisualizer {
	return &TreeVisualizer{tree: t, interp: interp}
}

func (v *TreeVisualizer) ExportDOT() (string, error) {
	active := make(map[string]bool)
	for _, id := range v.interp.CurrentConfiguration() {
		active[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n  rankdir=LR;\n  node [shape=box, fontsize=10, style=rounded];\n  edge [fontsize=9];\n")
	v.renderNode(&buf, v.tree.Root, active)
	v.renderEdges(&buf)
	buf.WriteString("}\n")
	return buf.String(), nil
}

func (v *TreeVisualizer) renderNode(buf *bytes.Buffer, id tree.ID, active map[string]bool) {
	n := v.tree.Node(id)
	if id == v.tree.Root {
		for _, c := range n.Children {
			v.renderNode(buf, c, active)
		}
		return
	}

	if len(n.Children) == 0 {
		style := ""
		if active[n.ID] {
			style = " style=filled fillcolor=lightgreen"
		}
		fmt.Fprintf(buf, "  %q [label=%q%s];\n", n.ID, fmt.Sprintf("%s (%s)", n.ID, n.Kind), style)
		return
	}

	style := ""
	if active[n.ID] {
		style = " style=filled fillcolor=orange"
	}
	fmt.Fprintf(buf, "  subgraph cluster_%s {\n    label=%q%s;\n", n.ID, fmt.Sprintf("%s (%s)", n.ID, n.Kind), style)
	fmt.Fprintf(buf, "    %q [label=%q shape=ellipse%s];\n", n.ID, n.ID, style)
	for _, c := range n.Children {
		v.renderNode(buf, c, active)
	}
	buf.WriteString("  }\n")
}

func (v *TreeVisualizer) renderEdges(buf *bytes.Buffer) {
	for _, n := range v.tree.Nodes {
		for _, tr := range n.Transitions {
			label := tr.Event
			if label == "" {
				label = "ε"
			}
			for _, tgt := range tr.Targets {
				fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", n.ID, v.tree.Node(tgt).ID, label)
			}
		}
	}
}

// ExportJSON serializes the current configuration alongside every state id
// in the tree, document-order first.
func (v *TreeVisualizer) ExportJSON() ([]byte, error) {
	type stateEntry struct {
		ID     string `json:"id"`
		Kind   string `json:"kind"`
		Active bool   `json:"active"`
	}
	active := make(map[string]bool)
	for _, id := range v.interp.CurrentConfiguration() {
		active[id] = true
	}

	var out []stateEntry
	for _, n := range v.tree.Nodes {
		if n.ID == "" {
			continue
		}
		out = append(out, stateEntry{ID: n.ID, Kind: n.Kind.String(), Active: active[n.ID]})
	}
	return json.MarshalIndent(out, "", "  ")
}
