package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/diagram/catalog"
)

// ToDOT converts a diagram to Graphviz DOT source.
//
// Attributes are layered: package defaults, then the diagram's own
// graph/node/edge attributes, then per-kind and per-element overrides.
// Clusters become "cluster_<id>" subgraphs so Graphviz draws a box around
// them; their background color depends on nesting depth.
//
// The diagram should be validated first. Nodes with an unknown kind are
// drawn with the node defaults.
func ToDOT(d *diagram.Diagram) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "digraph %q {\n", graphName(d))

	graph := diagram.DefaultGraphAttrs().Merge(d.GraphAttrs)
	graph["label"] = d.Title
	graph["rankdir"] = string(d.Direction)
	fmt.Fprintf(&buf, "  graph [%s];\n", fmtAttrs(graph))
	fmt.Fprintf(&buf, "  node [%s];\n", fmtAttrs(diagram.DefaultNodeAttrs().Merge(d.NodeAttrs)))
	fmt.Fprintf(&buf, "  edge [%s];\n", fmtAttrs(diagram.DefaultEdgeAttrs().Merge(d.EdgeAttrs)))
	buf.WriteString("\n")

	writeScope(&buf, d, "", 1)

	edges := d.Edges()
	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, fmtAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func graphName(d *diagram.Diagram) string {
	if d.Name != "" {
		return d.Name
	}
	return "G"
}

// writeScope emits the nodes of one cluster (or the top level) followed by
// its child clusters, recursively.
func writeScope(buf *bytes.Buffer, d *diagram.Diagram, clusterID string, level int) {
	indent := strings.Repeat("  ", level)

	for _, n := range d.NodesIn(clusterID) {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, fmtAttrs(nodeAttrs(n)))
	}

	for _, c := range d.ChildClusters(clusterID) {
		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+c.ID)
		attrs := diagram.DefaultClusterAttrs()
		attrs["bgcolor"] = diagram.ClusterBackground(d.Depth(c.ID))
		attrs["label"] = c.Label
		attrs = attrs.Merge(c.Attrs)
		fmt.Fprintf(buf, "%s  graph [%s];\n", indent, fmtAttrs(attrs))
		writeScope(buf, d, c.ID, level+1)
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

func nodeAttrs(n *diagram.Node) diagram.Attrs {
	attrs := diagram.Attrs{}
	if k, ok := catalog.Lookup(n.Kind); ok {
		attrs = attrs.Merge(k.Attrs())
	}
	attrs["label"] = n.DisplayLabel()
	return attrs.Merge(n.Attrs)
}

func edgeAttrs(e diagram.Edge) diagram.Attrs {
	attrs := diagram.Attrs{}
	if e.Label != "" {
		attrs["label"] = e.Label
	}
	if e.Color != "" {
		attrs["color"] = e.Color
	}
	if e.Style != "" {
		attrs["style"] = e.Style
	}
	return attrs.Merge(e.Attrs)
}

// fmtAttrs formats attributes as a sorted, quoted DOT attribute list.
// Newlines in values become DOT "\n" line breaks.
func fmtAttrs(a diagram.Attrs) string {
	parts := make([]string, 0, len(a))
	for _, k := range a.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%q", k, a[k]))
	}
	return strings.Join(parts, ", ")
}
