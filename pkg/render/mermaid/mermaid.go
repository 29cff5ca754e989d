// Package mermaid exports deployment diagrams as Mermaid flowcharts.
//
// Mermaid output trades Graphviz fidelity for portability: it renders
// natively in GitHub, GitLab and most Markdown viewers. Clusters become
// nested subgraphs, catalog shapes map to the nearest Mermaid node shape,
// and dashed or dotted edges use the dotted arrow.
//
// Node and subgraph IDs are assigned by insertion order (n0, n1, ... and
// c0, c1, ...). Topology IDs may contain any character, and Mermaid IDs
// must be distinct identifiers that never collide with keywords like end.
package mermaid

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/diagram/catalog"
)

// ToMermaid converts a diagram to Mermaid graph source.
func ToMermaid(d *diagram.Diagram) string {
	var b strings.Builder
	b.WriteString(frontMatter(d.Title))
	fmt.Fprintf(&b, "graph %s\n", direction(d.Direction))

	ids := newIDMap(d)
	writeScope(&b, d, ids, "", 1)

	for _, e := range d.Edges() {
		arrow := "-->"
		if e.Style == diagram.StyleDashed || e.Style == diagram.StyleDotted {
			arrow = "-.->"
		} else if e.Style == diagram.StyleBold {
			arrow = "==>"
		}
		label := ""
		if e.Label != "" {
			label = "|" + quote(e.Label) + "|"
		}
		fmt.Fprintf(&b, "  %s %s%s %s\n", ids.nodes[e.From], arrow, label, ids.nodes[e.To])
	}

	return b.String()
}

// frontMatter returns the YAML header carrying the title, or "" when the
// diagram has none.
func frontMatter(title string) string {
	if title == "" {
		return ""
	}
	out, err := yaml.Marshal(struct {
		Title string `yaml:"title"`
	}{title})
	if err != nil {
		return ""
	}
	return "---\n" + string(out) + "---\n"
}

// idMap holds the Mermaid identifiers of a diagram's nodes and clusters.
type idMap struct {
	nodes    map[string]string
	clusters map[string]string
}

func newIDMap(d *diagram.Diagram) idMap {
	m := idMap{
		nodes:    make(map[string]string, d.NodeCount()),
		clusters: make(map[string]string, d.ClusterCount()),
	}
	for i, n := range d.Nodes() {
		m.nodes[n.ID] = "n" + strconv.Itoa(i)
	}
	for i, c := range d.Clusters() {
		m.clusters[c.ID] = "c" + strconv.Itoa(i)
	}
	return m
}

func writeScope(b *strings.Builder, d *diagram.Diagram, ids idMap, clusterID string, level int) {
	indent := strings.Repeat("  ", level)
	for _, n := range d.NodesIn(clusterID) {
		open, close := shape(n.Kind)
		fmt.Fprintf(b, "%s%s%s%s%s\n", indent, ids.nodes[n.ID], open, quote(n.DisplayLabel()), close)
	}
	for _, c := range d.ChildClusters(clusterID) {
		fmt.Fprintf(b, "%ssubgraph %s[%s]\n", indent, ids.clusters[c.ID], quote(c.Label))
		writeScope(b, d, ids, c.ID, level+1)
		fmt.Fprintf(b, "%send\n", indent)
	}
}

func direction(dir diagram.Direction) string {
	if dir == "" {
		return string(diagram.TopToBottom)
	}
	return string(dir)
}

// shape maps a catalog kind's Graphviz shape to Mermaid delimiters.
func shape(kindKey string) (string, string) {
	k, ok := catalog.Lookup(kindKey)
	if !ok {
		return "[", "]"
	}
	switch k.Shape {
	case "cylinder":
		return "[(", ")]"
	case "ellipse", "egg":
		return "([", "])"
	case "hexagon":
		return "{{", "}}"
	case "octagon", "doubleoctagon":
		return "[[", "]]"
	case "invhouse", "cds":
		return "[/", "\\]"
	case "folder", "note", "tab":
		return ">", "]"
	default:
		return "[", "]"
	}
}

// quote wraps a label in double quotes, converting newlines to <br/>.
// Mermaid has no escape for '"' inside quoted labels, so it uses #quot;.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "\n", "<br/>")
	return `"` + s + `"`
}
