package topology

import (
	"github.com/matzehuels/deployview/pkg/diagram"
)

// Document is the serialization format for deployment topologies.
// The same structure is written as JSON, TOML and YAML, and stored as BSON
// by the MongoDB artifact store.
//
// Clusters are listed flat; nesting is expressed with Parent. A cluster must
// appear after its parent and a node after its cluster.
type Document struct {
	Name       string            `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Title      string            `json:"title" toml:"title" yaml:"title" bson:"title"`
	Filename   string            `json:"filename,omitempty" toml:"filename,omitempty" yaml:"filename,omitempty" bson:"filename,omitempty"`
	Direction  string            `json:"direction,omitempty" toml:"direction,omitempty" yaml:"direction,omitempty" bson:"direction,omitempty"`
	Formats    []string          `json:"formats,omitempty" toml:"formats,omitempty" yaml:"formats,omitempty" bson:"formats,omitempty"`
	GraphAttrs map[string]string `json:"graph_attrs,omitempty" toml:"graph_attrs,omitempty" yaml:"graph_attrs,omitempty" bson:"graph_attrs,omitempty"`
	NodeAttrs  map[string]string `json:"node_attrs,omitempty" toml:"node_attrs,omitempty" yaml:"node_attrs,omitempty" bson:"node_attrs,omitempty"`
	EdgeAttrs  map[string]string `json:"edge_attrs,omitempty" toml:"edge_attrs,omitempty" yaml:"edge_attrs,omitempty" bson:"edge_attrs,omitempty"`
	Clusters   []Cluster         `json:"clusters,omitempty" toml:"clusters,omitempty" yaml:"clusters,omitempty" bson:"clusters,omitempty"`
	Nodes      []Node            `json:"nodes" toml:"nodes" yaml:"nodes" bson:"nodes"`
	Edges      []Edge            `json:"edges" toml:"edges" yaml:"edges" bson:"edges"`
}

// Cluster is a serialized visual grouping.
type Cluster struct {
	ID     string            `json:"id" toml:"id" yaml:"id" bson:"id"`
	Label  string            `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Parent string            `json:"parent,omitempty" toml:"parent,omitempty" yaml:"parent,omitempty" bson:"parent,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty" toml:"attrs,omitempty" yaml:"attrs,omitempty" bson:"attrs,omitempty"`
}

// Node is a serialized diagram node.
type Node struct {
	ID      string            `json:"id" toml:"id" yaml:"id" bson:"id"`
	Label   string            `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Kind    string            `json:"kind" toml:"kind" yaml:"kind" bson:"kind"`
	Cluster string            `json:"cluster,omitempty" toml:"cluster,omitempty" yaml:"cluster,omitempty" bson:"cluster,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty" toml:"attrs,omitempty" yaml:"attrs,omitempty" bson:"attrs,omitempty"`
}

// Edge is a serialized directed edge.
type Edge struct {
	From  string            `json:"from" toml:"from" yaml:"from" bson:"from"`
	To    string            `json:"to" toml:"to" yaml:"to" bson:"to"`
	Label string            `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Color string            `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty" bson:"color,omitempty"`
	Style string            `json:"style,omitempty" toml:"style,omitempty" yaml:"style,omitempty" bson:"style,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" toml:"attrs,omitempty" yaml:"attrs,omitempty" bson:"attrs,omitempty"`
}

// FromDiagram converts a diagram to its serialization format.
// Element order is preserved.
func FromDiagram(d *diagram.Diagram) Document {
	doc := Document{
		Name:       d.Name,
		Title:      d.Title,
		Filename:   d.Filename,
		Direction:  string(d.Direction),
		Formats:    d.OutFormats,
		GraphAttrs: d.GraphAttrs,
		NodeAttrs:  d.NodeAttrs,
		EdgeAttrs:  d.EdgeAttrs,
		Nodes:      make([]Node, 0, d.NodeCount()),
		Edges:      make([]Edge, 0, d.EdgeCount()),
	}
	for _, c := range d.Clusters() {
		doc.Clusters = append(doc.Clusters, Cluster{ID: c.ID, Label: c.Label, Parent: c.Parent, Attrs: c.Attrs})
	}
	for _, n := range d.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID, Label: n.Label, Kind: n.Kind, Cluster: n.Cluster, Attrs: n.Attrs})
	}
	for _, e := range d.Edges() {
		doc.Edges = append(doc.Edges, Edge{From: e.From, To: e.To, Label: e.Label, Color: e.Color, Style: e.Style, Attrs: e.Attrs})
	}
	return doc
}

// ToDiagram builds and validates a diagram from the document.
//
// Missing optional fields take the diagram defaults: direction TB, format
// png and a filename derived from the title. Element errors are wrapped
// with the offending node, cluster or edge.
func (doc Document) ToDiagram() (*diagram.Diagram, error) {
	opts := []diagram.Option{
		diagram.WithName(doc.Name),
		diagram.WithGraphAttrs(doc.GraphAttrs),
		diagram.WithNodeAttrs(doc.NodeAttrs),
		diagram.WithEdgeAttrs(doc.EdgeAttrs),
	}
	if doc.Filename != "" {
		opts = append(opts, diagram.WithFilename(doc.Filename))
	}
	if doc.Direction != "" {
		opts = append(opts, diagram.WithDirection(diagram.Direction(doc.Direction)))
	}
	if len(doc.Formats) > 0 {
		opts = append(opts, diagram.WithOutFormats(doc.Formats...))
	}
	d := diagram.New(doc.Title, opts...)

	for _, c := range doc.Clusters {
		if err := d.AddCluster(diagram.Cluster{ID: c.ID, Label: c.Label, Parent: c.Parent, Attrs: c.Attrs}); err != nil {
			return nil, invalid(err, "cluster %s", c.ID)
		}
	}
	for _, n := range doc.Nodes {
		if err := d.AddNode(diagram.Node{ID: n.ID, Label: n.Label, Kind: n.Kind, Cluster: n.Cluster, Attrs: n.Attrs}); err != nil {
			return nil, invalid(err, "node %s", n.ID)
		}
	}
	for _, e := range doc.Edges {
		edge := diagram.Edge{From: e.From, To: e.To, Label: e.Label, Color: e.Color, Style: e.Style, Attrs: e.Attrs}
		if err := d.AddEdge(edge); err != nil {
			return nil, invalid(err, "edge %s->%s", e.From, e.To)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, invalid(err, "topology %q", doc.Title)
	}
	return d, nil
}
