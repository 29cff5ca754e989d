package diagram

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/deployview/pkg/diagram/catalog"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidClusterID is returned by [Diagram.AddCluster] when the cluster
	// ID is empty.
	ErrInvalidClusterID = errors.New("cluster ID must not be empty")

	// ErrDuplicateClusterID is returned by [Diagram.AddCluster] when a cluster
	// with the same ID already exists.
	ErrDuplicateClusterID = errors.New("duplicate cluster ID")

	// ErrUnknownCluster is returned when a node or cluster names a parent
	// cluster that does not exist.
	ErrUnknownCluster = errors.New("unknown cluster")

	// ErrClusterCycle is returned by [Diagram.Validate] when cluster parents
	// form a loop.
	ErrClusterCycle = errors.New("cluster nesting contains a cycle")

	// ErrUnknownKind is returned when a node kind is not in the catalog.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrUnknownSourceNode is returned by [Diagram.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Diagram.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Diagram.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrInvalidDirection is returned for layout directions other than
	// TB, BT, LR and RL.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrInvalidFormat is returned for unsupported output formats.
	ErrInvalidFormat = errors.New("invalid output format")
)

// Direction is the Graphviz rank direction of a diagram.
type Direction string

// Supported layout directions.
const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// Valid reports whether d is one of the four Graphviz rank directions.
func (d Direction) Valid() bool {
	switch d {
	case TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return true
	}
	return false
}

// Output formats.
const (
	FormatPNG     = "png"
	FormatJPG     = "jpg"
	FormatSVG     = "svg"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// Formats lists every supported output format.
var Formats = []string{FormatPNG, FormatJPG, FormatSVG, FormatPDF, FormatDOT, FormatMermaid}

// IsFormat reports whether f is a supported output format.
func IsFormat(f string) bool { return slices.Contains(Formats, f) }

// Edge styles.
const (
	StyleSolid  = "solid"
	StyleDashed = "dashed"
	StyleDotted = "dotted"
	StyleBold   = "bold"
)

// Attrs holds Graphviz attributes. A nil Attrs behaves as empty.
type Attrs map[string]string

// Merge returns a new map with the entries of a overridden by those of other.
func (a Attrs) Merge(other Attrs) Attrs {
	out := make(Attrs, len(a)+len(other))
	maps.Copy(out, a)
	maps.Copy(out, other)
	return out
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string { return slices.Sorted(maps.Keys(a)) }

// Node is a labeled element drawn with a catalog kind.
type Node struct {
	ID      string // Unique identifier, used in DOT output
	Label   string // Display label; may contain newlines
	Kind    string // Catalog key, e.g. "k8s.compute.Pod"
	Cluster string // Enclosing cluster ID; empty for top level
	Attrs   Attrs  // Per-node attribute overrides
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Cluster is a visual grouping of nodes and nested clusters.
type Cluster struct {
	ID     string
	Label  string
	Parent string // Enclosing cluster ID; empty for top level
	Attrs  Attrs
}

// Edge is a directed connection between two nodes.
//
// When passed to [Diagram.Connect] only the presentation fields (Label,
// Color, Style, Attrs) are used; From and To are filled in per target.
type Edge struct {
	From  string
	To    string
	Label string
	Color string
	Style string
	Attrs Attrs
}

func (e Edge) key() string {
	var b strings.Builder
	b.WriteString(e.From + "\x00" + e.To + "\x00" + e.Label + "\x00" + e.Color + "\x00" + e.Style)
	for _, k := range e.Attrs.Keys() {
		b.WriteString("\x00" + k + "=" + e.Attrs[k])
	}
	return b.String()
}

// Diagram is a deployment topology: nodes grouped into clusters and joined
// by directed edges, plus the presentation settings used to render it.
//
// Insertion order of nodes, clusters and edges is preserved so rendering
// is deterministic. The zero value is not usable; create diagrams with [New].
// Diagram is not safe for concurrent mutation.
type Diagram struct {
	Name       string    // Registry or file name; optional
	Title      string    // Graph label drawn on the image
	Filename   string    // Output path without extension
	Direction  Direction // Rank direction
	OutFormats []string  // Formats produced by a default render
	GraphAttrs Attrs
	NodeAttrs  Attrs
	EdgeAttrs  Attrs

	nodes     []*Node
	nodeIdx   map[string]*Node
	clusters  []*Cluster
	clusIdx   map[string]*Cluster
	edges     []Edge
	edgeSeen  map[string]struct{}
	buildErrs []error
	ids       map[string]int
}

// Option configures a [Diagram] created by [New].
type Option func(*Diagram)

// WithName sets the diagram's registry name.
func WithName(name string) Option { return func(d *Diagram) { d.Name = name } }

// WithFilename sets the output path (without extension).
func WithFilename(path string) Option { return func(d *Diagram) { d.Filename = path } }

// WithDirection sets the rank direction.
func WithDirection(dir Direction) Option { return func(d *Diagram) { d.Direction = dir } }

// WithOutFormats sets the formats produced by a default render.
func WithOutFormats(formats ...string) Option {
	return func(d *Diagram) { d.OutFormats = slices.Clone(formats) }
}

// WithGraphAttrs sets graph attributes, overriding the defaults.
func WithGraphAttrs(a Attrs) Option { return func(d *Diagram) { d.GraphAttrs = a } }

// WithNodeAttrs sets node attributes, overriding the defaults.
func WithNodeAttrs(a Attrs) Option { return func(d *Diagram) { d.NodeAttrs = a } }

// WithEdgeAttrs sets edge attributes, overriding the defaults.
func WithEdgeAttrs(a Attrs) Option { return func(d *Diagram) { d.EdgeAttrs = a } }

// New creates an empty diagram titled title.
//
// Unless overridden by options, the direction is top-to-bottom, the output
// format is PNG and the filename is derived from the title with
// [DefaultFilename].
func New(title string, opts ...Option) *Diagram {
	d := &Diagram{
		Title:      title,
		Direction:  TopToBottom,
		OutFormats: []string{FormatPNG},
		nodeIdx:    make(map[string]*Node),
		clusIdx:    make(map[string]*Cluster),
		edgeSeen:   make(map[string]struct{}),
		ids:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.Filename == "" {
		d.Filename = DefaultFilename(title)
	}
	return d
}

// DefaultFilename derives an output filename from a title: whitespace runs
// become underscores and the result is lower-cased. An empty title yields
// "diagrams_image".
func DefaultFilename(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return "diagrams_image"
	}
	return strings.ToLower(strings.Join(fields, "_"))
}

// AddNode adds a node to the diagram.
//
// Returns ErrInvalidNodeID for an empty ID, ErrDuplicateNodeID if the ID is
// taken, ErrUnknownCluster if n.Cluster names a missing cluster, or
// ErrUnknownKind if n.Kind is not in the catalog.
func (d *Diagram) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodeIdx[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	if n.Cluster != "" {
		if _, ok := d.clusIdx[n.Cluster]; !ok {
			return fmt.Errorf("%w: %q (node %q)", ErrUnknownCluster, n.Cluster, n.ID)
		}
	}
	if _, ok := catalog.Lookup(n.Kind); !ok {
		return fmt.Errorf("%w: %q (node %q)", ErrUnknownKind, n.Kind, n.ID)
	}
	node := &n
	d.nodes = append(d.nodes, node)
	d.nodeIdx[n.ID] = node
	d.ids[n.ID]++
	return nil
}

// AddCluster adds a cluster. A parent, if set, must already exist.
func (d *Diagram) AddCluster(c Cluster) error {
	if c.ID == "" {
		return ErrInvalidClusterID
	}
	if _, exists := d.clusIdx[c.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateClusterID, c.ID)
	}
	if c.Parent != "" {
		if _, ok := d.clusIdx[c.Parent]; !ok {
			return fmt.Errorf("%w: %q (cluster %q)", ErrUnknownCluster, c.Parent, c.ID)
		}
	}
	cl := &c
	d.clusters = append(d.clusters, cl)
	d.clusIdx[c.ID] = cl
	d.ids[c.ID]++
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
//
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing. An edge identical to one already present (same endpoints and
// attributes) is ignored.
func (d *Diagram) AddEdge(e Edge) error {
	if _, ok := d.nodeIdx[e.From]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSourceNode, e.From)
	}
	if _, ok := d.nodeIdx[e.To]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTargetNode, e.To)
	}
	k := e.key()
	if _, dup := d.edgeSeen[k]; dup {
		return nil
	}
	d.edgeSeen[k] = struct{}{}
	d.edges = append(d.edges, e)
	return nil
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// diagram's own nodes.
func (d *Diagram) Nodes() []*Node { return slices.Clone(d.nodes) }

// Clusters returns all clusters in insertion order.
func (d *Diagram) Clusters() []*Cluster { return slices.Clone(d.clusters) }

// Edges returns a copy of all edges in insertion order.
func (d *Diagram) Edges() []Edge { return slices.Clone(d.edges) }

// Node looks up a node by ID.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.nodeIdx[id]
	return n, ok
}

// Cluster looks up a cluster by ID.
func (d *Diagram) Cluster(id string) (*Cluster, bool) {
	c, ok := d.clusIdx[id]
	return c, ok
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// ClusterCount returns the number of clusters.
func (d *Diagram) ClusterCount() int { return len(d.clusters) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// NodesIn returns the nodes directly inside clusterID, in insertion order.
// An empty clusterID selects top-level nodes.
func (d *Diagram) NodesIn(clusterID string) []*Node {
	var out []*Node
	for _, n := range d.nodes {
		if n.Cluster == clusterID {
			out = append(out, n)
		}
	}
	return out
}

// ChildClusters returns the clusters directly inside clusterID.
// An empty clusterID selects top-level clusters.
func (d *Diagram) ChildClusters(clusterID string) []*Cluster {
	var out []*Cluster
	for _, c := range d.clusters {
		if c.Parent == clusterID {
			out = append(out, c)
		}
	}
	return out
}

// Depth returns the nesting depth of a cluster: 0 for top-level clusters.
// Unknown clusters report -1.
func (d *Diagram) Depth(clusterID string) int {
	c, ok := d.clusIdx[clusterID]
	if !ok {
		return -1
	}
	depth := 0
	for c.Parent != "" && depth <= len(d.clusters) {
		c = d.clusIdx[c.Parent]
		if c == nil {
			break
		}
		depth++
	}
	return depth
}

// Err returns the errors collected by builder calls, joined.
func (d *Diagram) Err() error { return errors.Join(d.buildErrs...) }

// Validate checks the structural integrity of the diagram.
//
// It verifies that builder calls succeeded, that every edge references
// nodes that exist, that node kinds and parent clusters resolve, that
// cluster nesting is acyclic, and that the direction and output formats are
// supported.
func (d *Diagram) Validate() error {
	if err := d.Err(); err != nil {
		return err
	}
	if !d.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, d.Direction)
	}
	for _, f := range d.OutFormats {
		if !IsFormat(f) {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, f)
		}
	}
	for _, n := range d.nodes {
		if _, ok := catalog.Lookup(n.Kind); !ok {
			return fmt.Errorf("%w: %q (node %q)", ErrUnknownKind, n.Kind, n.ID)
		}
		if n.Cluster != "" {
			if _, ok := d.clusIdx[n.Cluster]; !ok {
				return fmt.Errorf("%w: %q (node %q)", ErrUnknownCluster, n.Cluster, n.ID)
			}
		}
	}
	if err := d.validateClusters(); err != nil {
		return err
	}
	for _, e := range d.edges {
		_, okS := d.nodeIdx[e.From]
		_, okD := d.nodeIdx[e.To]
		if !okS || !okD {
			return fmt.Errorf("%w: %q -> %q", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
	}
	return nil
}

func (d *Diagram) validateClusters() error {
	for _, c := range d.clusters {
		seen := map[string]bool{c.ID: true}
		for p := c.Parent; p != ""; {
			parent, ok := d.clusIdx[p]
			if !ok {
				return fmt.Errorf("%w: %q (cluster %q)", ErrUnknownCluster, p, c.ID)
			}
			if seen[p] {
				return fmt.Errorf("%w: %q", ErrClusterCycle, c.ID)
			}
			seen[p] = true
			p = parent.Parent
		}
	}
	return nil
}
