package diagram

import (
	"strconv"
	"strings"
	"unicode"
)

// Scope adds nodes and clusters at one level of cluster nesting.
//
// Scopes let a topology be written as a flat, linear sequence of
// declarations. Builder methods never return errors; failures are recorded
// on the diagram and surface from [Diagram.Err] and [Diagram.Validate].
type Scope struct {
	d       *Diagram
	cluster string
}

// Root returns the top-level scope of the diagram.
func (d *Diagram) Root() *Scope { return &Scope{d: d} }

// Diagram returns the diagram the scope belongs to.
func (s *Scope) Diagram() *Diagram { return s.d }

// ClusterID returns the ID of the cluster the scope adds to, or "" at top level.
func (s *Scope) ClusterID() string { return s.cluster }

// Node adds a node of the given catalog kind and returns its generated ID.
// The ID is derived from the first line of the label and made unique.
func (s *Scope) Node(kind, label string) string {
	id := s.d.uniqueID(slug(label, "node"))
	s.d.record(s.d.AddNode(Node{ID: id, Label: label, Kind: kind, Cluster: s.cluster}))
	return id
}

// NodeWithAttrs is like [Scope.Node] with per-node attribute overrides.
func (s *Scope) NodeWithAttrs(kind, label string, attrs Attrs) string {
	id := s.d.uniqueID(slug(label, "node"))
	s.d.record(s.d.AddNode(Node{ID: id, Label: label, Kind: kind, Cluster: s.cluster, Attrs: attrs}))
	return id
}

// Cluster adds a nested cluster labeled label and calls fn with a scope
// for its contents. It returns the cluster ID.
func (s *Scope) Cluster(label string, fn func(*Scope)) string {
	id := s.d.uniqueID(slug(label, "cluster"))
	if err := s.d.AddCluster(Cluster{ID: id, Label: label, Parent: s.cluster}); err != nil {
		s.d.record(err)
		return id
	}
	if fn != nil {
		fn(&Scope{d: s.d, cluster: id})
	}
	return id
}

// Connect draws an edge from from to each target using the presentation
// fields of attrs. With no targets it does nothing.
func (d *Diagram) Connect(from string, attrs Edge, to ...string) {
	for _, t := range to {
		e := attrs
		e.From, e.To = from, t
		d.record(d.AddEdge(e))
	}
}

// Chain draws plain edges between consecutive nodes: a→b, b→c, ...
func (d *Diagram) Chain(ids ...string) {
	for i := 1; i < len(ids); i++ {
		d.record(d.AddEdge(Edge{From: ids[i-1], To: ids[i]}))
	}
}

func (d *Diagram) record(err error) {
	if err != nil {
		d.buildErrs = append(d.buildErrs, err)
	}
}

// uniqueID returns base, or base_N for the first N ≥ 2 that is free.
func (d *Diagram) uniqueID(base string) string {
	if d.ids[base] == 0 {
		return base
	}
	for i := 2; ; i++ {
		id := base + "_" + strconv.Itoa(i)
		if d.ids[id] == 0 {
			return id
		}
	}
}

// slug turns the first line of a label into an identifier of lower-case
// letters, digits and underscores.
func slug(label, fallback string) string {
	first, _, _ := strings.Cut(label, "\n")
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(first) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if r > unicode.MaxASCII {
				continue
			}
			b.WriteRune(r)
			underscore = false
			continue
		}
		if b.Len() > 0 && !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	s := strings.TrimSuffix(b.String(), "_")
	if s == "" {
		return fallback
	}
	return s
}
