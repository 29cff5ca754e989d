// Package diagram models deployment topologies as labeled nodes, visual
// clusters and directed edges.
//
// # Overview
//
// A [Diagram] holds everything needed to draw a deployment view: the nodes
// (services, databases, storage, queues), the clusters that visually group
// them, the edges between them, and presentation settings such as the
// title, rank direction and Graphviz attributes.
//
// Clusters carry no meaning beyond layout. The one structural invariant is
// that every edge references nodes that exist; [Diagram.Validate] also
// checks that node kinds resolve in the [catalog] and that cluster nesting is
// sound.
//
// # Declaring a Topology
//
// Topologies are written as a linear sequence of declarations using
// [Scope] for nodes and clusters, and [Diagram.Connect] / [Diagram.Chain]
// for edges:
//
//	d := diagram.New("Web Service", diagram.WithDirection(diagram.LeftToRight))
//	root := d.Root()
//	users := root.Node(catalog.OnPremUsers, "Users")
//	var api, db string
//	root.Cluster("Backend", func(s *diagram.Scope) {
//	    api = s.Node(catalog.K8sDeployment, "API")
//	    db = s.Node(catalog.OnPremPostgreSQL, "Database")
//	})
//	d.Connect(users, diagram.Edge{Label: "HTTPS", Color: "blue"}, api)
//	d.Chain(api, db)
//	if err := d.Validate(); err != nil {
//	    return err
//	}
//
// Builder calls record errors instead of returning them so declarations
// stay flat; they are reported by [Diagram.Err] and [Diagram.Validate].
//
// # Ordering
//
// Nodes, clusters and edges keep their insertion order, which makes the
// generated DOT source (and therefore the rendered image) deterministic.
package diagram
