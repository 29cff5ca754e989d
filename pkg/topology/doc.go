// Package topology reads and writes deployment topologies as JSON, TOML or
// YAML files.
//
// A topology file describes one diagram: its title and presentation
// settings, a flat list of clusters (nesting via "parent"), the nodes with
// their catalog kinds, and the edges:
//
//	title: Web Service
//	direction: LR
//	clusters:
//	  - id: backend
//	    label: Backend
//	nodes:
//	  - id: users
//	    kind: onprem.client.Users
//	  - id: api
//	    label: API
//	    kind: k8s.compute.Deployment
//	    cluster: backend
//	edges:
//	  - from: users
//	    to: api
//	    label: HTTPS
//
// [ReadFile] and [WriteFile] pick the encoding from the file extension
// (.json, .toml, .yaml or .yml). Reading validates the result with
// [diagram.Diagram.Validate]; any failure carries the INVALID_TOPOLOGY code.
//
// Converting a diagram to a document and back preserves element order, so
// the DOT source of a round-tripped diagram is identical to the original.
//
// [diagram.Diagram.Validate]: github.com/matzehuels/deployview/pkg/diagram.Diagram.Validate
package topology
