// Package pkg provides the core libraries for deployview, a tool that draws
// deployment architecture diagrams from declarative topologies.
//
// # Overview
//
// A deployment topology (services, databases, storage, queues, the clusters
// that group them and the edges between them) is modeled once and rendered to
// images and text formats. The pkg directory is organized into four areas:
//
//  1. [diagram] - The topology model and the node-kind catalog
//  2. [deployments] / [topology] - Where diagrams come from (built-ins, files)
//  3. [render] - Graphviz and Mermaid output
//  4. [pipeline] - Orchestration (resolve → render → write)
//
// # Architecture
//
// The typical data flow through deployview:
//
//	Built-in deployment or topology file (json/toml/yaml)
//	         ↓
//	    [deployments] / [topology] (build a diagram)
//	         ↓
//	    [diagram] (validated nodes, clusters, edges)
//	         ↓
//	    [render/dot] (DOT source → svg/png/jpg/pdf)
//	         ↓
//	    [cache] (artifacts keyed by DOT hash + format)
//	         ↓
//	    Files, HTTP responses, or [store] records
//
// # Quick Start
//
// Build a built-in deployment and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/deployview/pkg/deployments"
//	    "github.com/matzehuels/deployview/pkg/render/dot"
//	)
//
//	dep, _ := deployments.Find("rucio-k8s-sme")
//	d, err := dep.Build()
//	if err != nil {
//	    return err
//	}
//	svg, _ := dot.RenderSVG(ctx, dot.ToDOT(d))
//
// Or let the pipeline handle caching and file output:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	d, _, _ := pipeline.Resolve("deployment.toml")
//	result, _ := runner.Execute(ctx, d, pipeline.Options{Formats: []string{"svg", "png"}})
//
// # Main Packages
//
// ## Model
//
// [diagram] - Nodes, clusters and edges with insertion-ordered storage and a
// flat builder API. [diagram/catalog] maps node kinds (k8s, onprem, generic)
// to Graphviz styling.
//
// [deployments] - The registry of built-in deployments, each a function that
// builds a fresh diagram.
//
// [topology] - The serializable document form of a diagram. Reads and writes
// JSON, TOML and YAML.
//
// ## Rendering
//
// [render/dot] - DOT generation and rendering through go-graphviz.
//
// [render/mermaid] - Mermaid flowchart export for Markdown.
//
// [render] - Format conversion shared by renderers (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - The render pipeline used by the CLI and the preview server.
// Ensures consistent behavior across both entry points.
//
// [cache] - Artifact caching with file, Redis and null backends.
//
// [store] - Published diagram records in a directory or MongoDB.
//
// [server] - The HTTP preview server.
//
// [observability] - Hooks for render, cache and request events.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/diagram/...            # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/diagram
// [diagram/catalog]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/diagram/catalog
// [deployments]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/deployments
// [topology]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/topology
// [render]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/render/dot
// [render/mermaid]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/render/mermaid
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/deployview/pkg/errors
package pkg
