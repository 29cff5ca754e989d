// Package deployments holds the built-in Rucio deployment topologies.
//
// Each deployment is a flat declarative function that builds a
// [diagram.Diagram]: nodes inside clusters, then the edges between them.
// The registry is fixed at compile time and safe for concurrent use.
//
//	dep, err := deployments.Find("rucio-k8s-sme")
//	d, err := dep.Build()
//
// [diagram.Diagram]: github.com/matzehuels/deployview/pkg/diagram.Diagram
package deployments

import (
	"slices"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
)

// Deployment is a named, built-in topology.
type Deployment struct {
	Name        string   // Registry name, also the output subdirectory
	Title       string   // Diagram title
	Description string   // One-line description for listings
	Summary     []string // Lines printed after a successful render

	// ListsFiles appends one "- <path>" line per written file to the summary.
	// The listed paths are the files actually written, which replace any
	// fixed file names a hand-written summary would carry.
	ListsFiles bool

	build func() *diagram.Diagram
}

// Build constructs and validates the deployment's diagram.
// Every call returns a fresh diagram.
func (d Deployment) Build() (*diagram.Diagram, error) {
	dg := d.build()
	if err := dg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "deployment %s", d.Name)
	}
	return dg, nil
}

// SummaryLines returns the post-render summary given the files written.
func (d Deployment) SummaryLines(files []string) []string {
	lines := slices.Clone(d.Summary)
	if d.ListsFiles {
		for _, f := range files {
			lines = append(lines, "- "+f)
		}
	}
	return lines
}

var registry = []Deployment{
	localDockerCompose,
	rucioK8sSME,
	communityFocused,
}

// All returns the built-in deployments in registry order.
func All() []Deployment { return slices.Clone(registry) }

// Names returns the registry names in order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	return names
}

// Find returns the deployment with the given name.
func Find(name string) (Deployment, error) {
	for _, d := range registry {
		if d.Name == name {
			return d, nil
		}
	}
	return Deployment{}, errors.New(errors.ErrCodeNotFound, "unknown deployment %q (available: %v)", name, Names())
}

// Shared presentation settings of the built-in diagrams.
func graphAttrs() diagram.Attrs {
	return diagram.Attrs{
		"fontsize": "45",
		"bgcolor":  "white",
		"pad":      "2.0",
		"splines":  "ortho",
	}
}

func nodeAttrs(fontsize string) diagram.Attrs {
	return diagram.Attrs{
		"fontsize": fontsize,
		"fontname": "Helvetica",
	}
}

func edgeAttrs() diagram.Attrs {
	return diagram.Attrs{"fontsize": "10"}
}
