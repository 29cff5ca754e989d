package pipeline

import (
	"os"

	"github.com/matzehuels/deployview/pkg/deployments"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/topology"
)

// Resolve turns a command-line argument into a validated diagram.
//
// The argument is first looked up in the built-in registry; otherwise it is
// read as a topology file (.json, .toml, .yaml). The returned deployment is
// nil for files.
func Resolve(arg string) (*diagram.Diagram, *deployments.Deployment, error) {
	if dep, err := deployments.Find(arg); err == nil {
		d, err := dep.Build()
		if err != nil {
			return nil, nil, err
		}
		return d, &dep, nil
	}

	if !topology.IsTopologyPath(arg) {
		if _, err := os.Stat(arg); err == nil {
			return nil, nil, errors.New(errors.ErrCodeUnsupportedInput,
				"%s: topology files must end in .json, .toml, .yaml or .yml", arg)
		}
		return nil, nil, errors.New(errors.ErrCodeNotFound,
			"%q is neither a built-in deployment (%v) nor a topology file", arg, deployments.Names())
	}

	d, err := topology.ReadFile(arg)
	if err != nil {
		return nil, nil, err
	}
	return d, nil, nil
}

// ResolveAll builds every built-in deployment in registry order.
func ResolveAll() ([]*diagram.Diagram, []deployments.Deployment, error) {
	deps := deployments.All()
	diagrams := make([]*diagram.Diagram, 0, len(deps))
	for _, dep := range deps {
		d, err := dep.Build()
		if err != nil {
			return nil, nil, err
		}
		diagrams = append(diagrams, d)
	}
	return diagrams, deps, nil
}
