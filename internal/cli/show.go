package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/deployments"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/pipeline"
	"github.com/matzehuels/deployview/pkg/render/dot"
	"github.com/matzehuels/deployview/pkg/render/mermaid"
	"github.com/matzehuels/deployview/pkg/topology"
)

var showFormats = []string{"json", "toml", "yaml", "dot", "mermaid"}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name|file>",
		Short: "Describe a deployment or print its source",
		Long: `Without --format, print a short description of the deployment.
With --format, print its topology (json, toml, yaml) or its DOT or Mermaid
source to stdout.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return deployments.Names(), cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, dep, err := pipeline.Resolve(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				describe(d, dep)
				return nil
			}
			src, err := showSource(d, format)
			if err != nil {
				return err
			}
			fmt.Fprint(out, src)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "print source as: "+strings.Join(showFormats, ", "))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(showFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func showSource(d *diagram.Diagram, format string) (string, error) {
	switch format {
	case "dot":
		return dot.ToDOT(d), nil
	case "mermaid":
		return mermaid.ToMermaid(d), nil
	}
	f, err := topology.ParseFormat(format)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid show format %q (must be one of: %s)", format, strings.Join(showFormats, ", "))
	}
	data, err := topology.Encode(topology.FromDiagram(d), f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func describe(d *diagram.Diagram, dep *deployments.Deployment) {
	fmt.Fprintln(out, StyleTitle.Render(d.Title))
	if dep != nil {
		printKeyValue("Name", dep.Name)
		printKeyValue("About", dep.Description)
	} else if d.Name != "" {
		printKeyValue("Name", d.Name)
	}
	printKeyValue("Direction", string(d.Direction))
	printKeyValue("Formats", strings.Join(d.OutFormats, ", "))
	printKeyValue("Filename", d.Filename)
	printKeyValue("Nodes", strconv.Itoa(d.NodeCount()))
	printKeyValue("Clusters", strconv.Itoa(d.ClusterCount()))
	printKeyValue("Edges", strconv.Itoa(d.EdgeCount()))
}
