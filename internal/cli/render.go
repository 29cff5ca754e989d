package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/deployments"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	formats  string  // comma-separated output formats
	output   string  // output path override (single target only)
	dir      string  // directory the diagram filenames are resolved against
	all      bool    // render every built-in deployment
	noCache  bool    // bypass the artifact cache
	pngScale float64 // rsvg-convert scale for png output
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [name|file]",
		Short: "Render deployment diagrams",
		Long: `Render a built-in deployment or a topology file (.json, .toml, .yaml).

Without an argument, or with --all, every built-in deployment is rendered
to its own subdirectory and its summary is printed.`,
		Example: `  deployview render
  deployview render rucio-k8s-sme -f svg,pdf
  deployview render ./my-topology.yaml -o diagram`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return deployments.Names(), cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormats(pipeline.ParseFormats(flags.formats)); err != nil {
				return err
			}
			if len(args) == 1 && flags.all {
				return errors.New(errors.ErrCodeInvalidInput, "--all cannot be combined with a deployment or file argument")
			}
			if len(args) == 0 {
				if flags.output != "" {
					return errors.New(errors.ErrCodeInvalidInput, "--output needs a single deployment or file")
				}
				return c.runRenderAll(cmd.Context(), flags)
			}
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): "+strings.Join(diagram.Formats, ", ")+" (comma-separated, default from the diagram)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path without extension (single target only)")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "output directory (default from config, else current directory)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "render every built-in deployment")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().Float64Var(&flags.pngScale, "png-scale", 0, "render png through rsvg-convert at this scale")

	return cmd
}

// runRender renders a single deployment or topology file.
func (c *CLI) runRender(ctx context.Context, arg string, flags renderFlags) error {
	d, dep, err := pipeline.Resolve(arg)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	return c.renderOne(ctx, runner, d, dep, flags)
}

// runRenderAll renders every built-in deployment in registry order.
func (c *CLI) runRenderAll(ctx context.Context, flags renderFlags) error {
	diagrams, deps, err := pipeline.ResolveAll()
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	for i, d := range diagrams {
		if i > 0 {
			printNewline()
		}
		if err := c.renderOne(ctx, runner, d, &deps[i], flags); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d diagrams", len(diagrams)))
	return nil
}

func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, d *diagram.Diagram, dep *deployments.Deployment, flags renderFlags) error {
	opts := c.pipelineOptions(flags.formats, flags.dir, flags.noCache)
	opts.Output = flags.output
	opts.PNGScale = flags.pngScale

	spinner := newSpinner(ctx, "Rendering "+d.Title+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Failed to render " + d.Title)
		return err
	}
	spinner.StopWithSuccess("Rendered " + d.Title)

	for _, f := range result.Files {
		printFile(f)
	}
	printStats(result.Stats.NodeCount, result.Stats.ClusterCount, result.Stats.EdgeCount, result.CacheInfo.AllHit())

	if dep != nil {
		printLines(dep.SummaryLines(result.Files))
	}
	return nil
}
