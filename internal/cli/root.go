package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/buildinfo"
	"github.com/matzehuels/deployview/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The root's PersistentPreRunE loads the configuration and registers the
// logging hooks; callers that wrap it must invoke the original.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "deployview renders Rucio deployment architecture diagrams",
		Long: `deployview renders deployment architecture diagrams of Rucio installations
from built-in topologies or JSON/TOML/YAML topology files, using Graphviz.

Run without a subcommand argument, "deployview render" regenerates every
built-in diagram.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			hooks := &logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./deployview.yaml or $XDG_CONFIG_HOME/deployview/deployview.yaml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
