package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/pipeline"
	"github.com/matzehuels/deployview/pkg/topology"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <name|file> <out>",
		Short: "Convert topology files between JSON, TOML and YAML",
		Long: `Convert a topology file to another encoding, chosen by the output
extension. A built-in deployment name exports that deployment.`,
		Example: `  deployview convert topology.yaml topology.json
  deployview convert rucio-k8s-sme rucio.toml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := pipeline.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := topology.WriteFile(args[1], d); err != nil {
				return err
			}
			printSuccess("Converted %s", d.Title)
			printFile(args[1])
			return nil
		},
	}
}
