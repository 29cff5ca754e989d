package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/deployments"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in deployments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, dep := range deployments.All() {
				d, err := dep.Build()
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					dep.Name,
					d.Title,
					strconv.Itoa(d.NodeCount()),
					strconv.Itoa(d.ClusterCount()),
					strconv.Itoa(d.EdgeCount()),
					dep.Description,
				})
			}
			printTable([]string{"Name", "Title", "Nodes", "Clusters", "Edges", "Description"}, rows)
			printNextStep("Render one", "deployview render <name>")
			return nil
		},
	}
}
