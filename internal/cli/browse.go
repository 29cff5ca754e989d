package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/deployments"
	"github.com/matzehuels/deployview/pkg/errors"
)

// browseCommand creates the interactive deployment picker.
func (c *CLI) browseCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a built-in deployment interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := NewDeploymentListModel(deployments.All())
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "run picker")
			}
			m, ok := final.(DeploymentListModel)
			if !ok || m.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}
			return c.runRender(cmd.Context(), m.Selected.Name, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s) (comma-separated, default from the diagram)")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "output directory (default from config, else current directory)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}
