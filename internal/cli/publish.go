package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/pipeline"
	"github.com/matzehuels/deployview/pkg/store"
)

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		formats string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "publish <name|file>",
		Short: "Render a deployment and store it under a generated ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, _, err := pipeline.Resolve(args[0])
			if err != nil {
				return err
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			result, err := runner.Render(ctx, d, c.pipelineOptions(formats, "", noCache))
			if err != nil {
				return err
			}

			st, err := c.newStore(ctx, backend)
			if err != nil {
				return err
			}
			defer st.Close()

			rec := store.NewRecord(d, result.DOTHash, result.Artifacts)
			if err := st.Put(ctx, rec); err != nil {
				return err
			}

			printSuccess("Published %s", d.Title)
			printKeyValue("ID", rec.ID)
			if fs, ok := st.(*store.FileStore); ok {
				for _, f := range rec.Formats {
					printFile(fs.ArtifactPath(rec.ID, f))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "", "formats to publish (comma-separated, default from the diagram)")
	cmd.Flags().StringVar(&backend, "store", "", "store backend: file, mongo (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}
