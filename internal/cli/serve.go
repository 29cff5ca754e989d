package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/server"
)

// serveCommand creates the preview server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered diagrams over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			srv, err := server.New(addr, runner, server.WithLogger(logger))
			if err != nil {
				return err
			}
			printInfo("Preview server at %s", StyleLink.Render("http://"+srv.Addr()+"/api/v1/deployments"))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}
