package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deployview/pkg/cache"
	"github.com/matzehuels/deployview/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			if cfg.Backend == cache.BackendNone {
				printInfo("Cache is disabled")
				return nil
			}

			ch, err := cache.Open(cmd.Context(), cfg.CacheOptions())
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "open %s cache", cfg.Backend)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeCache, "%s cache cannot be cleared", cfg.Backend)
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "clear cache")
			}

			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", cacheLocation(cfg.Backend, cfg.Dir, cfg.RedisURL))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			fmt.Fprintln(out, cacheLocation(cfg.Backend, cfg.Dir, cfg.RedisURL))
			return nil
		},
	}
}

func cacheLocation(backend, dir, redisURL string) string {
	switch backend {
	case cache.BackendRedis:
		return redisURL
	case cache.BackendNone:
		return "(disabled)"
	default:
		return dir
	}
}
