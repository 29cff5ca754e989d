// Package cli implements the deployview command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deployview/internal/config"
	"github.com/matzehuels/deployview/pkg/cache"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/pipeline"
	"github.com/matzehuels/deployview/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "deployview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file and environment, logs any
// warnings and applies the configured log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.Validate() {
		c.Logger.Warn(w)
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.Logger.SetLevel(level)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
//
// An unreachable cache backend is not fatal: the runner falls back to
// rendering without a cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	var keyer cache.Keyer
	if c.Config != nil && c.Config.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Namespace+":")
	}
	r := pipeline.NewRunner(c.newCache(ctx, noCache), keyer, c.Logger)
	if c.Config != nil && c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config == nil {
		return cache.NewNullCache()
	}
	ch, err := cache.Open(ctx, c.Config.Cache.CacheOptions())
	if err != nil {
		c.Logger.Warn("artifact cache disabled", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// newStore opens the publish store. A non-empty backend overrides the config.
func (c *CLI) newStore(ctx context.Context, backend string) (store.Store, error) {
	if c.Config == nil {
		return nil, errors.New(errors.ErrCodeInternal, "configuration not loaded")
	}
	opts := c.Config.Store.StoreOptions()
	if backend != "" {
		opts.Backend = backend
	}
	return store.Open(ctx, opts)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds render options from flags, falling back to the
// configured formats and output directory.
func (c *CLI) pipelineOptions(formats, outputDir string, noCache bool) pipeline.Options {
	opts := pipeline.Options{
		Formats:   pipeline.ParseFormats(formats),
		OutputDir: outputDir,
		NoCache:   noCache,
		Logger:    c.Logger,
	}
	if c.Config != nil {
		if len(opts.Formats) == 0 {
			opts.Formats = c.Config.Formats
		}
		if opts.OutputDir == "" {
			opts.OutputDir = c.Config.OutputDir
		}
	}
	return opts
}
