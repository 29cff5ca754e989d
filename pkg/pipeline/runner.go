package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deployview/pkg/cache"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/observability"
	"github.com/matzehuels/deployview/pkg/render/dot"
	"github.com/matzehuels/deployview/pkg/render/mermaid"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute renders the diagram and writes every artifact to disk.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	result, err := r.Render(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(d); err != nil {
		return nil, err
	}

	writeStart := time.Now()
	for _, format := range opts.Formats {
		path := opts.OutputPath(d, format)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
		r.Logger.Debug("wrote artifact", "path", path, "bytes", len(result.Artifacts[format]))
	}
	result.Stats.WriteTime = time.Since(writeStart)

	return result, nil
}

// Render produces every requested format in memory.
//
// Image formats are looked up in the cache first. Cache failures are logged
// and treated as misses; render failures abort the run.
func (r *Runner) Render(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(d); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	err := d.Validate()
	observability.Pipeline().OnBuild(ctx, d.Name, d.NodeCount(), d.EdgeCount(), time.Since(buildStart), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "validate %s", displayName(d))
	}

	src := dot.ToDOT(d)
	result := &Result{
		Diagram:   d,
		DOT:       src,
		DOTHash:   cache.Hash([]byte(src)),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Stats: Stats{
			NodeCount:    d.NodeCount(),
			ClusterCount: d.ClusterCount(),
			EdgeCount:    d.EdgeCount(),
		},
	}

	renderStart := time.Now()
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, hit, err := r.renderFormat(ctx, d, result, format, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s as %s", displayName(d), format)
		}
		result.Artifacts[format] = data
		if isImage(format) {
			if hit {
				result.CacheInfo.Hits++
			} else {
				result.CacheInfo.Misses++
			}
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered diagram",
		"name", displayName(d),
		"formats", opts.Formats,
		"cache_hits", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) renderFormat(ctx context.Context, d *diagram.Diagram, res *Result, format string, opts Options) ([]byte, bool, error) {
	switch format {
	case diagram.FormatDOT:
		return []byte(res.DOT), false, nil
	case diagram.FormatMermaid:
		return []byte(mermaid.ToMermaid(d)), false, nil
	}

	key := r.Keyer.ArtifactKey(res.DOTHash, opts.ArtifactKeyOpts(format))
	if !opts.NoCache {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.cacheError(ctx, "get", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, format)
			return data, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, format)
		}
	}

	observability.Pipeline().OnRenderStart(ctx, d.Name, format)
	start := time.Now()
	data, err := dot.Render(ctx, res.DOT, format, opts.RenderOptions())
	observability.Pipeline().OnRenderComplete(ctx, d.Name, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.cacheError(ctx, "set", err)
		} else {
			observability.Cache().OnCacheSet(ctx, format, len(data))
		}
	}
	return data, false, nil
}

func (r *Runner) cacheError(ctx context.Context, op string, err error) {
	observability.Cache().OnCacheError(ctx, op, err)
	r.Logger.Warn("artifact cache unavailable, rendering without it", "op", op, "err", err)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func isImage(format string) bool {
	return format != diagram.FormatDOT && format != diagram.FormatMermaid
}

func displayName(d *diagram.Diagram) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Title
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
