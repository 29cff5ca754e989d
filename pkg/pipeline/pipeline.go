// Package pipeline provides the resolve → render → write pipeline shared by
// the CLI, the preview server and the publish command.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: turn a deployment name or topology file into a validated diagram
//  2. Render: produce the requested formats, consulting the artifact cache
//  3. Write: store the artifacts under the output directory
//
// Rendering is keyed on the SHA-256 of the generated DOT source, so any
// change to a topology or its presentation settings produces new cache keys.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	d, dep, err := pipeline.Resolve("rucio-k8s-sme")
//	result, err := runner.Execute(ctx, d, pipeline.Options{
//	    Formats:   []string{"png", "svg"},
//	    OutputDir: "out",
//	})
//	for _, f := range result.Files {
//	    fmt.Println(f)
//	}
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deployview/pkg/cache"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/render/dot"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultOutputDir is where artifacts are written when no directory is set.
const DefaultOutputDir = "."

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Formats to produce. Empty means the diagram's own OutFormats.
	Formats []string `json:"formats,omitempty"`

	// OutputDir is the directory the diagram's relative Filename is
	// resolved against.
	OutputDir string `json:"output_dir,omitempty"`

	// Output overrides the diagram's Filename (without extension).
	Output string `json:"output,omitempty"`

	// PNGScale renders PNG through rsvg-convert at this scale when positive.
	PNGScale float64 `json:"png_scale,omitempty"`

	// NoCache bypasses the artifact cache for reads and writes.
	NoCache bool `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the rendered diagram.
	Diagram *diagram.Diagram

	// DOT is the generated Graphviz source.
	DOT string

	// DOTHash is the content hash of DOT, used for cache keys.
	DOTHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Files lists the paths written by [Runner.Execute], in format order.
	Files []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks artifact cache hits.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	ClusterCount int
	EdgeCount    int
	RenderTime   time.Duration
	WriteTime    time.Duration
}

// CacheInfo tracks cache usage for the rendered formats.
type CacheInfo struct {
	Hits   int
	Misses int
}

// AllHit reports whether every image format came from the cache.
func (c CacheInfo) AllHit() bool { return c.Hits > 0 && c.Misses == 0 }

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !diagram.IsFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(diagram.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates while keeping order.
func ParseFormats(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options against the diagram being rendered
// and fills in defaults.
func (o *Options) ValidateAndSetDefaults(d *diagram.Diagram) error {
	if len(o.Formats) == 0 {
		o.Formats = d.OutFormats
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{diagram.FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", o.PNGScale)
	}
	if o.Output == "" {
		if err := errors.ValidateOutputPath(filepath.ToSlash(d.Filename)); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// RenderOptions returns the Graphviz render options.
func (o *Options) RenderOptions() dot.Options {
	return dot.Options{PNGScale: o.PNGScale}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Converter: o.RenderOptions().Converter(format),
	}
}

// OutputPath returns where the artifact for format is written.
//
// The base is Output if set, otherwise the diagram's Filename joined to
// OutputDir. An Output that already ends in ".<format>" is used verbatim.
func (o *Options) OutputPath(d *diagram.Diagram, format string) string {
	ext := "." + format
	if format == diagram.FormatMermaid {
		ext = ".mmd"
	}
	if o.Output != "" {
		if strings.EqualFold(filepath.Ext(o.Output), ext) {
			return o.Output
		}
		return o.Output + ext
	}
	return filepath.Join(o.OutputDir, filepath.FromSlash(d.Filename)+ext)
}
