// Package render turns deployment diagrams into images and text formats.
//
// # Overview
//
// Rendering is split across subpackages:
//
//   - [dot]: Graphviz DOT generation and raster/vector rendering (svg, png, jpg, pdf)
//   - [mermaid]: Mermaid flowchart export for embedding in Markdown
//
// This package holds the format conversion shared by both: [ToPDF] and
// [ToPNG] convert SVG with the external rsvg-convert tool (from librsvg).
//
//	src := dot.ToDOT(d)
//	svg, err := dot.RenderSVG(ctx, src)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [dot]: github.com/matzehuels/deployview/pkg/render/dot
// [mermaid]: github.com/matzehuels/deployview/pkg/render/mermaid
package render
