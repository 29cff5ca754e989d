// Package dot renders deployment diagrams through Graphviz.
//
// [ToDOT] produces DOT source from a [diagram.Diagram]. The source is
// deterministic: nodes, clusters and edges appear in insertion order and
// attributes are sorted, which makes the DOT text a stable cache key.
//
// [Render] turns DOT source into svg, png or jpg using the embedded
// Graphviz (github.com/goccy/go-graphviz), and into pdf by converting the
// SVG with rsvg-convert.
//
//	src := dot.ToDOT(d)
//	png, err := dot.Render(ctx, src, diagram.FormatPNG, dot.Options{})
//
// [diagram.Diagram]: github.com/matzehuels/deployview/pkg/diagram.Diagram
package dot
