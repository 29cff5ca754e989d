package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/render"
)

// Options tunes how [Render] produces raster output.
type Options struct {
	// PNGScale, when positive, renders PNG by converting the SVG with
	// rsvg-convert at this scale instead of using Graphviz's raster output.
	PNGScale float64
}

// Converter returns the external tool used for format, or "" when
// Graphviz produces it directly.
func (o Options) Converter(format string) string {
	switch {
	case format == diagram.FormatPDF:
		return render.Converter
	case format == diagram.FormatPNG && o.PNGScale > 0:
		return fmt.Sprintf("%s@%.2f", render.Converter, o.PNGScale)
	}
	return ""
}

// Render renders DOT source in one of the image formats (svg, png, jpg, pdf).
func Render(ctx context.Context, src string, format string, opts Options) ([]byte, error) {
	switch format {
	case diagram.FormatSVG:
		return RenderSVG(ctx, src)
	case diagram.FormatPNG:
		if opts.PNGScale > 0 {
			svg, err := RenderSVG(ctx, src)
			if err != nil {
				return nil, err
			}
			return render.ToPNG(ctx, svg, opts.PNGScale)
		}
		return renderGraphviz(ctx, src, graphviz.PNG)
	case diagram.FormatJPG:
		return renderGraphviz(ctx, src, graphviz.JPG)
	case diagram.FormatPDF:
		return RenderPDF(ctx, src)
	case diagram.FormatDOT:
		return []byte(src), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot render %q from DOT", format)
	}
}

// RenderSVG renders DOT source to SVG using Graphviz.
// The root <svg> element is rewritten so the image scales to its viewBox.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	out, err := renderGraphviz(ctx, src, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, src string) ([]byte, error) {
	svg, err := RenderSVG(ctx, src)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderGraphviz(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	loc := svgTagRe.FindIndex(svg)
	out := make([]byte, 0, len(svg))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}
