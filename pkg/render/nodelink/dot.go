package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/render"
)

// pointsPerInch converts layout pixels into Graphviz node sizes.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds group and depth to node labels. When false, only the
	// display label is shown.
	Detailed bool
}

// ToDOT converts a frame to Graphviz DOT with every node pinned to its
// layout position. Render the result with [RenderSVG], [RenderPDF] or
// [RenderPNG]; external tools need `neato -n`.
func ToDOT(f graph.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  inputscale=%.0f;\n", pointsPerInch)
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=line;\n")
	if f.Canvas.Color != "" {
		fmt.Fprintf(&buf, "  bgcolor=%q;\n", f.Canvas.Color)
	} else {
		buf.WriteString("  bgcolor=\"transparent\";\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtNodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=%.2f];\n",
			e.From, e.To, withAlpha(e.Style.Stroke, e.Style.Opacity), e.Style.Width)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	return fmt.Sprintf("%s\ngroup: %s\ndepth: %d", n.DisplayLabel(), n.Group, n.Depth)
}

func fmtNodeAttrs(n graph.Node, detailed bool) []string {
	s := n.Style
	attrs := []string{
		// Graphviz y grows upwards.
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y),
		fmt.Sprintf("width=%.3f", 2*s.Radius/pointsPerInch),
		fmt.Sprintf("fillcolor=%q", s.Fill),
		fmt.Sprintf("color=%q", s.Fill),
		fmt.Sprintf("xlabel=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("fontcolor=%q", s.TextColor),
		fmt.Sprintf("fontsize=%.1f", s.FontSize),
	}
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Description))
	}
	return attrs
}

// withAlpha appends the opacity to a #rrggbb colour. Other colour forms are
// returned unchanged.
func withAlpha(color string, opacity float64) string {
	if len(color) != 7 || color[0] != '#' || opacity >= 1 || opacity < 0 {
		return color
	}
	return fmt.Sprintf("%s%02x", color, int(opacity*255+0.5))
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG. Pinned
// positions are kept.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
