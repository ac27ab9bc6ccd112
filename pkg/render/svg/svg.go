// Package svg renders graph frames as standalone SVG documents.
//
// The document has the frame's canvas size. Links and nodes are drawn in
// layout coordinates inside a group carrying the frame's viewport
// transform, so zooming and panning only rewrite one attribute.
//
//	doc := svg.Render(frame, svg.WithInteraction())
//
// With [WithInteraction] the document highlights a node's links on hover
// and dispatches a "courseflow:activate" event carrying the node ID on
// click, which hosts translate into Session.OnNodeActivated.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/courseflow/pkg/graph"
)

const interactionCSS = `
    .node { cursor: pointer; }
    .node circle { transition: stroke-width 0.2s ease; }
    .node.highlight circle { stroke: #1d2330; stroke-width: 2; }
    .link.highlight { stroke-opacity: 1; }`

const interactionJS = `
    function highlight(id) {
      document.querySelectorAll('.link').forEach(l => l.classList.toggle('highlight', l.dataset.from === id || l.dataset.to === id));
      document.querySelectorAll('.node').forEach(n => n.classList.toggle('highlight', n.dataset.id === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.link, .node').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.id));
      el.addEventListener('mouseleave', clearHighlight);
      el.addEventListener('click', () => document.dispatchEvent(new CustomEvent('courseflow:activate', { detail: el.dataset.id })));
    });`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	interactive bool
	labels      bool
	titles      bool
	maxLabel    int
}

// WithInteraction adds hover highlighting and click activation scripts.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// WithoutLabels omits node labels.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// WithTitles adds each node's description as an SVG <title> tooltip.
func WithTitles() Option { return func(r *renderer) { r.titles = true } }

// WithMaxLabel truncates labels longer than n characters. Zero disables
// truncation.
func WithMaxLabel(n int) Option { return func(r *renderer) { r.maxLabel = n } }

// Render returns the SVG document for f.
func Render(f graph.Frame, opts ...Option) []byte {
	r := renderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f"`,
		f.Width, f.Height, f.Width, f.Height)
	if f.Scope != "" {
		fmt.Fprintf(&buf, ` data-scope="%s"`, escape(f.Scope))
	}
	buf.WriteString(">\n")

	renderCanvas(&buf, f)
	fmt.Fprintf(&buf, "  <g class=\"viewport\" transform=\"%s\">\n", f.Transform)
	renderLinks(&buf, f.Edges)
	r.renderNodes(&buf, f.Nodes)
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCanvas(buf *bytes.Buffer, f graph.Frame) {
	if f.Canvas.Color == "" {
		return
	}
	fmt.Fprintf(buf, `  <rect class="canvas" width="%.1f" height="%.1f"`, f.Width, f.Height)
	if f.Canvas.BorderRadius > 0 {
		fmt.Fprintf(buf, ` rx="%.1f" ry="%.1f"`, f.Canvas.BorderRadius, f.Canvas.BorderRadius)
	}
	fmt.Fprintf(buf, " fill=\"%s\"/>\n", escape(f.Canvas.Color))
}

func renderLinks(buf *bytes.Buffer, edges []graph.Edge) {
	buf.WriteString("    <g class=\"links\">\n")
	for _, e := range edges {
		fmt.Fprintf(buf,
			"      <line class=\"link\" data-from=\"%s\" data-to=\"%s\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"%.2f\" stroke-opacity=\"%.2f\"/>\n",
			escape(e.From), escape(e.To), e.X1, e.Y1, e.X2, e.Y2,
			escape(e.Style.Stroke), e.Style.Width, e.Style.Opacity)
	}
	buf.WriteString("    </g>\n")
}

func (r renderer) renderNodes(buf *bytes.Buffer, nodes []graph.Node) {
	buf.WriteString("    <g class=\"nodes\">\n")
	for _, n := range nodes {
		s := n.Style
		fmt.Fprintf(buf, "      <g class=\"node\" data-id=\"%s\" data-group=\"%s\" transform=\"translate(%.2f,%.2f)\">\n",
			escape(n.ID), escape(n.Group), n.X, n.Y)
		if r.titles && n.Description != "" {
			fmt.Fprintf(buf, "        <title>%s</title>\n", escape(n.Description))
		}
		fmt.Fprintf(buf, "        <circle r=\"%.2f\" fill=\"%s\"/>\n", s.Radius, escape(s.Fill))
		if r.labels {
			fmt.Fprintf(buf,
				"        <text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-family=\"sans-serif\" font-size=\"%.1f\" font-weight=\"%s\">%s</text>\n",
				s.TextDX, s.TextDY, escape(s.TextColor), s.FontSize, escape(s.FontWeight),
				escape(truncate(n.DisplayLabel(), r.maxLabel)))
		}
		buf.WriteString("      </g>\n")
	}
	buf.WriteString("    </g>\n")
}

func truncate(label string, n int) string {
	runes := []rune(label)
	if n <= 0 || len(runes) <= n {
		return label
	}
	if n < 3 {
		n = 3
	}
	return string(runes[:n-2]) + ".."
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
