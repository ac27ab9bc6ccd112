// Package nodelink renders graph frames as Graphviz node-link diagrams.
//
// # Overview
//
// The force layout has already placed every node, so the generated DOT pins
// each node at its frame position (pos="x,y!") and Graphviz only draws:
// circles sized and filled from the node style, external labels, and
// straight links carrying the link colour, opacity and width.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process neato
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
