// Package render turns graph frames into documents.
//
// # Overview
//
// Renderers consume a [graph.Frame], the read-only snapshot a session
// produces between ticks. They never touch layout state.
//
//   - [svg]: a self-contained SVG of the frame with its viewport transform,
//     resolved styles and optional click/hover scripting.
//   - [nodelink]: Graphviz DOT with node positions pinned to the frame,
//     rendered in-process with neato.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(frame)
//	pdf, err := render.ToPDF(doc)
//	png, err := render.ToPNG(doc, 2.0)  // 2x scale
//
// [graph.Frame]: github.com/matzehuels/courseflow/pkg/graph.Frame
// [svg]: github.com/matzehuels/courseflow/pkg/render/svg
// [nodelink]: github.com/matzehuels/courseflow/pkg/render/nodelink
package render
