// Package graph provides the serialization format for positioned discovery
// graph frames.
//
// This package defines the canonical wire format for courseflow's rendered
// output, used for JSON files, API responses and as the input of every
// renderer.
//
// # Architecture
//
// The package sits at the serialization boundary between the graph session
// and external consumers:
//
//   - [Frame]: Serialization type (this package)
//   - pkg/session.Session: Produces frames from its current scope and run
//   - pkg/render/svg, pkg/render/nodelink: Consume frames
//
// # Core Types
//
//   - [Frame]: Canvas, viewport transform, run state, nodes and edges
//   - [Node]: Catalog node with layout position and resolved style
//   - [Edge]: Parent→child link with resolved endpoint coordinates
//
// # Serialization
//
// Frames use a node-link JSON format:
//
//	{
//	  "width": 960,
//	  "height": 600,
//	  "transform": {"x": 480, "y": 300, "k": 0.8},
//	  "run": {"generation": 1, "state": "converged", "ticks": 131, "alpha": 0.049},
//	  "nodes": [{"id": "sci", "depth": 0, "x": 0, "y": 0, "style": {...}}],
//	  "edges": [{"from": "sci", "to": "math", "x1": 0, "y1": 0, ...}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalFrame(frame)       // Frame → []byte
//	frame, _ := graph.UnmarshalFrame(data)     // []byte → Frame (validated)
//	graph.WriteFrameFile(frame, "frame.json")  // Frame → File
//	frame, _ = graph.ReadFrameFile("frame.json")
//
// Node coordinates are in layout space. Apply [Frame.Transform] to map them
// onto the canvas.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
