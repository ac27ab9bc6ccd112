// Package pkg provides the core libraries for Courseflow catalog exploration.
//
// # Overview
//
// Courseflow turns a course catalog into an explorable force-directed graph.
// Units are grouped into a hierarchy (faculty, school or level), the
// hierarchy is projected into nodes and links, and a force simulation settles
// their positions. The pkg directory is organized into these areas:
//
//  1. [catalog] - Unit records and grouping into hierarchical data
//  2. [hierarchy] - Tree construction and validation
//  3. [projection] - Flattening a subtree into a node-link graph
//  4. [style] - Tiered visual properties and link metrics
//  5. [force] - Deterministic force simulation with generation tracking
//  6. [viewport] - Pan, zoom and fit transforms
//  7. [session] - Drill-down navigation tying the pieces together
//  8. [pipeline] - Orchestration (load → layout → render)
//  9. [graph] - Serialized frames shared by every entry point
//
// # Architecture
//
// The typical data flow through Courseflow:
//
//	Catalog JSON
//	     ↓
//	[catalog] HierarchicalData (group by mode)
//	     ↓
//	[hierarchy] Node tree
//	     ↓
//	[projection] Graph  +  [style] Resolver
//	     ↓
//	[force] Simulation (ticks until converged)
//	     ↓
//	[graph] Frame → SVG/DOT/JSON/PNG/PDF
//
// # Quick Start
//
// Load a catalog and settle a session:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/courseflow/pkg/catalog"
//	    "github.com/matzehuels/courseflow/pkg/session"
//	)
//
//	cat, _ := catalog.LoadFile("catalog.json")
//	s := session.New(cat, session.Options{})
//	_ = s.Load(context.Background(), catalog.ByFaculty)
//	_, _ = s.Settle(context.Background())
//	frame := s.Frame()
//
// Drill into a group and back out:
//
//	_ = s.OnNodeActivated("faculty:science")
//	_ = s.Up()
//	_ = s.ResetToRoot()
//
// # Rendering
//
// [pipeline] runs the same steps without an interactive session and renders
// the settled frame. [render/svg] draws frames directly; [render/nodelink]
// draws them with Graphviz at the simulated positions.
//
// # Observability
//
// [observability] exposes hook interfaces for sessions, layout runs, style
// lookups and HTTP requests. [observability/prom] implements them with
// Prometheus collectors.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/force/...      # Specific package
//	go test -run Example ./...   # Examples only
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/catalog
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/hierarchy
// [projection]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/projection
// [style]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/style
// [force]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/force
// [viewport]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/viewport
// [session]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/pipeline
// [graph]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/graph
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/courseflow/pkg/observability/prom
package pkg
