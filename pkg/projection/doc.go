// Package projection flattens a catalog subtree into the node and edge lists
// consumed by the force layout engine.
//
// # Overview
//
// [Project] walks a scope root in pre-order (root first, children in
// insertion order) and emits one [Node] per tree vertex and one [Edge] per
// parent→child relation. A tree with n nodes always projects to n nodes and
// n-1 edges.
//
// Nodes carry no simulation state. Positions and velocities belong to
// pkg/force, which indexes its bodies by [Node.Index].
//
// # Link Metrics
//
// Edge distance and strength are fixed when the edge is created. They come
// from a [LinkMetrics] implementation, normally the style resolver. With a
// nil metrics value the d3-force defaults apply: distance 30 and strength
// 1/min(deg(source), deg(target)).
//
// # Malformed Input
//
// Trees produced by pkg/hierarchy are always valid. Hand-assembled trees may
// share a child between parents or loop back to an ancestor; [Project]
// detects any node reached twice and fails with MALFORMED_HIERARCHY instead
// of recursing forever.
package projection
