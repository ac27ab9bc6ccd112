// Package hierarchy builds the catalog tree that every courseflow graph is
// projected from.
//
// # Overview
//
// A catalog snapshot is a strict tree: one root (the university), groups
// below it (faculties, schools, levels) and units at the leaves. Each
// [Node] carries an ID that is unique within its snapshot, a display name,
// a description, and a group label used by the style layer to pick colours
// and sizes.
//
// # Building Trees
//
// Two wire forms are accepted:
//
//   - [Record]: the nested form served by the catalog collaborator, with
//     children embedded in their parent. Use [Build].
//   - [Entry]: a flat list of records with parent pointers, as exported from
//     relational catalog tables. Use [BuildFlat].
//
// Both builders fail fast with a MALFORMED_HIERARCHY error (see
// pkg/errors) when the input is not a strict tree:
//
//	root, err := hierarchy.Build(record)
//	if errors.Is(err, errors.ErrCodeMalformedHierarchy) {
//	    // show the empty-graph state instead of crashing the renderer
//	}
//
// Duplicate IDs, missing IDs, multiple roots, unknown parents and cycles
// are all rejected. Cycle detection uses
// depth-first search with white/gray/black colouring.
//
// # Traversal
//
// [Node.Walk] visits a subtree in pre-order with children in insertion
// order. The order is stable for identical input, which the projection and
// force layout packages depend on for reproducible layouts.
//
// # Concurrency
//
// Trees are immutable after building. They are safe for concurrent reads.
package hierarchy
