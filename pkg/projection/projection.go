package projection

import (
	"errors"
	"math"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
)

// ErrRevisited is returned when a tree node is reached more than once during
// projection, either through a cycle or a shared child.
var ErrRevisited = errors.New("node reached twice")

const (
	// DefaultLinkDistance is the rest length used when no metrics are given.
	DefaultLinkDistance = 30.0
)

// LinkMetrics supplies the per-edge configuration fixed at projection time.
type LinkMetrics interface {
	LinkDistance(parent, child *hierarchy.Node) float64
	LinkStrength(parent, child *hierarchy.Node) float64
}

// Node is a projected tree vertex.
type Node struct {
	Index  int             // Position in Graph.Nodes
	ID     string          // Catalog ID
	Ref    *hierarchy.Node // Source tree node
	Depth  int             // Depth relative to the scope root
	Parent int             // Index of the parent, -1 for the scope root
}

// Edge is a projected parent→child relation between node indices.
type Edge struct {
	Source   int
	Target   int
	Distance float64
	Strength float64
}

// Graph is the flat node/edge form of one scope.
type Graph struct {
	Nodes []Node
	Edges []Edge

	index  map[string]int
	degree []int
}

// Project flattens the subtree at root. A nil root yields an empty graph.
func Project(root *hierarchy.Node, metrics LinkMetrics) (*Graph, error) {
	g := &Graph{index: make(map[string]int)}
	if root == nil {
		return g, nil
	}

	visited := make(map[*hierarchy.Node]struct{})
	var refs []*hierarchy.Node

	var visit func(n *hierarchy.Node, parent, depth int) error
	visit = func(n *hierarchy.Node, parent, depth int) error {
		if _, seen := visited[n]; seen {
			return apperrors.Wrap(apperrors.ErrCodeMalformedHierarchy, ErrRevisited, "project %q", n.ID)
		}
		visited[n] = struct{}{}

		idx := len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{Index: idx, ID: n.ID, Ref: n, Depth: depth, Parent: parent})
		refs = append(refs, n)
		if _, dup := g.index[n.ID]; !dup {
			g.index[n.ID] = idx
		}
		if parent >= 0 {
			g.Edges = append(g.Edges, Edge{Source: parent, Target: idx})
		}
		for _, c := range n.Children {
			if err := visit(c, idx, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root, -1, 0); err != nil {
		return nil, err
	}

	g.degree = make([]int, len(g.Nodes))
	for _, e := range g.Edges {
		g.degree[e.Source]++
		g.degree[e.Target]++
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		e.Distance = DefaultLinkDistance
		e.Strength = 1 / float64(min(g.degree[e.Source], g.degree[e.Target]))
		if metrics == nil {
			continue
		}
		parent, child := refs[e.Source], refs[e.Target]
		if d := metrics.LinkDistance(parent, child); finite(d) && d >= 0 {
			e.Distance = d
		}
		if s := metrics.LinkStrength(parent, child); finite(s) && s >= 0 {
			e.Strength = s
		}
	}
	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// IDs returns node IDs in projection order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Index returns the position of the node with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Degree returns the number of edges touching node i.
func (g *Graph) Degree(i int) int {
	if i < 0 || i >= len(g.degree) {
		return 0
	}
	return g.degree[i]
}

// Root returns the scope root, or nil for an empty graph.
func (g *Graph) Root() *hierarchy.Node {
	if len(g.Nodes) == 0 {
		return nil
	}
	return g.Nodes[0].Ref
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
