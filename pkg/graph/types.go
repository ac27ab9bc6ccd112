package graph

import (
	"github.com/matzehuels/courseflow/pkg/style"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Output formats for rendered frames.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Frame - Positioned Scope Snapshot
// =============================================================================

// Frame is the canonical serialization of one rendered moment of a graph
// session: positioned nodes, edges with resolved endpoints, their styles,
// the viewport transform and the run state.
//
// Frames are read-only snapshots. Mutating one never affects the session
// that produced it.
type Frame struct {
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Canvas    Canvas             `json:"canvas"`
	Scope     string             `json:"scope,omitempty"`
	Path      []string           `json:"path,omitempty"`
	Tier      string             `json:"tier,omitempty"`
	Transform viewport.Transform `json:"transform"`
	Run       Run                `json:"run"`
	Nodes     []Node             `json:"nodes"`
	Edges     []Edge             `json:"edges"`
}

// Canvas holds the background appearance.
type Canvas struct {
	Color        string  `json:"color,omitempty"`
	BorderRadius float64 `json:"border_radius,omitempty"`
}

// Run describes the layout run that produced the positions.
type Run struct {
	Generation uint64  `json:"generation"`
	State      string  `json:"state"`
	Ticks      int     `json:"ticks"`
	Alpha      float64 `json:"alpha"`
}

// =============================================================================
// Node and Edge
// =============================================================================

// Node is a positioned catalog node in layout coordinates.
type Node struct {
	ID          string          `json:"id"`
	Label       string          `json:"label,omitempty"`
	Group       string          `json:"group,omitempty"`
	Description string          `json:"description,omitempty"`
	Depth       int             `json:"depth"`
	Leaf        bool            `json:"leaf,omitempty"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Style       style.NodeStyle `json:"style"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a parent→child link with its endpoints resolved to coordinates.
type Edge struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	X1    float64         `json:"x1"`
	Y1    float64         `json:"y1"`
	X2    float64         `json:"x2"`
	Y2    float64         `json:"y2"`
	Style style.LinkStyle `json:"style"`
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the node with the given ID.
func (f *Frame) Node(id string) (*Node, bool) {
	for i := range f.Nodes {
		if f.Nodes[i].ID == id {
			return &f.Nodes[i], true
		}
	}
	return nil, false
}

// IDs returns node IDs in frame order.
func (f Frame) IDs() []string {
	ids := make([]string, len(f.Nodes))
	for i, n := range f.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Empty reports whether the frame shows the empty-graph state.
func (f Frame) Empty() bool { return len(f.Nodes) == 0 }

// Bounds returns the bounding box of node centres.
func (f Frame) Bounds() viewport.Box {
	xs := make([]float64, len(f.Nodes))
	ys := make([]float64, len(f.Nodes))
	for i, n := range f.Nodes {
		xs[i], ys[i] = n.X, n.Y
	}
	return viewport.Bounds(xs, ys)
}
