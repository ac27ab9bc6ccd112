package hierarchy

import (
	"errors"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
)

var (
	// ErrEmptyID is returned when a record has no identifier.
	ErrEmptyID = errors.New("node ID must not be empty")

	// ErrDuplicateID is returned when two records in one snapshot share an ID.
	ErrDuplicateID = errors.New("duplicate node ID")

	// ErrNoRoot is returned by [BuildFlat] when no entry lacks a parent.
	ErrNoRoot = errors.New("hierarchy has no root")

	// ErrMultipleRoots is returned by [BuildFlat] when more than one entry
	// lacks a parent.
	ErrMultipleRoots = errors.New("hierarchy has more than one root")

	// ErrUnknownParent is returned by [BuildFlat] when an entry points at a
	// parent that is not part of the snapshot.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrCycle is returned by [BuildFlat] when parent pointers form a loop,
	// and by [Link] when a node is reached twice.
	ErrCycle = errors.New("hierarchy contains a cycle")
)

// Node is one vertex of a catalog tree.
//
// Parent and depth are maintained by the builders; a Node constructed by
// hand has a nil parent and depth 0 until its root is passed to [Link].
type Node struct {
	ID          string
	Name        string
	Description string
	Group       string
	Children    []*Node

	parent *Node
	depth  int
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Depth returns the distance from the snapshot root (root = 0).
func (n *Node) Depth() int { return n.depth }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Label returns Name if set, otherwise the ID.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Walk visits n and its descendants in pre-order, children in insertion
// order. Returning false from fn prunes that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Descendants returns n and every node below it in pre-order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.Walk(func(d *Node) bool {
		out = append(out, d)
		return true
	})
	return out
}

// DescendantIDs returns the set of IDs in n's subtree, n included.
func (n *Node) DescendantIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	n.Walk(func(d *Node) bool {
		ids[d.ID] = struct{}{}
		return true
	})
	return ids
}

// Count returns the number of nodes in n's subtree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Find returns the node with the given ID in n's subtree.
func (n *Node) Find(id string) (*Node, bool) {
	var found *Node
	n.Walk(func(d *Node) bool {
		if found != nil {
			return false
		}
		if d.ID == id {
			found = d
			return false
		}
		return true
	})
	return found, found != nil
}

// Path returns the chain of nodes from the snapshot root down to n.
func (n *Node) Path() []*Node {
	var path []*Node
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Link makes root the snapshot root: it clears root's parent and sets the
// parent and depth of every node below it. Returns a MALFORMED_HIERARCHY
// error if a node is reachable twice; nodes visited before the repeat keep
// their new links.
func Link(root *Node) error {
	if root == nil {
		return nil
	}
	seen := make(map[*Node]struct{})
	var link func(n, parent *Node, depth int) error
	link = func(n, parent *Node, depth int) error {
		if _, dup := seen[n]; dup {
			return malformed(ErrCycle, "node %q reached twice", n.ID)
		}
		seen[n] = struct{}{}
		n.parent = parent
		n.depth = depth
		for _, c := range n.Children {
			if err := link(c, n, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return link(root, nil, 0)
}

// Record converts the subtree rooted at n back into its nested wire form.
func (n *Node) Record() Record {
	r := Record{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Group:       n.Group,
	}
	if len(n.Children) > 0 {
		r.Children = make([]Record, len(n.Children))
		for i, c := range n.Children {
			r.Children[i] = c.Record()
		}
	}
	return r
}

// Record is the nested wire form of a catalog tree.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Group       string   `json:"group,omitempty"`
	Children    []Record `json:"children,omitempty"`
}

// Entry is the flat wire form of a catalog record. Parent is empty for the
// root.
type Entry struct {
	ID          string `json:"id"`
	Parent      string `json:"parent,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
}

// Build converts a nested record into a tree.
// Returns a MALFORMED_HIERARCHY error if any record has an empty ID or an
// ID repeats within the snapshot.
func Build(r Record) (*Node, error) {
	seen := make(map[string]struct{})
	return build(r, nil, 0, seen)
}

func build(r Record, parent *Node, depth int, seen map[string]struct{}) (*Node, error) {
	if r.ID == "" {
		return nil, malformed(ErrEmptyID, "record under %q", parentID(parent))
	}
	if _, dup := seen[r.ID]; dup {
		return nil, malformed(ErrDuplicateID, "%q", r.ID)
	}
	seen[r.ID] = struct{}{}

	n := &Node{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Group:       r.Group,
		parent:      parent,
		depth:       depth,
	}
	if len(r.Children) > 0 {
		n.Children = make([]*Node, 0, len(r.Children))
	}
	for _, cr := range r.Children {
		c, err := build(cr, n, depth+1, seen)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// BuildFlat converts flat parent-pointer entries into a tree. Children keep
// the relative order in which they appear in entries.
//
// Every entry must be reachable from exactly one root. Returns a
// MALFORMED_HIERARCHY error wrapping [ErrNoRoot], [ErrMultipleRoots],
// [ErrUnknownParent], [ErrDuplicateID], [ErrEmptyID] or [ErrCycle].
func BuildFlat(entries []Entry) (*Node, error) {
	nodes := make(map[string]*Node, len(entries))
	var rootID string

	for _, e := range entries {
		if e.ID == "" {
			return nil, malformed(ErrEmptyID, "entry with parent %q", e.Parent)
		}
		if _, dup := nodes[e.ID]; dup {
			return nil, malformed(ErrDuplicateID, "%q", e.ID)
		}
		nodes[e.ID] = &Node{ID: e.ID, Name: e.Name, Description: e.Description, Group: e.Group}
		if e.Parent == "" {
			if rootID != "" {
				return nil, malformed(ErrMultipleRoots, "%q and %q", rootID, e.ID)
			}
			rootID = e.ID
		}
	}
	if rootID == "" {
		return nil, malformed(ErrNoRoot, "%d entries", len(entries))
	}

	children := make(map[string][]string, len(entries))
	for _, e := range entries {
		if e.Parent == "" {
			continue
		}
		if _, ok := nodes[e.Parent]; !ok {
			return nil, malformed(ErrUnknownParent, "%q references %q", e.ID, e.Parent)
		}
		children[e.Parent] = append(children[e.Parent], e.ID)
	}

	if err := detectCycles(nodes, children); err != nil {
		return nil, err
	}

	// With one root, known parents and no cycles, every entry hangs off the root.
	root := nodes[rootID]
	attach(root, nil, 0, nodes, children)
	return root, nil
}

func attach(n, parent *Node, depth int, nodes map[string]*Node, children map[string][]string) {
	n.parent = parent
	n.depth = depth
	for _, id := range children[n.ID] {
		c := nodes[id]
		n.Children = append(n.Children, c)
		attach(c, n, depth+1, nodes, children)
	}
}

func detectCycles(nodes map[string]*Node, children map[string][]string) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(nodes))
	var cycleAt string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range children[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				cycleAt = child
			}
			if cycleAt != "" {
				return
			}
		}
		color[id] = black
	}

	for id := range nodes {
		if color[id] == white {
			dfs(id)
			if cycleAt != "" {
				return malformed(ErrCycle, "through %q", cycleAt)
			}
		}
	}
	return nil
}

func malformed(cause error, format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeMalformedHierarchy, cause, format, args...)
}

func parentID(n *Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
