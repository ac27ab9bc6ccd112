package session

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/courseflow/pkg/catalog"
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/force"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
	"github.com/matzehuels/courseflow/pkg/observability"
	"github.com/matzehuels/courseflow/pkg/projection"
	"github.com/matzehuels/courseflow/pkg/style"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

// Source supplies catalog trees by grouping mode.
type Source interface {
	HierarchicalData(ctx context.Context, mode catalog.GroupingMode) (*hierarchy.Node, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context, mode catalog.GroupingMode) (*hierarchy.Node, error)

// HierarchicalData calls f.
func (f SourceFunc) HierarchicalData(ctx context.Context, mode catalog.GroupingMode) (*hierarchy.Node, error) {
	return f(ctx, mode)
}

// Static returns a source that serves root for every mode.
func Static(root *hierarchy.Node) Source {
	return SourceFunc(func(context.Context, catalog.GroupingMode) (*hierarchy.Node, error) {
		return root, nil
	})
}

// Options configures a session.
type Options struct {
	Properties *style.Properties // Nil uses style.DefaultProperties
	Layout     force.Options     // Solver settings shared by every run
	Logger     *log.Logger
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Properties == nil {
		o.Properties = style.DefaultProperties()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Layout.Logger == nil {
		o.Layout.Logger = o.Logger
	}
	o.Layout.SetDefaults()
}

// Scope is the immutable state of one scope: the subtree, its projection
// and the styles resolved for it. A new Scope is built on every change.
type Scope struct {
	Root       *hierarchy.Node
	Graph      *projection.Graph
	Tier       style.Tier
	Nodes      []style.NodeStyle // Indexed like Graph.Nodes
	Links      []style.LinkStyle // Indexed like Graph.Edges
	Generation uint64            // Layout run started for this scope
}

// IDs returns the scope's node IDs in projection order.
func (s *Scope) IDs() []string { return s.Graph.IDs() }

// Session is one interactive graph over a catalog source.
type Session struct {
	src      Source
	opts     Options
	resolver *style.Resolver
	view     viewport.Controller
	engine   *force.Engine

	mode      catalog.GroupingMode
	full      *hierarchy.Node
	scope     *Scope
	run       *force.Simulation
	transform viewport.Transform
}

// New returns an empty session reading from src.
func New(src Source, opts Options) *Session {
	opts.SetDefaults()
	return &Session{
		src:       src,
		opts:      opts,
		resolver:  style.NewResolver(opts.Properties, style.WithLogger(opts.Logger)),
		view:      opts.Properties.Viewport(),
		engine:    force.NewEngine(opts.Layout),
		transform: viewport.Identity,
	}
}

// Load fetches the tree for mode and scopes to its root. On failure the
// session shows the empty graph and the error is returned.
func (s *Session) Load(ctx context.Context, mode catalog.GroupingMode) error {
	start := time.Now()
	root, err := s.src.HierarchicalData(ctx, mode)
	if err == nil && root == nil {
		err = apperrors.New(apperrors.ErrCodeDataUnavailable, "no data for grouping mode %q", mode)
	}
	if err != nil && apperrors.GetCode(err) == "" {
		err = apperrors.Wrap(apperrors.ErrCodeDataUnavailable, err, "load %q", mode)
	}
	if err != nil {
		s.Dispose()
		observability.Session().OnLoad(ctx, string(mode), 0, time.Since(start), err)
		s.opts.Logger.Warn("catalog load failed", "mode", mode, "error", err)
		return err
	}

	s.mode = mode
	s.full = nil
	if err := s.SetScope(root); err != nil {
		s.Dispose()
		observability.Session().OnLoad(ctx, string(mode), 0, time.Since(start), err)
		return err
	}
	observability.Session().OnLoad(ctx, string(mode), s.scope.Graph.Len(), time.Since(start), nil)
	s.opts.Logger.Info("catalog loaded", "mode", mode, "nodes", s.scope.Graph.Len())
	return nil
}

// SetScope makes the subtree at root the active scope. It cancels the
// active run, projects and styles the subtree, starts a new run and resets
// the viewport. A nil root shows the empty graph. Calling it twice with the
// same root produces two equivalent layouts. A root outside the loaded tree
// is linked with [hierarchy.Link] and becomes the new full tree.
//
// If root cannot be projected the error is returned and the previous scope
// remains active.
func (s *Session) SetScope(root *hierarchy.Node) error {
	if root == nil {
		s.clear()
		observability.Session().OnScopeChange("", 0)
		return nil
	}

	g, err := projection.Project(root, s.resolver)
	if err != nil {
		s.opts.Logger.Warn("scope rejected", "root", root.ID, "error", err)
		return err
	}

	full := s.full
	if !s.within(root) {
		if err := hierarchy.Link(root); err != nil {
			s.opts.Logger.Warn("scope rejected", "root", root.ID, "error", err)
			return err
		}
		full = root
	}
	tier := style.TierForDepth(root.Depth())
	nodes := make([]style.NodeStyle, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = s.resolver.Node(n.Ref, tier)
	}
	links := make([]style.LinkStyle, len(g.Edges))
	for i, e := range g.Edges {
		links[i] = s.resolver.Link(g.Nodes[e.Source].Ref, g.Nodes[e.Target].Ref, tier)
	}

	s.engine.Cancel()
	run := s.engine.Start(g, s.resolver.ChargeFor(root))

	s.full = full
	s.run = run
	s.scope = &Scope{
		Root:       root,
		Graph:      g,
		Tier:       tier,
		Nodes:      nodes,
		Links:      links,
		Generation: run.Generation(),
	}
	s.transform = s.view.Initial(s.resolver.InitialZoom(g.Len(), full.Count()))

	observability.Session().OnScopeChange(root.ID, g.Len())
	s.opts.Logger.Debug("scope changed", "root", root.ID, "nodes", g.Len(), "tier", tier, "generation", run.Generation())
	return nil
}

// within reports whether n belongs to the loaded tree.
func (s *Session) within(n *hierarchy.Node) bool {
	if s.full == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur == s.full {
			return true
		}
	}
	return false
}

// OnNodeActivated drills into the subtree of the node with the given ID.
// Unknown IDs return NOT_FOUND and leave the scope unchanged.
func (s *Session) OnNodeActivated(id string) error {
	var n *hierarchy.Node
	found := false
	if s.full != nil {
		n, found = s.full.Find(id)
	}
	observability.Session().OnActivate(id, found)
	if !found {
		return apperrors.New(apperrors.ErrCodeNotFound, "node %q is not in the catalog", id)
	}
	return s.SetScope(n)
}

// ResetToRoot scopes back to the loaded tree.
func (s *Session) ResetToRoot() error {
	return s.SetScope(s.full)
}

// Up scopes to the parent of the current scope root. It is a no-op at the
// top of the tree.
func (s *Session) Up() error {
	if s.scope == nil || s.scope.Root.Parent() == nil {
		return nil
	}
	return s.SetScope(s.scope.Root.Parent())
}

// Tick advances the active run by one step and reports whether a step was
// taken.
func (s *Session) Tick() bool {
	if s.run == nil {
		return false
	}
	return s.engine.Tick(s.run.Generation())
}

// ScheduleTick returns a tick callback bound to the active run. After the
// next scope change the callback does nothing and returns false.
func (s *Session) ScheduleTick() func() bool {
	gen := s.engine.Generation()
	return func() bool { return s.engine.Tick(gen) }
}

// Settle ticks until the active run converges or stops, or ctx is done.
// It returns the number of ticks taken.
func (s *Session) Settle(ctx context.Context) (int, error) {
	n := 0
	for s.Tick() {
		n++
		if err := ctx.Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Gesture applies a pan/zoom gesture to the latest transform and returns
// the result.
func (s *Session) Gesture(g viewport.Gesture) viewport.Transform {
	s.transform = s.view.Apply(s.transform, g)
	return s.transform
}

// Fit zooms the viewport to the current node positions with padding
// canvas pixels around them. An empty scope leaves the transform as is.
func (s *Session) Fit(padding float64) viewport.Transform {
	pos := s.positions()
	if len(pos) == 0 {
		return s.transform
	}
	xs := make([]float64, len(pos))
	ys := make([]float64, len(pos))
	for i, p := range pos {
		xs[i], ys[i] = p.X, p.Y
	}
	s.transform = s.view.Fit(viewport.Bounds(xs, ys), padding)
	return s.transform
}

// Transform returns the current viewport transform.
func (s *Session) Transform() viewport.Transform { return s.transform }

// Scope returns the active scope, or nil in the empty-graph state.
func (s *Session) Scope() *Scope { return s.scope }

// Mode returns the grouping mode of the last successful load.
func (s *Session) Mode() catalog.GroupingMode { return s.mode }

// Full returns the loaded tree, or nil.
func (s *Session) Full() *hierarchy.Node { return s.full }

// State returns the state of the active run, or Idle when there is none.
func (s *Session) State() force.State {
	if s.run == nil {
		return force.Idle
	}
	return s.run.State()
}

// Generation returns the generation whose ticks are currently accepted.
func (s *Session) Generation() uint64 { return s.engine.Generation() }

// Frame returns a snapshot of the active scope for rendering.
func (s *Session) Frame() graph.Frame {
	p := s.opts.Properties
	f := graph.Frame{
		Width:     p.Width,
		Height:    p.Height,
		Canvas:    graph.Canvas{Color: p.CanvasColor, BorderRadius: p.CanvasBorderRadius},
		Transform: s.transform,
		Run:       graph.Run{Generation: s.engine.Generation(), State: s.State().String()},
		Nodes:     []graph.Node{},
		Edges:     []graph.Edge{},
	}
	if s.scope == nil {
		return f
	}

	sc := s.scope
	f.Scope = sc.Root.ID
	f.Tier = sc.Tier.String()
	for _, n := range sc.Root.Path() {
		f.Path = append(f.Path, n.ID)
	}
	f.Run = graph.Run{
		Generation: sc.Generation,
		State:      s.run.State().String(),
		Ticks:      s.run.Ticks(),
		Alpha:      s.run.Alpha(),
	}

	pos := s.positions()
	at := func(i int) (float64, float64) {
		if i < len(pos) {
			return pos[i].X, pos[i].Y
		}
		return 0, 0
	}

	f.Nodes = make([]graph.Node, len(sc.Graph.Nodes))
	for i, n := range sc.Graph.Nodes {
		x, y := at(i)
		f.Nodes[i] = graph.Node{
			ID:          n.ID,
			Label:       n.Ref.Name,
			Group:       n.Ref.Group,
			Description: n.Ref.Description,
			Depth:       n.Depth,
			Leaf:        n.Ref.IsLeaf(),
			X:           x,
			Y:           y,
			Style:       sc.Nodes[i],
		}
	}
	f.Edges = make([]graph.Edge, len(sc.Graph.Edges))
	for i, e := range sc.Graph.Edges {
		x1, y1 := at(e.Source)
		x2, y2 := at(e.Target)
		f.Edges[i] = graph.Edge{
			From:  sc.Graph.Nodes[e.Source].ID,
			To:    sc.Graph.Nodes[e.Target].ID,
			X1:    x1,
			Y1:    y1,
			X2:    x2,
			Y2:    y2,
			Style: sc.Links[i],
		}
	}
	return f
}

// Dispose stops the active run and drops all state.
func (s *Session) Dispose() {
	s.clear()
	s.full = nil
}

func (s *Session) clear() {
	s.engine.Cancel()
	s.scope = nil
	s.run = nil
	s.transform = viewport.Identity
}

func (s *Session) positions() []force.Point {
	if s.run == nil {
		return nil
	}
	return s.run.Positions()
}
