package style

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
	"github.com/matzehuels/courseflow/pkg/observability"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

// Built-in values used when neither the group key nor the default key is
// configured.
const (
	BuiltinNodeRadius     = 5.0
	BuiltinNodeColor      = "#69b3a2"
	BuiltinTextColor      = "#333333"
	BuiltinFontSize       = 10.0
	BuiltinFontWeight     = "normal"
	BuiltinTextXOffset    = 8.0
	BuiltinTextYOffset    = 3.0
	BuiltinLinkWidth      = 1.0
	BuiltinLinkOpacity    = 0.6
	BuiltinLinkColor      = "#999999"
	BuiltinLinkDistance   = 30.0
	BuiltinLinkStrength   = 1.0
	BuiltinManyBodyCharge = -30.0
)

// NodeStyle is the resolved appearance of one node.
type NodeStyle struct {
	Radius     float64 `json:"radius"`
	Fill       string  `json:"fill"`
	TextColor  string  `json:"text_color"`
	FontSize   float64 `json:"font_size"`
	FontWeight string  `json:"font_weight"`
	TextDX     float64 `json:"text_dx"`
	TextDY     float64 `json:"text_dy"`
}

// LinkStyle is the resolved appearance of one link.
type LinkStyle struct {
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Stroke  string  `json:"stroke"`
}

// Resolver answers style and layout configuration queries against one
// [Properties] snapshot. It is safe for concurrent use.
type Resolver struct {
	props  *Properties
	logger *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger that receives lookup-miss warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver returns a resolver for p. A nil p uses [DefaultProperties].
func NewResolver(p *Properties, opts ...Option) *Resolver {
	if p == nil {
		p = DefaultProperties()
	}
	r := &Resolver{
		props:  p,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Properties returns the snapshot the resolver reads from.
func (r *Resolver) Properties() *Properties { return r.props }

// Node resolves the style of n at tier t.
func (r *Resolver) Node(n *hierarchy.Node, t Tier) NodeStyle {
	tp, tier := r.tier(t)
	key := groupKey(n)
	return NodeStyle{
		Radius:     lookup(r, tier, "node_radius", tp.NodeRadius, key, BuiltinNodeRadius),
		Fill:       lookup(r, tier, "node_color", tp.NodeColor, key, BuiltinNodeColor),
		TextColor:  lookup(r, tier, "text_color", tp.TextColor, key, BuiltinTextColor),
		FontSize:   lookup(r, tier, "text_font_size", tp.TextFontSize, key, BuiltinFontSize),
		FontWeight: lookup(r, tier, "text_font_weight", tp.TextFontWeight, key, BuiltinFontWeight),
		TextDX:     lookup(r, tier, "text_x_offset", tp.TextXOffset, key, BuiltinTextXOffset),
		TextDY:     lookup(r, tier, "text_y_offset", tp.TextYOffset, key, BuiltinTextYOffset),
	}
}

// Link resolves the style of the parent→child link at tier t. Links are
// keyed by the child's group.
func (r *Resolver) Link(_, child *hierarchy.Node, t Tier) LinkStyle {
	tp, tier := r.tier(t)
	key := groupKey(child)
	return LinkStyle{
		Width:   lookup(r, tier, "link_width", tp.LinkWidth, key, BuiltinLinkWidth),
		Opacity: lookup(r, tier, "link_opacity", tp.LinkOpacity, key, BuiltinLinkOpacity),
		Stroke:  lookup(r, tier, "link_color", tp.LinkColor, key, BuiltinLinkColor),
	}
}

// LinkDistance returns the rest length of the parent→child link. It
// satisfies projection.LinkMetrics.
func (r *Resolver) LinkDistance(_, child *hierarchy.Node) float64 {
	return lookup(r, "", "link_distance", r.props.LinkDistance, groupKey(child), BuiltinLinkDistance)
}

// LinkStrength returns the spring strength of the parent→child link.
func (r *Resolver) LinkStrength(_, child *hierarchy.Node) float64 {
	return lookup(r, "", "link_strength", r.props.LinkStrength, groupKey(child), BuiltinLinkStrength)
}

// ChargeFor returns the many-body strength function for a scope. A node's
// charge is its group base scaled by √(1+children), so hubs push their
// neighbourhood further out. The scope root is looked up under [RootKey]
// first.
func (r *Resolver) ChargeFor(scopeRoot *hierarchy.Node) func(*hierarchy.Node) float64 {
	return func(n *hierarchy.Node) float64 {
		key := groupKey(n)
		if _, ok := r.props.ManyBodyStrength[RootKey]; ok && n == scopeRoot {
			key = RootKey
		}
		base := lookup(r, "", "many_body_strength", r.props.ManyBodyStrength, key, BuiltinManyBodyCharge)
		return base * math.Sqrt(1+float64(len(n.Children)))
	}
}

// InitialZoom returns the opening zoom for a scope with current nodes out of
// full catalog nodes, clamped to the configured bounds.
func (r *Resolver) InitialZoom(current, full int) float64 {
	return r.props.Viewport().Clamp(viewport.InitialScale(current, full, r.props.InitialZoomScale))
}

func (r *Resolver) tier(t Tier) (TierProperties, string) {
	if tp, ok := r.props.Tiers[t.String()]; ok {
		return tp, t.String()
	}
	r.miss(t.String(), "tier", t.String())
	// The default tier may itself be missing; lookups then fall through to
	// built-in constants.
	return r.props.Tiers[DefaultTier.String()], DefaultTier.String()
}

func (r *Resolver) miss(tier, property, key string) {
	r.logger.Warn("style lookup miss",
		"code", apperrors.ErrCodeStyleLookupMiss,
		"tier", tier,
		"property", property,
		"key", key)
	observability.Style().OnLookupMiss(tier, property, key)
}

func lookup[V any](r *Resolver, tier, property string, m map[string]V, key string, builtin V) V {
	if v, ok := m[key]; ok {
		return v
	}
	if v, ok := m[DefaultKey]; ok {
		return v
	}
	r.miss(tier, property, key)
	return builtin
}

func groupKey(n *hierarchy.Node) string {
	if n == nil || n.Group == "" {
		return DefaultKey
	}
	return n.Group
}
