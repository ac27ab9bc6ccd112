package style

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
	"github.com/matzehuels/courseflow/pkg/observability"
)

type recordingStyleHooks struct {
	observability.NoopStyleHooks
	mu     sync.Mutex
	misses []string
}

func (h *recordingStyleHooks) OnLookupMiss(tier, property, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses = append(h.misses, tier+"/"+property+"/"+key)
}

func withHooks(t *testing.T) *recordingStyleHooks {
	t.Helper()
	h := &recordingStyleHooks{}
	observability.SetStyleHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestTierForDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  Tier
	}{
		{-1, TierOverview},
		{0, TierOverview},
		{1, TierGroup},
		{2, TierDetail},
		{7, TierDetail},
	}
	for _, tt := range tests {
		if got := TierForDepth(tt.depth); got != tt.want {
			t.Errorf("TierForDepth(%d) = %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range Tiers {
		got, err := ParseTier(strings.ToUpper(tier.String()))
		if err != nil || got != tier {
			t.Errorf("ParseTier(%q) = %v, %v", tier, got, err)
		}
	}
	if _, err := ParseTier("galaxy"); err == nil {
		t.Error("ParseTier(galaxy) should fail")
	}
	if got := Tier(9).String(); got != "tier(9)" {
		t.Errorf("String() = %q", got)
	}
}

func completeNode(t *testing.T, s NodeStyle) {
	t.Helper()
	if s.Radius <= 0 || s.Fill == "" || s.TextColor == "" || s.FontSize <= 0 || s.FontWeight == "" {
		t.Errorf("incomplete node style: %+v", s)
	}
}

func completeLink(t *testing.T, s LinkStyle) {
	t.Helper()
	if s.Width <= 0 || s.Opacity <= 0 || s.Stroke == "" {
		t.Errorf("incomplete link style: %+v", s)
	}
}

func TestResolverTotality(t *testing.T) {
	parent := &hierarchy.Node{ID: "sci", Group: "faculty"}
	nodes := []*hierarchy.Node{
		{ID: "root", Group: "catalog"},
		parent,
		{ID: "math", Group: "school"},
		{ID: "MATH1001", Group: "unit"},
		{ID: "odd", Group: "something-else"},
		{ID: "bare"},
	}

	configs := map[string]*Properties{
		"Defaults": DefaultProperties(),
		"NoTiers": func() *Properties {
			p := DefaultProperties()
			p.Tiers = nil
			return p
		}(),
		"OnlyOverview": func() *Properties {
			p := DefaultProperties()
			delete(p.Tiers, TierGroup.String())
			delete(p.Tiers, TierDetail.String())
			return p
		}(),
		"Empty": {},
	}

	for name, props := range configs {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(props)
			for _, tier := range Tiers {
				for _, n := range nodes {
					completeNode(t, r.Node(n, tier))
					completeLink(t, r.Link(parent, n, tier))
				}
			}
		})
	}
}

func TestResolverGroupAndDefaultKeys(t *testing.T) {
	h := withHooks(t)
	r := NewResolver(DefaultProperties())

	fac := r.Node(&hierarchy.Node{ID: "f", Group: "faculty"}, TierOverview)
	if fac.Radius != 14 || fac.Fill != "#2f6db5" {
		t.Errorf("faculty style = %+v", fac)
	}
	odd := r.Node(&hierarchy.Node{ID: "x", Group: "unknown"}, TierOverview)
	if odd.Radius != 4 {
		t.Errorf("unknown group radius = %v, want default 4", odd.Radius)
	}
	if len(h.misses) != 0 {
		t.Errorf("default-key fallback reported misses: %v", h.misses)
	}
}

func TestResolverDefaultTierFallback(t *testing.T) {
	h := withHooks(t)
	p := DefaultProperties()
	delete(p.Tiers, TierDetail.String())
	r := NewResolver(p)

	n := &hierarchy.Node{ID: "f", Group: "faculty"}
	got := r.Node(n, TierDetail)
	want := r.Node(n, DefaultTier)
	if got != want {
		t.Errorf("detail fallback = %+v, want default tier %+v", got, want)
	}

	var tierMisses int
	for _, m := range h.misses {
		if m == "detail/tier/detail" {
			tierMisses++
		}
	}
	if tierMisses != 1 {
		t.Errorf("tier misses = %d (%v), want 1", tierMisses, h.misses)
	}
}

func TestResolverBuiltinFallback(t *testing.T) {
	h := withHooks(t)
	var logs bytes.Buffer
	r := NewResolver(&Properties{}, WithLogger(newTestLogger(&logs)))

	s := r.Node(&hierarchy.Node{ID: "x", Group: "unit"}, TierGroup)
	want := NodeStyle{
		Radius:     BuiltinNodeRadius,
		Fill:       BuiltinNodeColor,
		TextColor:  BuiltinTextColor,
		FontSize:   BuiltinFontSize,
		FontWeight: BuiltinFontWeight,
		TextDX:     BuiltinTextXOffset,
		TextDY:     BuiltinTextYOffset,
	}
	if s != want {
		t.Errorf("Node() = %+v, want %+v", s, want)
	}
	if len(h.misses) == 0 {
		t.Error("expected lookup misses")
	}
	if !strings.Contains(logs.String(), string(apperrors.ErrCodeStyleLookupMiss)) {
		t.Errorf("log output missing code: %q", logs.String())
	}
}

func TestLinkMetrics(t *testing.T) {
	r := NewResolver(DefaultProperties())
	parent := &hierarchy.Node{ID: "root"}

	if got := r.LinkDistance(parent, &hierarchy.Node{Group: "faculty"}); got != 120 {
		t.Errorf("faculty distance = %v, want 120", got)
	}
	if got := r.LinkDistance(parent, &hierarchy.Node{Group: "unit"}); got != 40 {
		t.Errorf("unit distance = %v, want 40", got)
	}
	if got := r.LinkStrength(parent, &hierarchy.Node{Group: "unit"}); got != 0.9 {
		t.Errorf("unit strength = %v, want 0.9", got)
	}

	empty := NewResolver(&Properties{})
	if got := empty.LinkDistance(parent, parent); got != BuiltinLinkDistance {
		t.Errorf("builtin distance = %v", got)
	}
}

func TestChargeFor(t *testing.T) {
	r := NewResolver(DefaultProperties())
	leaf := &hierarchy.Node{ID: "u", Group: "unit"}
	hub := &hierarchy.Node{ID: "f", Group: "faculty", Children: []*hierarchy.Node{leaf, {ID: "v"}, {ID: "w"}}}

	charge := r.ChargeFor(hub)
	if got, want := charge(hub), -400*math.Sqrt(4); got != want {
		t.Errorf("scope root charge = %v, want %v", got, want)
	}
	if got := charge(leaf); got != -60 {
		t.Errorf("leaf charge = %v, want -60", got)
	}

	other := r.ChargeFor(nil)
	if got, want := other(hub), -240*math.Sqrt(4); got != want {
		t.Errorf("non-root hub charge = %v, want %v", got, want)
	}
}

func TestInitialZoom(t *testing.T) {
	r := NewResolver(DefaultProperties())

	if got := r.InitialZoom(100, 100); got != 0.8 {
		t.Errorf("InitialZoom(full) = %v, want 0.8", got)
	}
	if got := r.InitialZoom(25, 100); math.Abs(got-1.6) > 1e-9 {
		t.Errorf("InitialZoom(quarter) = %v, want 1.6", got)
	}
	if got := r.InitialZoom(1, 1_000_000); got != 6 {
		t.Errorf("InitialZoom(tiny) = %v, want max 6", got)
	}
}

func TestDecodeProperties(t *testing.T) {
	in := `
width = 1200
canvas_color = "#000000"

[many_body_strength]
faculty = -500

[tiers.detail.node_color]
unit = "#ff0000"
`
	p, err := DecodeProperties(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	if p.Width != 1200 || p.Height != 600 {
		t.Errorf("size = %vx%v, want 1200x600", p.Width, p.Height)
	}
	if p.CanvasColor != "#000000" {
		t.Errorf("canvas color = %q", p.CanvasColor)
	}
	if p.ManyBodyStrength["faculty"] != -500 || p.ManyBodyStrength[DefaultKey] != -60 {
		t.Errorf("many body = %v", p.ManyBodyStrength)
	}
	detail := p.Tiers[TierDetail.String()]
	if detail.NodeColor["unit"] != "#ff0000" || detail.NodeColor["school"] != "#4f9bd9" {
		t.Errorf("detail node colors = %v", detail.NodeColor)
	}
	if detail.NodeRadius[DefaultKey] != 8 {
		t.Errorf("detail radius lost: %v", detail.NodeRadius)
	}
}

func TestDecodePropertiesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"Syntax", "width = ="},
		{"NegativeWidth", "width = -1"},
		{"InvertedZoom", "min_zoom = 5\nmax_zoom = 1"},
		{"ZeroInitialZoom", "initial_zoom_scale = 0"},
		{"UnknownTier", "[tiers.galaxy.node_radius]\ndefault = 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProperties(strings.NewReader(tt.in))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPropertiesEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultProperties().Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	p, err := DecodeProperties(&buf)
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	if p.Tiers[TierGroup.String()].NodeRadius["faculty"] != 18 {
		t.Errorf("round trip lost tier data")
	}
}

func TestViewportFromProperties(t *testing.T) {
	p := DefaultProperties()
	p.InitialOffsetX = 15
	c := p.Viewport()
	if c.Width != 960 || c.OffsetX != 15 || c.MaxZoom != 6 {
		t.Errorf("Viewport() = %+v", c)
	}
}
