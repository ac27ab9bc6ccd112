package style

import (
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

// DefaultKey is the group key consulted when a node's own group is absent
// from a property map.
const DefaultKey = "default"

// RootKey is consulted before the group key when computing the charge of a
// scope root.
const RootKey = "root"

// Properties is the discovery-graph configuration snapshot.
type Properties struct {
	Width              float64 `toml:"width"`
	Height             float64 `toml:"height"`
	CanvasColor        string  `toml:"canvas_color"`
	CanvasBorderRadius float64 `toml:"canvas_border_radius"`
	InitialOffsetX     float64 `toml:"initial_offset_x"`
	InitialOffsetY     float64 `toml:"initial_offset_y"`
	InitialZoomScale   float64 `toml:"initial_zoom_scale"`
	MinZoom            float64 `toml:"min_zoom"`
	MaxZoom            float64 `toml:"max_zoom"`

	ManyBodyStrength map[string]float64 `toml:"many_body_strength"`
	LinkStrength     map[string]float64 `toml:"link_strength"`
	LinkDistance     map[string]float64 `toml:"link_distance"`

	Tiers map[string]TierProperties `toml:"tiers"`
}

// TierProperties holds the group-keyed visual maps for one tier.
type TierProperties struct {
	LinkWidth      map[string]float64 `toml:"link_width"`
	LinkOpacity    map[string]float64 `toml:"link_opacity"`
	LinkColor      map[string]string  `toml:"link_color"`
	NodeRadius     map[string]float64 `toml:"node_radius"`
	NodeColor      map[string]string  `toml:"node_color"`
	TextColor      map[string]string  `toml:"text_color"`
	TextFontSize   map[string]float64 `toml:"text_font_size"`
	TextFontWeight map[string]string  `toml:"text_font_weight"`
	TextXOffset    map[string]float64 `toml:"text_x_offset"`
	TextYOffset    map[string]float64 `toml:"text_y_offset"`
}

// DefaultProperties returns the built-in configuration. Group keys match the
// groups produced by pkg/catalog.
func DefaultProperties() *Properties {
	return &Properties{
		Width:            960,
		Height:           600,
		CanvasColor:      "#fcfcfd",
		InitialZoomScale: 0.8,
		MinZoom:          0.2,
		MaxZoom:          6,
		ManyBodyStrength: map[string]float64{
			DefaultKey: -60,
			RootKey:    -400,
			"faculty":  -240,
			"school":   -160,
			"level":    -160,
		},
		LinkStrength: map[string]float64{DefaultKey: 0.7, "unit": 0.9},
		LinkDistance: map[string]float64{
			DefaultKey: 40,
			"faculty":  120,
			"school":   80,
			"level":    80,
		},
		Tiers: map[string]TierProperties{
			TierOverview.String(): {
				LinkWidth:   map[string]float64{DefaultKey: 1.5, "faculty": 3},
				LinkOpacity: map[string]float64{DefaultKey: 0.6},
				LinkColor:   map[string]string{DefaultKey: "#b8bcc6"},
				NodeRadius: map[string]float64{
					DefaultKey: 4, "catalog": 22, "faculty": 14, "school": 9, "level": 9,
				},
				NodeColor: map[string]string{
					DefaultKey: "#8c96a8", "catalog": "#1f3a68", "faculty": "#2f6db5",
					"school": "#4f9bd9", "level": "#4f9bd9", "unit": "#a7c7e7",
				},
				TextColor:      map[string]string{DefaultKey: "#1d2330"},
				TextFontSize:   map[string]float64{DefaultKey: 7, "catalog": 16, "faculty": 12},
				TextFontWeight: map[string]string{DefaultKey: "normal", "catalog": "bold", "faculty": "bold"},
				TextXOffset:    map[string]float64{DefaultKey: 0},
				TextYOffset:    map[string]float64{DefaultKey: 24, "faculty": 22},
			},
			TierGroup.String(): {
				LinkWidth:   map[string]float64{DefaultKey: 1.2},
				LinkOpacity: map[string]float64{DefaultKey: 0.7},
				LinkColor:   map[string]string{DefaultKey: "#b8bcc6"},
				NodeRadius: map[string]float64{
					DefaultKey: 6, "faculty": 18, "school": 12, "level": 12,
				},
				NodeColor: map[string]string{
					DefaultKey: "#8c96a8", "faculty": "#2f6db5", "school": "#4f9bd9",
					"level": "#4f9bd9", "unit": "#a7c7e7",
				},
				TextColor:      map[string]string{DefaultKey: "#1d2330"},
				TextFontSize:   map[string]float64{DefaultKey: 9, "faculty": 14, "school": 11, "level": 11},
				TextFontWeight: map[string]string{DefaultKey: "normal", "faculty": "bold"},
				TextXOffset:    map[string]float64{DefaultKey: 9},
				TextYOffset:    map[string]float64{DefaultKey: 3},
			},
			TierDetail.String(): {
				LinkWidth:      map[string]float64{DefaultKey: 1},
				LinkOpacity:    map[string]float64{DefaultKey: 0.8},
				LinkColor:      map[string]string{DefaultKey: "#9aa1ad"},
				NodeRadius:     map[string]float64{DefaultKey: 8, "school": 16, "level": 16},
				NodeColor:      map[string]string{DefaultKey: "#a7c7e7", "school": "#4f9bd9", "level": "#4f9bd9"},
				TextColor:      map[string]string{DefaultKey: "#1d2330"},
				TextFontSize:   map[string]float64{DefaultKey: 11, "school": 14, "level": 14},
				TextFontWeight: map[string]string{DefaultKey: "normal", "school": "bold", "level": "bold"},
				TextXOffset:    map[string]float64{DefaultKey: 11},
				TextYOffset:    map[string]float64{DefaultKey: 4},
			},
		},
	}
}

// DecodeProperties reads TOML properties from r on top of
// [DefaultProperties]. Scalars present in the input replace the default;
// group maps merge key by key, tier by tier.
func DecodeProperties(r io.Reader) (*Properties, error) {
	var in Properties
	md, err := toml.NewDecoder(r).Decode(&in)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode style properties")
	}

	p := DefaultProperties()
	p.merge(&in, md)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProperties reads TOML properties from a file. See [DecodeProperties].
func LoadProperties(path string) (*Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()
	return DecodeProperties(f)
}

// Encode writes p as TOML.
func (p *Properties) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(p)
}

// Validate rejects geometry and zoom settings no canvas can honour.
func (p *Properties) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return invalid("canvas size must be positive, got %vx%v", p.Width, p.Height)
	case p.InitialZoomScale <= 0:
		return invalid("initial_zoom_scale must be positive, got %v", p.InitialZoomScale)
	case p.MinZoom <= 0:
		return invalid("min_zoom must be positive, got %v", p.MinZoom)
	case p.MinZoom > p.MaxZoom:
		return invalid("min_zoom %v exceeds max_zoom %v", p.MinZoom, p.MaxZoom)
	}
	for name := range p.Tiers {
		if _, err := ParseTier(name); err != nil {
			return invalid("tiers.%s: %v", name, err)
		}
	}
	return nil
}

// Viewport returns the viewport controller for the configured canvas.
func (p *Properties) Viewport() viewport.Controller {
	return viewport.Controller{
		Width:   p.Width,
		Height:  p.Height,
		OffsetX: p.InitialOffsetX,
		OffsetY: p.InitialOffsetY,
		MinZoom: p.MinZoom,
		MaxZoom: p.MaxZoom,
	}
}

func (p *Properties) merge(in *Properties, md toml.MetaData) {
	floats := []struct {
		key string
		dst *float64
		src float64
	}{
		{"width", &p.Width, in.Width},
		{"height", &p.Height, in.Height},
		{"canvas_border_radius", &p.CanvasBorderRadius, in.CanvasBorderRadius},
		{"initial_offset_x", &p.InitialOffsetX, in.InitialOffsetX},
		{"initial_offset_y", &p.InitialOffsetY, in.InitialOffsetY},
		{"initial_zoom_scale", &p.InitialZoomScale, in.InitialZoomScale},
		{"min_zoom", &p.MinZoom, in.MinZoom},
		{"max_zoom", &p.MaxZoom, in.MaxZoom},
	}
	for _, f := range floats {
		if md.IsDefined(f.key) {
			*f.dst = f.src
		}
	}
	if md.IsDefined("canvas_color") {
		p.CanvasColor = in.CanvasColor
	}

	p.ManyBodyStrength = mergeMap(p.ManyBodyStrength, in.ManyBodyStrength)
	p.LinkStrength = mergeMap(p.LinkStrength, in.LinkStrength)
	p.LinkDistance = mergeMap(p.LinkDistance, in.LinkDistance)

	if len(in.Tiers) > 0 && p.Tiers == nil {
		p.Tiers = make(map[string]TierProperties, len(in.Tiers))
	}
	for name, src := range in.Tiers {
		dst := p.Tiers[name]
		dst.LinkWidth = mergeMap(dst.LinkWidth, src.LinkWidth)
		dst.LinkOpacity = mergeMap(dst.LinkOpacity, src.LinkOpacity)
		dst.LinkColor = mergeMap(dst.LinkColor, src.LinkColor)
		dst.NodeRadius = mergeMap(dst.NodeRadius, src.NodeRadius)
		dst.NodeColor = mergeMap(dst.NodeColor, src.NodeColor)
		dst.TextColor = mergeMap(dst.TextColor, src.TextColor)
		dst.TextFontSize = mergeMap(dst.TextFontSize, src.TextFontSize)
		dst.TextFontWeight = mergeMap(dst.TextFontWeight, src.TextFontWeight)
		dst.TextXOffset = mergeMap(dst.TextXOffset, src.TextXOffset)
		dst.TextYOffset = mergeMap(dst.TextYOffset, src.TextYOffset)
		p.Tiers[name] = dst
	}
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]V, len(dst)+len(src))
	maps.Copy(out, dst)
	maps.Copy(out, src)
	return out
}

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "style properties: %s", fmt.Sprintf(format, args...))
}
