// Package viewport maps layout coordinates onto the canvas and applies
// zoom and pan gestures within fixed zoom bounds.
//
// A [Transform] is the usual translate-then-scale pair: a layout point
// (x, y) appears on the canvas at (x·K + X, y·K + Y). The layout engine
// centres graphs on the origin, so the initial transform translates to the
// canvas centre plus configured offsets.
//
// [Controller] is a value type holding canvas geometry and zoom bounds.
// Every transform it returns has K within [MinZoom, MaxZoom]; gestures
// carrying NaN, infinite or negative scale factors leave the transform
// unchanged, and so does any gesture on a transform with a degenerate K.
package viewport

import (
	"fmt"
	"math"
)

// Default zoom bounds used when a Controller leaves them unset.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0
)

// Transform is a uniform scale followed by a translation.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves points in place.
var Identity = Transform{K: 1}

// Apply maps a layout point onto the canvas.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a canvas point back into layout coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// String renders the transform as an SVG transform attribute value.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", t.X, t.Y, t.K)
}

// Gesture is one zoom/pan input. DX and DY pan in canvas pixels. Scale
// multiplies the current zoom about the canvas point (AnchorX, AnchorY);
// zero means no zoom.
type Gesture struct {
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	Scale   float64 `json:"scale"`
	AnchorX float64 `json:"anchor_x"`
	AnchorY float64 `json:"anchor_y"`
}

// Box is an axis-aligned bounding box in layout coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether the box contains no points.
func (b Box) Empty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// Bounds returns the bounding box of the given coordinates. The result is
// empty when xs is empty.
func Bounds(xs, ys []float64) Box {
	b := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for i := range xs {
		b.MinX = math.Min(b.MinX, xs[i])
		b.MaxX = math.Max(b.MaxX, xs[i])
		b.MinY = math.Min(b.MinY, ys[i])
		b.MaxY = math.Max(b.MaxY, ys[i])
	}
	return b
}

// Controller holds canvas geometry and zoom bounds.
type Controller struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	MinZoom float64
	MaxZoom float64
}

func (c Controller) bounds() (lo, hi float64) {
	lo, hi = c.MinZoom, c.MaxZoom
	if lo <= 0 {
		lo = DefaultMinZoom
	}
	if hi <= 0 {
		hi = DefaultMaxZoom
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Clamp limits k to the controller's zoom bounds.
func (c Controller) Clamp(k float64) float64 {
	lo, hi := c.bounds()
	return math.Max(lo, math.Min(hi, k))
}

// Initial returns the transform that centres the layout origin on the canvas
// (plus offsets) at the given scale.
func (c Controller) Initial(scale float64) Transform {
	if !usable(scale) {
		scale = 1
	}
	return Transform{
		X: c.Width/2 + c.OffsetX,
		Y: c.Height/2 + c.OffsetY,
		K: c.Clamp(scale),
	}
}

// ComputeInitial returns the initial transform for a scope of current nodes
// drawn out of full nodes in the whole catalog.
func (c Controller) ComputeInitial(current, full int, base float64) Transform {
	return c.Initial(InitialScale(current, full, base))
}

// InitialScale grows base by √(full/current) so that smaller scopes open
// closer in. Non-positive counts return base unchanged.
func InitialScale(current, full int, base float64) float64 {
	if current <= 0 || full <= 0 {
		return base
	}
	return base * math.Sqrt(float64(full)/float64(current))
}

// Apply returns t after the gesture g. Pan is applied before zoom. A gesture
// with a non-finite field or a negative scale returns t unchanged, as does a
// transform whose K is not a finite positive number or whose translation is
// not finite.
func (c Controller) Apply(t Transform, g Gesture) Transform {
	for _, f := range []float64{g.DX, g.DY, g.Scale, g.AnchorX, g.AnchorY, t.X, t.Y} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return t
		}
	}
	if g.Scale < 0 || !usable(t.K) {
		return t
	}

	t.X += g.DX
	t.Y += g.DY

	if g.Scale != 0 && g.Scale != 1 {
		wx, wy := t.Invert(g.AnchorX, g.AnchorY)
		t.K = c.Clamp(t.K * g.Scale)
		t.X = g.AnchorX - wx*t.K
		t.Y = g.AnchorY - wy*t.K
	}
	return t
}

// Fit returns the transform that shows box inside the canvas with padding
// pixels on every side. An empty box yields Initial(1).
func (c Controller) Fit(box Box, padding float64) Transform {
	if box.Empty() {
		return c.Initial(1)
	}

	w, h := box.MaxX-box.MinX, box.MaxY-box.MinY
	availW := math.Max(c.Width-2*padding, 1)
	availH := math.Max(c.Height-2*padding, 1)

	k := 1.0
	switch {
	case w > 0 && h > 0:
		k = math.Min(availW/w, availH/h)
	case w > 0:
		k = availW / w
	case h > 0:
		k = availH / h
	}
	k = c.Clamp(k)

	cx, cy := (box.MinX+box.MaxX)/2, (box.MinY+box.MaxY)/2
	return Transform{
		X: c.Width/2 + c.OffsetX - cx*k,
		Y: c.Height/2 + c.OffsetY - cy*k,
		K: k,
	}
}

func usable(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
