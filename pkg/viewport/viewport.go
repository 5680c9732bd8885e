// Package viewport owns the pan/zoom transform mapping layout space to
// screen space. The transform is mutated only by gesture handlers and
// the explicit fit/reset commands; applying it to a point is O(1) so a
// full-scene remap stays linear in nodes plus edges.
package viewport

import (
	"math"

	"github.com/atlasviz/papergraph/pkg/graph"
)

// Transform is the current zoom/pan state: a uniform scale followed by
// a translation, applied independently per axis.
type Transform struct {
	TX, TY float64
	Scale  float64
}

// Identity returns the unit transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps a layout-space point to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TX, y*t.Scale + t.TY
}

// Invert maps a screen-space point back to layout space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.TX) / t.Scale, (y - t.TY) / t.Scale
}

// Controller owns the transform for one view surface.
type Controller struct {
	t        Transform
	minScale float64
	maxScale float64
	width    float64
	height   float64
}

// NewController creates a controller for a width×height surface with
// the given scale clamp range.
func NewController(width, height, minScale, maxScale float64) *Controller {
	if minScale <= 0 {
		minScale = 0.1
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	return &Controller{
		t:        Identity(),
		minScale: minScale,
		maxScale: maxScale,
		width:    width,
		height:   height,
	}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	return c.t
}

// Resize updates the surface dimensions. The transform is left alone;
// callers decide whether to refit.
func (c *Controller) Resize(width, height float64) {
	c.width = width
	c.height = height
}

// ZoomAt applies a wheel delta as a zoom centered on the screen point
// (cx, cy): the layout point under the pointer stays fixed. Scale is
// clamped to the configured range.
func (c *Controller) ZoomAt(delta, cx, cy float64) Transform {
	factor := 1 - math.Max(-0.5, math.Min(0.5, delta/500))
	return c.ZoomBy(factor, cx, cy)
}

// ZoomBy multiplies the scale by factor, keeping (cx, cy) fixed.
func (c *Controller) ZoomBy(factor, cx, cy float64) Transform {
	newScale := c.clampScale(c.t.Scale * factor)
	wx, wy := c.t.Invert(cx, cy)
	c.t.Scale = newScale
	c.t.TX = cx - wx*newScale
	c.t.TY = cy - wy*newScale
	return c.t
}

// Pan shifts the translation by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) Transform {
	c.t.TX += dx
	c.t.TY += dy
	return c.t
}

// Reset restores the identity transform.
func (c *Controller) Reset() Transform {
	c.t = Identity()
	return c.t
}

// FitTo derives the transform that centers the bounds in the surface
// with the given padding. Usable at any time, not just on load; the
// Reset View action routes here. Degenerate bounds are treated as
// extent 1 so the result is always finite.
func (c *Controller) FitTo(b graph.Bounds, padding float64) Transform {
	ex := b.Width()
	if ex <= 0 {
		ex = 1
	}
	ey := b.Height()
	if ey <= 0 {
		ey = 1
	}
	innerW := c.width - 2*padding
	if innerW <= 0 {
		innerW = 1
	}
	innerH := c.height - 2*padding
	if innerH <= 0 {
		innerH = 1
	}
	scale := innerW / ex
	if s := innerH / ey; s < scale {
		scale = s
	}
	scale = c.clampScale(scale)
	midX := (b.MinX + b.MaxX) / 2
	midY := (b.MinY + b.MaxY) / 2
	c.t = Transform{
		Scale: scale,
		TX:    c.width/2 - midX*scale,
		TY:    c.height/2 - midY*scale,
	}
	return c.t
}

// FitNodes fits the effective positions of the given nodes.
func (c *Controller) FitNodes(nodes []*graph.Node, padding float64) Transform {
	b, ok := graph.BoundsOf(nodes)
	if !ok {
		return c.Reset()
	}
	return c.FitTo(b, padding)
}

func (c *Controller) clampScale(s float64) float64 {
	if s < c.minScale {
		return c.minScale
	}
	if s > c.maxScale {
		return c.maxScale
	}
	return s
}
