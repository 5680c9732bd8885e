// Package layout computes node positions: either a one-shot affine fit
// of externally supplied projection coordinates into view space, or an
// iterative force simulation for datasets without them.
package layout

import (
	"github.com/atlasviz/papergraph/pkg/graph"
)

// DefaultSpread is the factor applied on top of the aspect-preserving
// scale to reduce visual clumping of projected datasets.
const DefaultSpread = 1.2

// Projection is the affine mapping from supplied data-space coordinates
// to view space. It is a pure function of the node set and the view
// dimensions: fitting the same inputs twice yields identical values.
type Projection struct {
	Scale  float64
	TX, TY float64
}

// Apply maps one data-space coordinate into view space.
func (p Projection) Apply(x, y float64) (float64, float64) {
	return x*p.Scale + p.TX, y*p.Scale + p.TY
}

// FitProjection derives the affine mapping that centers the supplied
// coordinates in a width×height view with the given padding, preserving
// aspect ratio. A spread factor <= 0 falls back to DefaultSpread.
// Degenerate extents (all nodes at one point, or a single node) are
// treated as extent 1 so the result is always finite.
func FitProjection(nodes []*graph.Node, width, height, padding, spread float64) (Projection, bool) {
	b, ok := graph.ProjectionBoundsOf(nodes)
	if !ok {
		return Projection{Scale: 1}, false
	}
	if spread <= 0 {
		spread = DefaultSpread
	}
	ex := b.Width()
	if ex <= 0 {
		ex = 1
	}
	ey := b.Height()
	if ey <= 0 {
		ey = 1
	}
	innerW := width - 2*padding
	if innerW <= 0 {
		innerW = 1
	}
	innerH := height - 2*padding
	if innerH <= 0 {
		innerH = 1
	}
	scale := innerW / ex
	if s := innerH / ey; s < scale {
		scale = s
	}
	scale *= spread
	midX := (b.MinX + b.MaxX) / 2
	midY := (b.MinY + b.MaxY) / 2
	return Projection{
		Scale: scale,
		TX:    width/2 - midX*scale,
		TY:    height/2 - midY*scale,
	}, true
}

// ApplyProjection writes the fitted view-space position of every
// projected node into its layout position. Called once per data load;
// re-applying with the same fit is idempotent.
func ApplyProjection(nodes []*graph.Node, p Projection) {
	for _, n := range nodes {
		if !n.HasProjection {
			continue
		}
		n.X, n.Y = p.Apply(n.PX, n.PY)
		n.VX, n.VY = 0, 0
	}
}
