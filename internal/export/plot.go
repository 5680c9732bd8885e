// Package export renders a scene to a static image via gonum/plot.
// The same screen-space primitives the live viewer draws are replayed
// onto a plot canvas, so a snapshot always matches what a viewer saw.
package export

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/atlasviz/papergraph/pkg/engine"
)

// WriteScene renders the scene to path. The format follows the file
// extension (.png, .svg, .pdf), as gonum/plot decides by suffix.
func WriteScene(sc *engine.Scene, path string) error {
	if sc.State != engine.SceneGraph {
		return fmt.Errorf("exporting scene: nothing to draw (%s)", sc.Message)
	}
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = parseHex(sc.Background, color.NRGBA{R: 0x0b, G: 0x0e, B: 0x14, A: 0xff})

	for _, l := range sc.Lines {
		xys := plotter.XYs{
			// Scene y grows downward, plot y upward.
			{X: l.X1, Y: sc.Height - l.Y1},
			{X: l.X2, Y: sc.Height - l.Y2},
		}
		pl, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("building edge line: %w", err)
		}
		pl.Color = withOpacity(parseHex(l.Stroke, color.NRGBA{A: 0xff}), l.Opacity)
		pl.Width = vg.Points(l.Width)
		p.Add(pl)
	}
	for _, c := range sc.Circles {
		s, err := plotter.NewScatter(plotter.XYs{{X: c.X, Y: sc.Height - c.Y}})
		if err != nil {
			return fmt.Errorf("building node glyph: %w", err)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(c.Radius / 2)
		s.GlyphStyle.Color = withOpacity(parseHex(c.Fill, color.NRGBA{A: 0xff}), c.Opacity)
		p.Add(s)
	}

	w := vg.Points(sc.Width / 2)
	h := vg.Points(sc.Height / 2)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// parseHex parses "#rrggbb", falling back for anything else.
func parseHex(s string, fallback color.NRGBA) color.NRGBA {
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity * 255)
	return c
}
