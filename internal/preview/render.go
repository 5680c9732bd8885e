package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atlasviz/papergraph/pkg/engine"
)

// cell is one terminal grid slot. Later draws win, matching the scene's
// paint order (edges under nodes under labels).
type cell struct {
	ch    rune
	color string
	faint bool
}

// RenderScene draws a scene into a cols×rows text grid. The scene's
// screen space is assumed to match the grid dimensions; the preview
// model sizes the engine accordingly on every terminal resize.
func RenderScene(sc *engine.Scene, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	if sc.State != engine.SceneGraph {
		return centered(sc.Message, cols, rows)
	}

	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}
	put := func(x, y int, c cell) {
		if x < 0 || y < 0 || x >= cols || y >= rows {
			return
		}
		grid[y][x] = c
	}

	for _, l := range sc.Lines {
		drawLine(put, l)
	}
	for _, c := range sc.Circles {
		put(int(c.X), int(c.Y), cell{
			ch:    '●',
			color: c.Fill,
			faint: c.Opacity < 0.5,
		})
	}
	for _, l := range sc.Labels {
		x := int(l.X)
		y := int(l.Y)
		for i, r := range l.Text {
			if x+i >= cols {
				break
			}
			put(x+i, y, cell{ch: r, color: l.Color})
		}
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := grid[y][x]
			if c.ch == 0 {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle()
			if c.color != "" {
				style = style.Foreground(lipgloss.Color(c.color))
			}
			if c.faint {
				style = style.Faint(true)
			}
			b.WriteString(style.Render(string(c.ch)))
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// drawLine steps along the segment one grid cell at a time.
func drawLine(put func(int, int, cell), l engine.Line) {
	x1, y1 := int(l.X1), int(l.Y1)
	x2, y2 := int(l.X2), int(l.Y2)
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		return
	}
	c := cell{ch: '·', color: l.Stroke, faint: l.Opacity < 0.3}
	for i := 0; i <= steps; i++ {
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		put(x, y, c)
	}
}

func centered(msg string, cols, rows int) string {
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, msg)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
