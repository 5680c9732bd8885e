package preview

import (
	"strings"
	"testing"

	"github.com/atlasviz/papergraph/pkg/engine"
)

func TestRenderScene_Graph(t *testing.T) {
	sc := &engine.Scene{
		State:  engine.SceneGraph,
		Width:  40,
		Height: 10,
		Circles: []engine.Circle{
			{NodeID: "a", X: 5, Y: 2, Fill: "#6ea8fe", Opacity: 1},
			{NodeID: "b", X: 20, Y: 7, Fill: "#f97583", Opacity: 1},
		},
		Lines: []engine.Line{
			{X1: 5, Y1: 2, X2: 20, Y2: 7, Stroke: "#39424e", Opacity: 0.6},
		},
	}
	out := RenderScene(sc, 40, 10)
	if !strings.Contains(out, "●") {
		t.Error("Expected node glyphs in output")
	}
	if got := len(strings.Split(out, "\n")); got != 10 {
		t.Errorf("Expected 10 rows, got %d", got)
	}
}

func TestRenderScene_Labels(t *testing.T) {
	sc := &engine.Scene{
		State:  engine.SceneGraph,
		Width:  40,
		Height: 5,
		Circles: []engine.Circle{
			{NodeID: "a", X: 2, Y: 1, Fill: "#fff", Opacity: 1},
		},
		Labels: []engine.Label{
			{NodeID: "a", X: 4, Y: 1, Text: "Paper A", Color: "#eaeef3"},
		},
	}
	out := RenderScene(sc, 40, 5)
	if !strings.Contains(out, "Paper A") {
		t.Error("Expected label text in output")
	}
}

func TestRenderScene_EmptyState(t *testing.T) {
	sc := &engine.Scene{
		State:   engine.SceneEmpty,
		Message: "No matching papers",
	}
	out := RenderScene(sc, 40, 10)
	if !strings.Contains(out, "No matching papers") {
		t.Error("Expected placeholder message")
	}
}

func TestRenderScene_ErrorState(t *testing.T) {
	sc := &engine.Scene{
		State:   engine.SceneError,
		Message: "Failed to load papers: boom",
	}
	out := RenderScene(sc, 40, 10)
	if !strings.Contains(out, "Failed to load papers") {
		t.Error("Expected error message")
	}
}

func TestRenderScene_ZeroGrid(t *testing.T) {
	sc := &engine.Scene{State: engine.SceneGraph}
	if got := RenderScene(sc, 0, 0); got != "" {
		t.Errorf("Expected empty output for zero grid, got %q", got)
	}
}

func TestRenderScene_ClipsOutOfBounds(t *testing.T) {
	sc := &engine.Scene{
		State:  engine.SceneGraph,
		Width:  10,
		Height: 4,
		Circles: []engine.Circle{
			{NodeID: "a", X: -5, Y: -5, Fill: "#fff", Opacity: 1},
			{NodeID: "b", X: 500, Y: 500, Fill: "#fff", Opacity: 1},
		},
	}
	out := RenderScene(sc, 10, 4)
	if strings.Contains(out, "●") {
		t.Error("Expected out-of-bounds nodes clipped")
	}
}
