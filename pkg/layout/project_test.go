package layout

import (
	"math"
	"testing"

	"github.com/atlasviz/papergraph/pkg/graph"
)

func projectedNodes(coords ...[2]float64) []*graph.Node {
	out := make([]*graph.Node, len(coords))
	for i, c := range coords {
		out[i] = &graph.Node{
			ID: string(rune('a' + i)),
			PX: c[0], PY: c[1], HasProjection: true,
		}
	}
	return out
}

func TestFitProjection_Deterministic(t *testing.T) {
	nodes := projectedNodes([2]float64{-10, -5}, [2]float64{10, 5}, [2]float64{0, 0})

	p1, ok1 := FitProjection(nodes, 800, 600, 40, 0)
	p2, ok2 := FitProjection(nodes, 800, 600, 40, 0)
	if !ok1 || !ok2 {
		t.Fatal("Expected fit to succeed")
	}
	if p1 != p2 {
		t.Errorf("Expected identical projections, got %+v and %+v", p1, p2)
	}
}

func TestFitProjection_CentersContent(t *testing.T) {
	nodes := projectedNodes([2]float64{-10, -10}, [2]float64{10, 10})
	p, ok := FitProjection(nodes, 800, 600, 40, 1)
	if !ok {
		t.Fatal("Expected fit to succeed")
	}
	// The data midpoint lands on the view midpoint.
	cx, cy := p.Apply(0, 0)
	if math.Abs(cx-400) > 1e-9 || math.Abs(cy-300) > 1e-9 {
		t.Errorf("Expected midpoint at (400, 300), got (%v, %v)", cx, cy)
	}
}

func TestFitProjection_PreservesAspect(t *testing.T) {
	// Wide data in a tall-ish view: the horizontal extent binds.
	nodes := projectedNodes([2]float64{0, 0}, [2]float64{100, 10})
	p, ok := FitProjection(nodes, 840, 680, 40, 1)
	if !ok {
		t.Fatal("Expected fit to succeed")
	}
	want := (840.0 - 80) / 100
	if math.Abs(p.Scale-want) > 1e-9 {
		t.Errorf("Expected scale %v, got %v", want, p.Scale)
	}
}

func TestFitProjection_SpreadFactor(t *testing.T) {
	nodes := projectedNodes([2]float64{0, 0}, [2]float64{100, 100})
	base, _ := FitProjection(nodes, 800, 600, 40, 1)
	spread, _ := FitProjection(nodes, 800, 600, 40, 1.2)
	if math.Abs(spread.Scale-base.Scale*1.2) > 1e-9 {
		t.Errorf("Expected spread scale %v, got %v", base.Scale*1.2, spread.Scale)
	}
}

func TestFitProjection_DegenerateExtent(t *testing.T) {
	// All nodes at one point: the fit must stay finite and centered.
	nodes := projectedNodes([2]float64{5, 5}, [2]float64{5, 5})
	p, ok := FitProjection(nodes, 800, 600, 40, 1)
	if !ok {
		t.Fatal("Expected fit to succeed")
	}
	if math.IsInf(p.Scale, 0) || math.IsNaN(p.Scale) {
		t.Fatalf("Expected finite scale, got %v", p.Scale)
	}
	x, y := p.Apply(5, 5)
	if math.Abs(x-400) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Errorf("Expected coincident nodes centered at (400, 300), got (%v, %v)", x, y)
	}
}

func TestFitProjection_SingleNode(t *testing.T) {
	nodes := projectedNodes([2]float64{42, 17})
	p, ok := FitProjection(nodes, 800, 600, 40, 0)
	if !ok {
		t.Fatal("Expected fit to succeed")
	}
	x, y := p.Apply(42, 17)
	if math.Abs(x-400) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Errorf("Expected single node centered, got (%v, %v)", x, y)
	}
}

func TestFitProjection_NoProjectedNodes(t *testing.T) {
	nodes := []*graph.Node{{ID: "a"}, {ID: "b"}}
	if _, ok := FitProjection(nodes, 800, 600, 40, 0); ok {
		t.Error("Expected fit to fail without projection coordinates")
	}
}

func TestApplyProjection_Idempotent(t *testing.T) {
	nodes := projectedNodes([2]float64{-10, -5}, [2]float64{10, 5})
	p, _ := FitProjection(nodes, 800, 600, 40, 0)

	ApplyProjection(nodes, p)
	x1, y1 := nodes[0].X, nodes[0].Y
	ApplyProjection(nodes, p)
	if nodes[0].X != x1 || nodes[0].Y != y1 {
		t.Errorf("Expected re-apply to be idempotent, got (%v, %v) then (%v, %v)",
			x1, y1, nodes[0].X, nodes[0].Y)
	}
}

func TestApplyProjection_SkipsUnprojected(t *testing.T) {
	n := &graph.Node{ID: "a", X: 7, Y: 9}
	ApplyProjection([]*graph.Node{n}, Projection{Scale: 2, TX: 100, TY: 100})
	if n.X != 7 || n.Y != 9 {
		t.Errorf("Expected unprojected node untouched, got (%v, %v)", n.X, n.Y)
	}
}
