package live

import (
	"testing"

	"github.com/atlasviz/papergraph/pkg/engine"
	"github.com/atlasviz/papergraph/pkg/graph"
)

func sessionFixture(t *testing.T) (*engine.Engine, *Session, *engine.Scene) {
	t.Helper()
	eng := engine.New(engine.Options{Width: 800, Height: 600})
	t.Cleanup(eng.Close)
	eng.SetData([]*graph.Node{
		{ID: "a", Title: "Paper A", PX: -10, PY: -10, HasProjection: true},
		{ID: "b", Title: "Paper B", PX: 10, PY: 10, HasProjection: true},
	}, []graph.Edge{{Source: "a", Target: "b", Similarity: 0.7}})
	sc := eng.Scene()
	sess := &Session{server: NewServer(eng)}
	return eng, sess, sc
}

func TestSession_ClickWithinThreshold(t *testing.T) {
	eng, sess, sc := sessionFixture(t)

	c := sc.Circles[0]
	sess.handlePointer(Pointer{Kind: PointerDown, X: c.X, Y: c.Y})
	sess.handlePointer(Pointer{Kind: PointerMove, X: c.X + 1, Y: c.Y + 1})
	sess.handlePointer(Pointer{Kind: PointerUp, X: c.X + 1, Y: c.Y + 1})

	if sess.dragging || sess.down {
		t.Error("Expected gesture state cleared after click")
	}
	after := eng.Scene()
	if after.Circles[0].X != c.X || after.Circles[0].Y != c.Y {
		t.Error("Expected sub-threshold movement to leave the node in place")
	}
}

func TestSession_DragPastThreshold(t *testing.T) {
	eng, sess, sc := sessionFixture(t)

	c := sc.Circles[0]
	sess.handlePointer(Pointer{Kind: PointerDown, X: c.X, Y: c.Y})
	sess.handlePointer(Pointer{Kind: PointerMove, X: c.X + 50, Y: c.Y + 40})
	if !sess.dragging {
		t.Fatal("Expected drag after crossing the threshold")
	}

	after := eng.Scene()
	if after.Circles[0].X == c.X && after.Circles[0].Y == c.Y {
		t.Error("Expected dragged node to follow the pointer")
	}

	sess.handlePointer(Pointer{Kind: PointerUp, X: c.X + 50, Y: c.Y + 40})
	if sess.dragging || sess.down {
		t.Error("Expected gesture state cleared after release")
	}
}

func TestSession_GestureAbandonedOnDataSwap(t *testing.T) {
	eng, sess, sc := sessionFixture(t)

	c := sc.Circles[0]
	sess.handlePointer(Pointer{Kind: PointerDown, X: c.X, Y: c.Y})

	// A load completing mid-gesture replaces the dataset; the pressed
	// node belongs to the old one.
	eng.SetData([]*graph.Node{
		{ID: "x", Title: "Paper X", PX: 0, PY: 0, HasProjection: true},
	}, nil)
	eng.Scene()

	sess.handlePointer(Pointer{Kind: PointerMove, X: c.X + 50, Y: c.Y + 40})
	if sess.dragging || sess.down {
		t.Error("Expected gesture abandoned after dataset replacement")
	}
	if eng.Step() {
		t.Error("Expected no engine change from the abandoned gesture")
	}
}

func TestSession_CanvasDragPans(t *testing.T) {
	eng, sess, sc := sessionFixture(t)

	// Press on empty canvas, far from both nodes.
	sess.handlePointer(Pointer{Kind: PointerDown, X: 1, Y: 1})
	if sess.downID != "" {
		t.Fatalf("Expected press on empty canvas, hit %q", sess.downID)
	}
	sess.handlePointer(Pointer{Kind: PointerMove, X: 21, Y: 11})

	after := eng.Scene()
	dx := after.Circles[0].X - sc.Circles[0].X
	dy := after.Circles[0].Y - sc.Circles[0].Y
	if dx == 0 && dy == 0 {
		t.Error("Expected canvas drag to pan the view")
	}
}

func TestSession_HoverTracking(t *testing.T) {
	eng, sess, sc := sessionFixture(t)

	c := sc.Circles[1]
	sess.handlePointer(Pointer{Kind: PointerMove, X: c.X, Y: c.Y})

	after := eng.Scene()
	found := false
	for _, l := range after.Labels {
		if l.NodeID == c.NodeID {
			found = true
		}
	}
	if !found {
		t.Error("Expected hover label after moving onto a node")
	}

	// Pointer leaving the surface clears the hover.
	sess.handlePointer(Pointer{Kind: PointerOut, X: -1, Y: -1})
	cleared := eng.Scene()
	if len(cleared.Labels) != 0 {
		t.Errorf("Expected hover cleared on pointer out, got %d labels", len(cleared.Labels))
	}
}

func TestSession_WheelZooms(t *testing.T) {
	eng, sess, sc := sessionFixture(t)

	sess.handlePointer(Pointer{Kind: Wheel, Delta: -120, X: 400, Y: 300})
	after := eng.Scene()
	spread := after.Circles[1].X - after.Circles[0].X
	base := sc.Circles[1].X - sc.Circles[0].X
	if spread <= base {
		t.Errorf("Expected zoom to spread nodes, got %v then %v", base, spread)
	}
}
