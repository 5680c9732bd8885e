// Package graph holds the data model for the paper similarity graph:
// nodes (papers), edges (similarity relationships), and the resolved
// form the rendering engine works against.
package graph

// NoCluster marks a node without a cluster assignment.
const NoCluster = -1

// Node represents one paper in the graph.
//
// A node's effective draw position is resolved in priority order:
// a pinned position set during a drag, then the simulation-owned
// (or projection-assigned) position. Projection coordinates, when
// present on every node of a dataset, are mapped into view space
// once per load and written to X/Y; the simulation never runs for
// such a dataset.
type Node struct {
	ID           string
	Title        string
	Authors      []string
	SubjectAreas []string

	// Cluster is the grouping label assigned upstream, NoCluster if none.
	Cluster int

	// PX/PY are externally supplied projection coordinates in data
	// space (e.g. from t-SNE). Valid only when HasProjection is set.
	PX, PY        float64
	HasProjection bool

	// X/Y and VX/VY are the mutable layout position and velocity.
	X, Y   float64
	VX, VY float64

	// FX/FY pin the node while a drag is in progress. Cleared on release.
	FX, FY float64
	Pinned bool
}

// Pos returns the node's effective draw position.
func (n *Node) Pos() (float64, float64) {
	if n.Pinned {
		return n.FX, n.FY
	}
	return n.X, n.Y
}

// Pin fixes the node at the given position.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = x, y
	n.Pinned = true
}

// Unpin releases the pin. The node keeps the pinned position as its
// layout position so it stays where it was dropped.
func (n *Node) Unpin() {
	if n.Pinned {
		n.X, n.Y = n.FX, n.FY
		n.VX, n.VY = 0, 0
	}
	n.Pinned = false
	n.FX, n.FY = 0, 0
}

// Edge is an unordered similarity relationship between two papers,
// referencing nodes by identifier. Similarity is in [0, 1].
type Edge struct {
	Source     string
	Target     string
	Similarity float64
}

// Bounds is an axis-aligned bounding box in layout space.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent, never negative.
func (b Bounds) Width() float64 {
	if b.MaxX < b.MinX {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the vertical extent, never negative.
func (b Bounds) Height() float64 {
	if b.MaxY < b.MinY {
		return 0
	}
	return b.MaxY - b.MinY
}

// BoundsOf computes the bounding box of the nodes' effective positions.
// The second result is false for an empty node set.
func BoundsOf(nodes []*Node) (Bounds, bool) {
	if len(nodes) == 0 {
		return Bounds{}, false
	}
	x0, y0 := nodes[0].Pos()
	b := Bounds{MinX: x0, MinY: y0, MaxX: x0, MaxY: y0}
	for _, n := range nodes[1:] {
		x, y := n.Pos()
		if x < b.MinX {
			b.MinX = x
		}
		if y < b.MinY {
			b.MinY = y
		}
		if x > b.MaxX {
			b.MaxX = x
		}
		if y > b.MaxY {
			b.MaxY = y
		}
	}
	return b, true
}

// ProjectionBoundsOf computes the bounding box of supplied projection
// coordinates, ignoring nodes without one.
func ProjectionBoundsOf(nodes []*Node) (Bounds, bool) {
	first := true
	var b Bounds
	for _, n := range nodes {
		if !n.HasProjection {
			continue
		}
		if first {
			b = Bounds{MinX: n.PX, MinY: n.PY, MaxX: n.PX, MaxY: n.PY}
			first = false
			continue
		}
		if n.PX < b.MinX {
			b.MinX = n.PX
		}
		if n.PY < b.MinY {
			b.MinY = n.PY
		}
		if n.PX > b.MaxX {
			b.MaxX = n.PX
		}
		if n.PY > b.MaxY {
			b.MaxY = n.PY
		}
	}
	return b, !first
}

// AllProjected reports whether every node carries a supplied projection
// coordinate. The projection/force decision is all-or-nothing per load;
// a partially populated dataset falls back to the force layout.
func AllProjected(nodes []*Node) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if !n.HasProjection {
			return false
		}
	}
	return true
}
