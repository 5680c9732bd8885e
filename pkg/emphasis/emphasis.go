// Package emphasis derives per-element visual parameters from the
// hover/selection state. The derivation is a pure function of (element,
// state, edge set, theme): nothing here is cached or mutated, so rapid
// hover churn between frames cannot leave visuals out of sync.
package emphasis

import (
	"github.com/atlasviz/papergraph/pkg/graph"
	"github.com/atlasviz/papergraph/pkg/theme"
)

// State is the hover/selection bookkeeping. Empty ids mean "none".
// SelectedID is externally driven (the host decides what is selected);
// clicks report to the host rather than mutating this directly, so
// there is a single source of truth for selection.
type State struct {
	HoveredID  string
	SelectedID string
}

// Hovering reports whether any node is hovered.
func (s State) Hovering() bool {
	return s.HoveredID != ""
}

// NodeVisual is the resolved appearance of one node.
type NodeVisual struct {
	Radius       float64
	Fill         string
	Stroke       string
	StrokeWidth  float64
	Opacity      float64
	LabelVisible bool
}

// EdgeVisual is the resolved appearance of one edge.
type EdgeVisual struct {
	Stroke  string
	Width   float64
	Opacity float64
}

// DeriveNode computes a node's appearance. With a hover active, the
// hovered node and its edge-adjacent neighborhood stay fully opaque
// while everything else dims; the hovered and selected nodes carry
// visible labels, the selected node its distinguished fill.
func DeriveNode(n *graph.Node, st State, r *graph.Resolved, th theme.Theme) NodeVisual {
	v := NodeVisual{
		Radius:  th.NodeRadius,
		Fill:    th.ClusterColor(n.Cluster),
		Stroke:  th.NodeStroke,
		Opacity: 1,
	}
	selected := st.SelectedID != "" && n.ID == st.SelectedID
	if selected {
		v.Fill = th.SelectedFill
		v.Radius = th.SelectedRadius
		v.LabelVisible = true
	}
	if !st.Hovering() {
		return v
	}
	switch {
	case n.ID == st.HoveredID:
		v.Radius = th.HoverRadius
		if selected && th.SelectedRadius > v.Radius {
			v.Radius = th.SelectedRadius
		}
		v.Stroke = th.HoverStroke
		v.StrokeWidth = 1.5
		v.LabelVisible = true
	case r.Adjacent(n.ID, st.HoveredID):
		// Connected neighbors keep full emphasis.
	default:
		v.Opacity = th.DimmedNodeOpacity
	}
	return v
}

// DeriveEdge computes an edge's appearance. Edges incident to the
// hovered node are highlighted; the rest fade.
func DeriveEdge(e graph.ResolvedEdge, st State, th theme.Theme) EdgeVisual {
	v := EdgeVisual{
		Stroke:  th.EdgeStroke,
		Width:   th.EdgeWidth,
		Opacity: th.EdgeOpacity,
	}
	if !st.Hovering() {
		return v
	}
	if e.A.ID == st.HoveredID || e.B.ID == st.HoveredID {
		v.Stroke = th.EdgeHighlight
		v.Opacity = 1
		return v
	}
	v.Opacity = th.DimmedEdgeOpacity
	return v
}
