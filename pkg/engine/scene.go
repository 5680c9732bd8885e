package engine

// SceneState tells a renderer which of the three user-visible states to
// draw: the graph, an empty-result placeholder, or a terminal fetch
// error with a manual retry affordance. Failures are always a rendered
// state, never a panic escaping to the host.
type SceneState int

const (
	SceneGraph SceneState = iota
	SceneEmpty
	SceneError
)

// Circle is one node, already mapped to screen space. Radius is in
// screen pixels and does not scale with zoom.
type Circle struct {
	NodeID      string
	X, Y        float64
	Radius      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// Line is one edge in screen space.
type Line struct {
	X1, Y1  float64
	X2, Y2  float64
	Stroke  string
	Width   float64
	Opacity float64
}

// Label is a node title rendered beside its circle.
type Label struct {
	NodeID string
	X, Y   float64
	Text   string
	Size   float64
	Color  string
}

// Scene is the complete output of one render pass: everything a
// renderer needs to draw a frame, derived in a single pass from the
// engine state so no element has two sources of truth for its
// appearance.
type Scene struct {
	Seq     uint64
	State   SceneState
	Message string

	Width, Height float64
	Background    string

	Lines   []Line
	Circles []Circle
	Labels  []Label
}
