package engine

// Event is the closed set of pointer interactions the engine handles.
// Renderer adapters translate platform input into these variants; the
// engine switches over them exhaustively.
type Event interface {
	isEvent()
}

// HoverEvent reports the pointer entering a node, or leaving all nodes
// when NodeID is empty.
type HoverEvent struct {
	NodeID string
}

// ClickEvent reports a click on a node. The engine forwards it to the
// host callback; it does not mutate selection itself.
type ClickEvent struct {
	NodeID string
}

// DragPhase distinguishes the stages of a drag gesture.
type DragPhase int

const (
	DragStart DragPhase = iota
	DragMove
	DragEnd
)

// DragEvent reports a drag gesture in screen coordinates. A drag that
// started on a node (NodeID set) moves that node; a drag on empty
// canvas pans the viewport.
type DragEvent struct {
	Phase  DragPhase
	NodeID string
	X, Y   float64
	DX, DY float64
}

// WheelEvent reports a zoom gesture at a screen point.
type WheelEvent struct {
	Delta float64
	X, Y  float64
}

func (HoverEvent) isEvent() {}
func (ClickEvent) isEvent() {}
func (DragEvent) isEvent()  {}
func (WheelEvent) isEvent() {}
