// Package live streams rendered scenes to connected viewers over
// WebSocket and translates their pointer input back into engine
// events. Frames carry a sequence number so a client can drop frames
// that arrive out of order.
package live

// FrameType is the first byte of every protocol message.
type FrameType uint8

const (
	// FrameScene carries one encoded scene, server to client.
	FrameScene FrameType = 0x00
	// FrameEvent carries one pointer event, client to server.
	FrameEvent FrameType = 0x01
	// FrameControl carries a view command, client to server.
	FrameControl FrameType = 0x02
)

// PointerKind identifies a client pointer event.
type PointerKind uint8

const (
	PointerMove PointerKind = 0x01
	PointerDown PointerKind = 0x02
	PointerUp   PointerKind = 0x03
	PointerOut  PointerKind = 0x04
	Wheel       PointerKind = 0x05
)

// Pointer is a decoded client pointer event in screen coordinates.
type Pointer struct {
	Kind  PointerKind
	X, Y  float64
	Delta float64
}

// ControlOp identifies a view command.
type ControlOp uint8

const (
	ControlReset  ControlOp = 0x01
	ControlMode   ControlOp = 0x02
	ControlSearch ControlOp = 0x03
	ControlRetry  ControlOp = 0x04
	ControlArea   ControlOp = 0x05
)

// Control is a decoded view command.
type Control struct {
	Op   ControlOp
	Mode uint8
	Text string
}
