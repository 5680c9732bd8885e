package live

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/atlasviz/papergraph/pkg/engine"
)

// Coordinates travel as zigzag varints in deci-pixels: compact for the
// common small-screen case and precise enough for drawing.
const coordQuantum = 10

var errBadFrame = errors.New("live: malformed frame")

// Encoder writes protocol primitives to a stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an encoder over w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) writeUvarint(v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := e.w.Write(buf[:n])
	return err
}

func (e *Encoder) writeVarint(v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := e.w.Write(buf[:n])
	return err
}

func (e *Encoder) writeString(s string) error {
	if err := e.writeUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

func (e *Encoder) writeByte(b byte) error {
	_, err := e.w.Write([]byte{b})
	return err
}

func (e *Encoder) writeCoord(v float64) error {
	return e.writeVarint(int64(math.Round(v * coordQuantum)))
}

func (e *Encoder) writeOpacity(v float64) error {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return e.writeByte(byte(math.Round(v * 255)))
}

// Decoder reads protocol primitives from a stream.
type Decoder struct {
	r *bytes.Reader
}

// NewDecoder creates a decoder over a message payload.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(data)}
}

func (d *Decoder) readUvarint() (uint64, error) {
	return binary.ReadUvarint(d.r)
}

func (d *Decoder) readVarint() (int64, error) {
	return binary.ReadVarint(d.r)
}

func (d *Decoder) readString() (string, error) {
	n, err := d.readUvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(d.r.Len()) {
		return "", errBadFrame
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *Decoder) readByte() (byte, error) {
	return d.r.ReadByte()
}

// readCount reads an element count and bounds it against the remaining
// payload, so a corrupt length cannot force a huge allocation. Every
// element occupies at least one byte.
func (d *Decoder) readCount() (int, error) {
	n, err := d.readUvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(d.r.Len()) {
		return 0, errBadFrame
	}
	return int(n), nil
}

func (d *Decoder) readCoord() (float64, error) {
	v, err := d.readVarint()
	return float64(v) / coordQuantum, err
}

func (d *Decoder) readOpacity() (float64, error) {
	b, err := d.readByte()
	return float64(b) / 255, err
}

// EncodeScene serializes one scene into a FrameScene message.
func EncodeScene(sc *engine.Scene) []byte {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	_ = e.writeByte(byte(FrameScene))
	_ = e.writeUvarint(sc.Seq)
	_ = e.writeByte(byte(sc.State))
	_ = e.writeString(sc.Message)
	_ = e.writeCoord(sc.Width)
	_ = e.writeCoord(sc.Height)
	_ = e.writeString(sc.Background)

	_ = e.writeUvarint(uint64(len(sc.Lines)))
	for _, l := range sc.Lines {
		_ = e.writeCoord(l.X1)
		_ = e.writeCoord(l.Y1)
		_ = e.writeCoord(l.X2)
		_ = e.writeCoord(l.Y2)
		_ = e.writeString(l.Stroke)
		_ = e.writeCoord(l.Width)
		_ = e.writeOpacity(l.Opacity)
	}
	_ = e.writeUvarint(uint64(len(sc.Circles)))
	for _, c := range sc.Circles {
		_ = e.writeString(c.NodeID)
		_ = e.writeCoord(c.X)
		_ = e.writeCoord(c.Y)
		_ = e.writeCoord(c.Radius)
		_ = e.writeString(c.Fill)
		_ = e.writeString(c.Stroke)
		_ = e.writeCoord(c.StrokeWidth)
		_ = e.writeOpacity(c.Opacity)
	}
	_ = e.writeUvarint(uint64(len(sc.Labels)))
	for _, l := range sc.Labels {
		_ = e.writeString(l.NodeID)
		_ = e.writeCoord(l.X)
		_ = e.writeCoord(l.Y)
		_ = e.writeString(l.Text)
		_ = e.writeCoord(l.Size)
		_ = e.writeString(l.Color)
	}
	return buf.Bytes()
}

// DecodeScene parses a FrameScene message. Used by Go clients and the
// codec tests; browser clients carry their own decoder.
func DecodeScene(data []byte) (*engine.Scene, error) {
	d := NewDecoder(data)
	ft, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if FrameType(ft) != FrameScene {
		return nil, fmt.Errorf("live: expected scene frame, got 0x%02x", ft)
	}
	sc := &engine.Scene{}
	if sc.Seq, err = d.readUvarint(); err != nil {
		return nil, err
	}
	st, err := d.readByte()
	if err != nil {
		return nil, err
	}
	sc.State = engine.SceneState(st)
	if sc.Message, err = d.readString(); err != nil {
		return nil, err
	}
	if sc.Width, err = d.readCoord(); err != nil {
		return nil, err
	}
	if sc.Height, err = d.readCoord(); err != nil {
		return nil, err
	}
	if sc.Background, err = d.readString(); err != nil {
		return nil, err
	}

	n, err := d.readCount()
	if err != nil {
		return nil, err
	}
	sc.Lines = make([]engine.Line, n)
	for i := range sc.Lines {
		l := &sc.Lines[i]
		if l.X1, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Y1, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.X2, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Y2, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Stroke, err = d.readString(); err != nil {
			return nil, err
		}
		if l.Width, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Opacity, err = d.readOpacity(); err != nil {
			return nil, err
		}
	}
	n, err = d.readCount()
	if err != nil {
		return nil, err
	}
	sc.Circles = make([]engine.Circle, n)
	for i := range sc.Circles {
		c := &sc.Circles[i]
		if c.NodeID, err = d.readString(); err != nil {
			return nil, err
		}
		if c.X, err = d.readCoord(); err != nil {
			return nil, err
		}
		if c.Y, err = d.readCoord(); err != nil {
			return nil, err
		}
		if c.Radius, err = d.readCoord(); err != nil {
			return nil, err
		}
		if c.Fill, err = d.readString(); err != nil {
			return nil, err
		}
		if c.Stroke, err = d.readString(); err != nil {
			return nil, err
		}
		if c.StrokeWidth, err = d.readCoord(); err != nil {
			return nil, err
		}
		if c.Opacity, err = d.readOpacity(); err != nil {
			return nil, err
		}
	}
	n, err = d.readCount()
	if err != nil {
		return nil, err
	}
	sc.Labels = make([]engine.Label, n)
	for i := range sc.Labels {
		l := &sc.Labels[i]
		if l.NodeID, err = d.readString(); err != nil {
			return nil, err
		}
		if l.X, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Y, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Text, err = d.readString(); err != nil {
			return nil, err
		}
		if l.Size, err = d.readCoord(); err != nil {
			return nil, err
		}
		if l.Color, err = d.readString(); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// EncodePointer serializes a pointer event into a FrameEvent message.
func EncodePointer(p Pointer) []byte {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	_ = e.writeByte(byte(FrameEvent))
	_ = e.writeByte(byte(p.Kind))
	_ = e.writeCoord(p.X)
	_ = e.writeCoord(p.Y)
	_ = e.writeCoord(p.Delta)
	return buf.Bytes()
}

// EncodeControl serializes a view command into a FrameControl message.
func EncodeControl(c Control) []byte {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	_ = e.writeByte(byte(FrameControl))
	_ = e.writeByte(byte(c.Op))
	_ = e.writeByte(c.Mode)
	_ = e.writeString(c.Text)
	return buf.Bytes()
}

// DecodePointer parses a FrameEvent message.
func DecodePointer(data []byte) (Pointer, error) {
	d := NewDecoder(data)
	ft, err := d.readByte()
	if err != nil {
		return Pointer{}, err
	}
	if FrameType(ft) != FrameEvent {
		return Pointer{}, fmt.Errorf("live: expected event frame, got 0x%02x", ft)
	}
	var p Pointer
	k, err := d.readByte()
	if err != nil {
		return Pointer{}, err
	}
	p.Kind = PointerKind(k)
	if p.X, err = d.readCoord(); err != nil {
		return Pointer{}, err
	}
	if p.Y, err = d.readCoord(); err != nil {
		return Pointer{}, err
	}
	if p.Delta, err = d.readCoord(); err != nil {
		return Pointer{}, err
	}
	return p, nil
}

// DecodeControl parses a FrameControl message.
func DecodeControl(data []byte) (Control, error) {
	d := NewDecoder(data)
	ft, err := d.readByte()
	if err != nil {
		return Control{}, err
	}
	if FrameType(ft) != FrameControl {
		return Control{}, fmt.Errorf("live: expected control frame, got 0x%02x", ft)
	}
	var c Control
	op, err := d.readByte()
	if err != nil {
		return Control{}, err
	}
	c.Op = ControlOp(op)
	if c.Mode, err = d.readByte(); err != nil {
		return Control{}, err
	}
	if c.Text, err = d.readString(); err != nil {
		return Control{}, err
	}
	return c, nil
}
