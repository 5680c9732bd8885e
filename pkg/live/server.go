package live

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/atlasviz/papergraph/pkg/engine"
)

// dragThreshold separates a click from a drag: the pointer must travel
// more than this many screen pixels after press for the gesture to
// count as a drag.
const dragThreshold = 3.0

// Server accepts viewer connections, broadcasts scene frames, and
// feeds decoded client input into the engine.
type Server struct {
	upgrader websocket.Upgrader
	eng      *engine.Engine

	// OnControl receives view commands (reset, mode switch, search,
	// retry) for the host to act on.
	OnControl func(Control)

	// Snapshot, when set, supplies the current scene frame so a newly
	// connected session gets a picture before the next broadcast.
	Snapshot func() []byte

	mu       sync.RWMutex
	sessions map[*Session]struct{}
	nextID   uint64
}

// NewServer creates a live server bound to one engine.
func NewServer(eng *engine.Engine) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		eng:      eng,
		sessions: make(map[*Session]struct{}),
	}
}

// HandleWebSocket upgrades the request and runs the session until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.nextID++
	sess := &Session{
		id:     s.nextID,
		conn:   conn,
		send:   make(chan []byte, 64),
		server: s,
	}
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()

	if s.Snapshot != nil {
		if frame := s.Snapshot(); frame != nil {
			sess.send <- frame
		}
	}
	go sess.writePump()
	go sess.readPump()
}

// Broadcast queues a frame for every connected session. Sessions that
// cannot keep up drop frames rather than stalling the frame loop.
func (s *Server) Broadcast(frame []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sess := range s.sessions {
		select {
		case sess.send <- frame:
		default:
		}
	}
}

// SessionCount returns the number of connected viewers.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) drop(sess *Session) {
	s.mu.Lock()
	if _, ok := s.sessions[sess]; ok {
		delete(s.sessions, sess)
		close(sess.send)
	}
	s.mu.Unlock()
}

// Session is one connected viewer. It keeps the per-connection gesture
// state needed to turn raw pointer frames into the engine's typed
// events: which node the press landed on, and whether the pointer has
// moved far enough for the gesture to be a drag.
type Session struct {
	id     uint64
	conn   *websocket.Conn
	send   chan []byte
	server *Server

	down     bool
	dragging bool
	downID   string
	downGen  uint64
	downX    float64
	downY    float64
	lastX    float64
	lastY    float64
}

func (sess *Session) readPump() {
	defer func() {
		sess.server.drop(sess)
		sess.conn.Close()
	}()
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		if len(data) == 0 {
			continue
		}
		switch FrameType(data[0]) {
		case FrameEvent:
			p, err := DecodePointer(data)
			if err != nil {
				log.Printf("[live] session %d: bad event frame: %v", sess.id, err)
				continue
			}
			sess.handlePointer(p)
		case FrameControl:
			c, err := DecodeControl(data)
			if err != nil {
				log.Printf("[live] session %d: bad control frame: %v", sess.id, err)
				continue
			}
			if sess.server.OnControl != nil {
				sess.server.OnControl(c)
			}
		}
	}
}

func (sess *Session) writePump() {
	for frame := range sess.send {
		if err := sess.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
}

// handlePointer translates one pointer frame. Press then release
// without crossing the drag threshold is a click; crossing it starts a
// drag of the pressed node, or a viewport pan when the press landed on
// empty canvas.
func (sess *Session) handlePointer(p Pointer) {
	eng := sess.server.eng
	switch p.Kind {
	case PointerMove:
		dx := p.X - sess.lastX
		dy := p.Y - sess.lastY
		sess.lastX, sess.lastY = p.X, p.Y
		if sess.down {
			// The dataset was replaced mid-gesture; the pressed node
			// belongs to the old generation, so abandon the gesture.
			if eng.Generation() != sess.downGen {
				sess.down = false
				sess.dragging = false
				sess.downID = ""
				return
			}
			if !sess.dragging {
				mx := p.X - sess.downX
				my := p.Y - sess.downY
				if mx*mx+my*my > dragThreshold*dragThreshold {
					sess.dragging = true
					eng.HandleEvent(engine.DragEvent{
						Phase:  engine.DragStart,
						NodeID: sess.downID,
						X:      sess.downX,
						Y:      sess.downY,
					})
				}
			}
			if sess.dragging {
				eng.HandleEvent(engine.DragEvent{
					Phase:  engine.DragMove,
					NodeID: sess.downID,
					X:      p.X,
					Y:      p.Y,
					DX:     dx,
					DY:     dy,
				})
			}
			return
		}
		eng.HandleEvent(engine.HoverEvent{NodeID: eng.PickNode(p.X, p.Y)})
	case PointerDown:
		sess.down = true
		sess.dragging = false
		sess.downX, sess.downY = p.X, p.Y
		sess.lastX, sess.lastY = p.X, p.Y
		sess.downID = eng.PickNode(p.X, p.Y)
		sess.downGen = eng.Generation()
	case PointerUp:
		if sess.dragging {
			eng.HandleEvent(engine.DragEvent{
				Phase:  engine.DragEnd,
				NodeID: sess.downID,
				X:      p.X,
				Y:      p.Y,
			})
		} else if sess.down && sess.downID != "" && eng.Generation() == sess.downGen {
			eng.HandleEvent(engine.ClickEvent{NodeID: sess.downID})
		}
		sess.down = false
		sess.dragging = false
		sess.downID = ""
	case PointerOut:
		if sess.dragging {
			eng.HandleEvent(engine.DragEvent{Phase: engine.DragEnd, NodeID: sess.downID, X: p.X, Y: p.Y})
		}
		sess.down = false
		sess.dragging = false
		sess.downID = ""
		eng.HandleEvent(engine.HoverEvent{})
	case Wheel:
		eng.HandleEvent(engine.WheelEvent{Delta: p.Delta, X: p.X, Y: p.Y})
	}
}
