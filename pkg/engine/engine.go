// Package engine composes the rendering core: the coordinate resolver,
// force simulation driver, viewport controller, and interaction engine
// behind a single state owner that turns data plus pointer events into
// drawable scenes.
package engine

import (
	"sync"

	"github.com/atlasviz/papergraph/pkg/emphasis"
	"github.com/atlasviz/papergraph/pkg/graph"
	"github.com/atlasviz/papergraph/pkg/layout"
	"github.com/atlasviz/papergraph/pkg/theme"
	"github.com/atlasviz/papergraph/pkg/viewport"
)

// Mode selects which view the engine renders: the similarity-edge view
// or the cluster-grouping view. The mode decides the force mix and the
// zoom ceiling.
type Mode int

const (
	ModeSimilarity Mode = iota
	ModeCluster
)

// LayoutMode decides the position source for a dataset. LayoutAuto
// chooses the projection only when every node carries supplied
// coordinates; a partially populated dataset never mixes modes.
type LayoutMode int

const (
	LayoutAuto LayoutMode = iota
	LayoutProjection
	LayoutForce
)

const (
	minScale        = 0.1
	maxScaleFlat    = 4
	maxScaleCluster = 10
	fitPadding      = 40.0
	pickSlack       = 2.0
	labelOffset     = 4.0

	emptyMessage = "No matching papers"
)

// Options configures a new engine. The host must supply explicit pixel
// dimensions; the engine never measures its surface, and the host is
// responsible for calling Resize when its container changes.
type Options struct {
	Width, Height float64
	Mode          Mode
	Layout        LayoutMode
	Theme         theme.Theme

	// Spread widens a fitted projection to reduce clumping.
	// Zero uses the layout package default.
	Spread float64

	// OnNodeClick reports clicks to the paper-details collaborator.
	// OnNodeHover reports hover changes, nil on hover-leave.
	OnNodeClick func(*graph.Node)
	OnNodeHover func(*graph.Node)
}

// Engine is the single owner of all mutable rendering state. Methods
// serialize through one mutex, the Go stand-in for the UI thread; host
// callbacks run outside the lock so they may call back in.
type Engine struct {
	mu sync.Mutex

	opts Options
	th   theme.Theme

	data *graph.Resolved
	sim  *layout.Simulation
	view *viewport.Controller
	emph emphasis.State

	state  SceneState
	errMsg string

	dragID     string
	dragActive bool

	gen   uint64
	seq   uint64
	dirty bool
}

// New creates an engine with no data; the first SetData call populates
// it. The initial rendered state is the empty placeholder.
func New(opts Options) *Engine {
	maxScale := float64(maxScaleFlat)
	if opts.Mode == ModeCluster {
		maxScale = maxScaleCluster
	}
	return &Engine{
		opts:  opts,
		th:    opts.Theme.WithDefaults(),
		view:  viewport.NewController(opts.Width, opts.Height, minScale, maxScale),
		state: SceneEmpty,
		dirty: true,
	}
}

// Generation returns the dataset generation, bumped on every SetData.
// In-flight work holding an older generation must discard its result.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// SetData replaces the node and edge sets wholesale. The previous
// simulation is stopped, edges are resolved against the new node set,
// the layout mode decision is made once for the load, and the viewport
// is refit to the new content.
func (e *Engine) SetData(nodes []*graph.Node, edges []graph.Edge) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.teardownLocked()
	e.gen++
	e.emph = emphasis.State{}
	e.errMsg = ""

	e.data = graph.Resolve(nodes, edges)
	if e.data.Len() == 0 {
		e.state = SceneEmpty
		e.dirty = true
		return
	}
	e.state = SceneGraph

	useProjection := false
	switch e.opts.Layout {
	case LayoutProjection:
		useProjection = true
	case LayoutAuto:
		useProjection = graph.AllProjected(nodes)
	}

	if useProjection {
		p, ok := layout.FitProjection(nodes, e.opts.Width, e.opts.Height, fitPadding, e.opts.Spread)
		if ok {
			layout.ApplyProjection(nodes, p)
		}
	} else {
		e.sim = layout.NewSimulation(e.data, e.forceConfigLocked())
	}
	e.view.FitNodes(nodes, fitPadding)
	e.dirty = true
}

// SetError puts the engine into the terminal error state. The message
// is rendered with a manual retry affordance; the engine never retries
// on its own.
func (e *Engine) SetError(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.state = SceneError
	e.errMsg = msg
	e.dirty = true
}

// SetMode switches between the similarity and cluster views, rebuilding
// the layout for the current dataset.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	if m == e.opts.Mode {
		e.mu.Unlock()
		return
	}
	e.opts.Mode = m
	maxScale := float64(maxScaleFlat)
	if m == ModeCluster {
		maxScale = maxScaleCluster
	}
	e.view = viewport.NewController(e.opts.Width, e.opts.Height, minScale, maxScale)
	data := e.data
	e.mu.Unlock()
	if data != nil {
		e.SetData(data.Nodes, rawEdges(data))
	}
}

// Mode returns the current view mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts.Mode
}

// Resize updates the surface dimensions. The simulation is torn down
// and recreated, as on a data change, so its centering force targets
// the new midpoint.
func (e *Engine) Resize(width, height float64) {
	e.mu.Lock()
	if width == e.opts.Width && height == e.opts.Height {
		e.mu.Unlock()
		return
	}
	e.opts.Width = width
	e.opts.Height = height
	e.view.Resize(width, height)
	data := e.data
	e.mu.Unlock()
	if data != nil {
		e.SetData(data.Nodes, rawEdges(data))
	}
}

// SetSelected sets the externally driven selection. Selection is a host
// prop, not click history; see ClickEvent.
func (e *Engine) SetSelected(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.emph.SelectedID != id {
		e.emph.SelectedID = id
		e.dirty = true
	}
}

// Pan shifts the viewport by a screen-space delta, outside any drag
// gesture. Drag-to-pan goes through DragEvent instead.
func (e *Engine) Pan(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Pan(dx, dy)
	e.dirty = true
}

// ResetView refits the viewport to the current content. Bound to the
// explicit Reset View action.
func (e *Engine) ResetView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data != nil && e.data.Len() > 0 {
		e.view.FitNodes(e.data.Nodes, fitPadding)
	} else {
		e.view.Reset()
	}
	e.dirty = true
}

// Close stops the engine. Idempotent; safe after the surface is gone.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
}

// teardownLocked stops the running simulation so no orphaned ticks can
// mutate a replaced dataset. Must never panic.
func (e *Engine) teardownLocked() {
	if e.sim != nil {
		e.sim.Stop()
		e.sim = nil
	}
	e.dragID = ""
	e.dragActive = false
}

func (e *Engine) forceConfigLocked() layout.Config {
	if e.opts.Mode == ModeCluster {
		return layout.ClusterConfig(e.opts.Width, e.opts.Height)
	}
	return layout.SimilarityConfig(e.opts.Width, e.opts.Height)
}

// rawEdges recovers the plain edge list from a resolved dataset so the
// layout can be rebuilt against the same nodes.
func rawEdges(r *graph.Resolved) []graph.Edge {
	out := make([]graph.Edge, len(r.Edges))
	for i, e := range r.Edges {
		out[i] = graph.Edge{Source: e.A.ID, Target: e.B.ID, Similarity: e.Similarity}
	}
	return out
}

// Step advances the engine one cooperative frame tick and reports
// whether anything changed since the last Scene call. Renderer loops
// call Step at animation-frame cadence and rebuild the scene only when
// it returns true.
func (e *Engine) Step() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim != nil && e.sim.Tick() {
		e.dirty = true
	}
	return e.dirty
}

// HandleEvent applies one pointer event. Host callbacks fire after the
// engine's own state has been updated and the lock released.
func (e *Engine) HandleEvent(ev Event) {
	var notify func()
	e.mu.Lock()
	switch ev := ev.(type) {
	case HoverEvent:
		notify = e.applyHoverLocked(ev)
	case ClickEvent:
		if n := e.nodeLocked(ev.NodeID); n != nil && e.opts.OnNodeClick != nil {
			cb := e.opts.OnNodeClick
			notify = func() { cb(n) }
		}
	case DragEvent:
		e.applyDragLocked(ev)
	case WheelEvent:
		e.view.ZoomAt(ev.Delta, ev.X, ev.Y)
		e.dirty = true
	}
	e.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (e *Engine) nodeLocked(id string) *graph.Node {
	if e.data == nil || id == "" {
		return nil
	}
	return e.data.Node(id)
}

func (e *Engine) applyHoverLocked(ev HoverEvent) func() {
	cb := e.opts.OnNodeHover
	if ev.NodeID == "" {
		if e.emph.HoveredID == "" {
			return nil
		}
		e.emph.HoveredID = ""
		e.dirty = true
		if cb == nil {
			return nil
		}
		return func() { cb(nil) }
	}
	n := e.nodeLocked(ev.NodeID)
	if n == nil || e.emph.HoveredID == ev.NodeID {
		return nil
	}
	e.emph.HoveredID = ev.NodeID
	e.dirty = true
	if cb == nil {
		return nil
	}
	return func() { cb(n) }
}

func (e *Engine) applyDragLocked(ev DragEvent) {
	switch ev.Phase {
	case DragStart:
		if n := e.nodeLocked(ev.NodeID); n != nil {
			e.dragID = ev.NodeID
			e.dragActive = true
			x, y := n.Pos()
			n.Pin(x, y)
			if e.sim != nil {
				e.sim.Reheat()
			}
		} else {
			e.dragID = ""
			e.dragActive = true
		}
		e.dirty = true
	case DragMove:
		if !e.dragActive {
			return
		}
		if n := e.nodeLocked(e.dragID); n != nil {
			wx, wy := e.view.Transform().Invert(ev.X, ev.Y)
			n.Pin(wx, wy)
		} else {
			e.view.Pan(ev.DX, ev.DY)
		}
		e.dirty = true
	case DragEnd:
		if n := e.nodeLocked(e.dragID); n != nil {
			n.Unpin()
		}
		e.dragID = ""
		e.dragActive = false
		e.dirty = true
	}
}

// PickNode returns the id of the topmost node under a screen point, or
// empty. Hit radii are screen-space, matching the drawn circles, so an
// emphasized node is pickable out to its enlarged rim.
func (e *Engine) PickNode(sx, sy float64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data == nil {
		return ""
	}
	t := e.view.Transform()
	for _, n := range e.data.Nodes {
		x, y := n.Pos()
		cx, cy := t.Apply(x, y)
		r := emphasis.DeriveNode(n, e.emph, e.data, e.th).Radius + pickSlack
		dx, dy := sx-cx, sy-cy
		if dx*dx+dy*dy <= r*r {
			return n.ID
		}
	}
	return ""
}

// Scene derives the current frame in a single pass: every visual
// attribute comes from the same state, so there is no second source of
// truth to drift. Cheap relative to drawing: O(nodes + edges).
func (e *Engine) Scene() *Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.dirty = false

	sc := &Scene{
		Seq:        e.seq,
		State:      e.state,
		Width:      e.opts.Width,
		Height:     e.opts.Height,
		Background: e.th.Background,
	}
	switch e.state {
	case SceneEmpty:
		sc.Message = emptyMessage
		return sc
	case SceneError:
		sc.Message = e.errMsg
		return sc
	}

	t := e.view.Transform()
	sc.Lines = make([]Line, 0, len(e.data.Edges))
	for _, edge := range e.data.Edges {
		ev := emphasis.DeriveEdge(edge, e.emph, e.th)
		ax, ay := edge.A.Pos()
		bx, by := edge.B.Pos()
		x1, y1 := t.Apply(ax, ay)
		x2, y2 := t.Apply(bx, by)
		sc.Lines = append(sc.Lines, Line{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Stroke: ev.Stroke, Width: ev.Width, Opacity: ev.Opacity,
		})
	}
	sc.Circles = make([]Circle, 0, len(e.data.Nodes))
	for _, n := range e.data.Nodes {
		nv := emphasis.DeriveNode(n, e.emph, e.data, e.th)
		x, y := n.Pos()
		cx, cy := t.Apply(x, y)
		sc.Circles = append(sc.Circles, Circle{
			NodeID: n.ID, X: cx, Y: cy,
			Radius: nv.Radius, Fill: nv.Fill,
			Stroke: nv.Stroke, StrokeWidth: nv.StrokeWidth,
			Opacity: nv.Opacity,
		})
		if nv.LabelVisible {
			sc.Labels = append(sc.Labels, Label{
				NodeID: n.ID,
				X:      cx + nv.Radius + labelOffset,
				Y:      cy,
				Text:   n.Title,
				Size:   e.th.LabelSize,
				Color:  e.th.LabelColor,
			})
		}
	}
	return sc
}
