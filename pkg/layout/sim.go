package layout

import (
	"math"

	"github.com/atlasviz/papergraph/pkg/graph"
)

const noClusterLabel = graph.NoCluster

// initialRadius and initialAngle place unpositioned nodes on a
// phyllotaxis spiral, the same deterministic initializer d3 uses.
const (
	initialRadius = 10.0
	initialAngle  = math.Pi * (3 - 2.23606797749979) // π(3−√5)
)

// Simulation iteratively relaxes node positions under the configured
// forces. Ticks are driven by the caller at frame cadence; each tick
// runs a bounded amount of work and returns. The simulation holds its
// data for the lifetime of one dataset and must be stopped before the
// dataset is replaced.
type Simulation struct {
	data  *graph.Resolved
	cfg   Config
	alpha float64

	stopped bool
}

// NewSimulation builds a simulation over the resolved dataset. Nodes
// with a zero position and no pin are placed on a phyllotaxis spiral
// around the configured center so the first ticks have distinct
// positions to work with.
func NewSimulation(data *graph.Resolved, cfg Config) *Simulation {
	s := &Simulation{data: data, cfg: cfg, alpha: cfg.Alpha}
	i := 0
	for _, n := range data.Nodes {
		if n.X == 0 && n.Y == 0 && !n.Pinned {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.X = cfg.CenterX + r*math.Cos(a)
			n.Y = cfg.CenterY + r*math.Sin(a)
		}
		i++
	}
	return s
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Settled reports whether the temperature has decayed below the floor.
// A settled simulation skips force computation until reheated.
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin
}

// Reheat restores the temperature so the layout reacts to a drag.
func (s *Simulation) Reheat() {
	if s.stopped {
		return
	}
	if s.alpha < s.cfg.ReheatAlpha {
		s.alpha = s.cfg.ReheatAlpha
	}
}

// Stop permanently halts the simulation. Idempotent and safe to call
// after the owning surface is gone; subsequent ticks are no-ops.
func (s *Simulation) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop has been called.
func (s *Simulation) Stopped() bool {
	return s.stopped
}

// Tick advances the simulation one step. It returns true when node
// positions changed, false when the simulation is stopped or settled.
func (s *Simulation) Tick() bool {
	if s.stopped || s.Settled() || len(s.data.Nodes) == 0 {
		return false
	}
	alpha := s.alpha
	s.alpha += (0 - s.alpha) * s.cfg.AlphaDecay

	s.applyManyBody(alpha)
	s.applyLinks(alpha)
	s.applyCluster(alpha)

	for _, n := range s.data.Nodes {
		if n.Pinned {
			// A pinned node tracks its pin exactly; the forces act on
			// its neighbors, not on it.
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.cfg.Damping
		n.VY *= s.cfg.Damping
		n.X += n.VX
		n.Y += n.VY
	}

	s.applyCollide()
	s.applyCenter()
	return true
}
