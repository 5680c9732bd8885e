package layout

import "math"

// Config holds the force coefficients for one simulation run. The two
// view modes use different mixes: the similarity view relies on edge
// springs with weak repulsion, the cluster view on strong repulsion
// plus a centroid attraction per cluster label.
type Config struct {
	// ManyBodyStrength is the pairwise repulsion coefficient. Negative
	// repels, as in the d3 convention.
	ManyBodyStrength float64

	// LinkDistance and LinkStrength drive the edge spring. A zero
	// strength disables the force.
	LinkDistance float64
	LinkStrength float64

	// CollideRadius is the minimum pairwise separation.
	CollideRadius float64

	// ClusterStrength pulls nodes toward their cluster centroid.
	// Zero disables the force.
	ClusterStrength float64

	// CenterX/CenterY is the point the node centroid is pulled toward.
	CenterX, CenterY float64

	// Damping is the per-tick velocity retention factor.
	Damping float64

	// Alpha schedule: the temperature starts at Alpha, decays
	// geometrically by AlphaDecay toward zero, and the simulation is
	// settled once it drops below AlphaMin. ReheatAlpha is the
	// temperature restored when a drag begins.
	Alpha       float64
	AlphaMin    float64
	AlphaDecay  float64
	ReheatAlpha float64
}

// SimilarityConfig returns the force mix for the similarity-edge view:
// weak repulsion, since edges already pull connected nodes together.
func SimilarityConfig(width, height float64) Config {
	return Config{
		ManyBodyStrength: -80,
		LinkDistance:     80,
		LinkStrength:     0.05,
		CollideRadius:    14,
		CenterX:          width / 2,
		CenterY:          height / 2,
		Damping:          0.6,
		Alpha:            1,
		AlphaMin:         0.001,
		AlphaDecay:       0.01,
		ReheatAlpha:      0.3,
	}
}

// ClusterConfig returns the force mix for the cluster-grouping view:
// strong repulsion plus centroid attraction per cluster label, and no
// edge springs.
func ClusterConfig(width, height float64) Config {
	c := SimilarityConfig(width, height)
	c.ManyBodyStrength = -300
	c.LinkStrength = 0
	c.CollideRadius = 18
	c.ClusterStrength = 0.1
	return c
}

// applyManyBody adds pairwise repulsion to node velocities.
func (s *Simulation) applyManyBody(alpha float64) {
	nodes := s.data.Nodes
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			dx := nodes[j].X - nodes[i].X
			dy := nodes[j].Y - nodes[i].Y
			d2 := dx*dx + dy*dy
			if d2 < 1e-6 {
				// Coincident nodes get a deterministic nudge so the
				// force has a direction to act along.
				dx = jitter(i)
				dy = jitter(j)
				d2 = dx*dx + dy*dy
			}
			w := s.cfg.ManyBodyStrength * alpha / d2
			inv := 1 / math.Sqrt(d2)
			fx := w * dx * inv
			fy := w * dy * inv
			nodes[i].VX += fx
			nodes[i].VY += fy
			nodes[j].VX -= fx
			nodes[j].VY -= fy
		}
	}
}

// applyLinks pulls connected nodes toward the target separation.
func (s *Simulation) applyLinks(alpha float64) {
	if s.cfg.LinkStrength == 0 {
		return
	}
	for _, e := range s.data.Edges {
		dx := e.B.X - e.A.X
		dy := e.B.Y - e.A.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			continue
		}
		f := (dist - s.cfg.LinkDistance) * s.cfg.LinkStrength * alpha
		fx := f * dx / dist
		fy := f * dy / dist
		e.A.VX += fx
		e.A.VY += fy
		e.B.VX -= fx
		e.B.VY -= fy
	}
}

// applyCenter shifts all positions so the node centroid tracks the
// configured center. Operates on positions, not velocities, so it
// cannot inject energy.
func (s *Simulation) applyCenter() {
	nodes := s.data.Nodes
	if len(nodes) == 0 {
		return
	}
	var cx, cy float64
	for _, n := range nodes {
		cx += n.X
		cy += n.Y
	}
	cx = cx/float64(len(nodes)) - s.cfg.CenterX
	cy = cy/float64(len(nodes)) - s.cfg.CenterY
	for _, n := range nodes {
		n.X -= cx
		n.Y -= cy
	}
}

// applyCollide enforces the minimum pairwise separation by pushing
// overlapping pairs apart along their axis.
func (s *Simulation) applyCollide() {
	r := s.cfg.CollideRadius
	if r <= 0 {
		return
	}
	min := 2 * r
	nodes := s.data.Nodes
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			dx := nodes[j].X - nodes[i].X
			dy := nodes[j].Y - nodes[i].Y
			dist := math.Hypot(dx, dy)
			if dist >= min {
				continue
			}
			if dist == 0 {
				dx = jitter(i)
				dy = jitter(j)
				dist = math.Hypot(dx, dy)
			}
			push := (min - dist) / dist / 2
			px := dx * push
			py := dy * push
			nodes[i].X -= px
			nodes[i].Y -= py
			nodes[j].X += px
			nodes[j].Y += py
		}
	}
}

// applyCluster pulls each node toward the centroid of the nodes sharing
// its cluster label. This is what separates the blobs in the cluster
// view without a precomputed projection.
func (s *Simulation) applyCluster(alpha float64) {
	if s.cfg.ClusterStrength == 0 {
		return
	}
	type accum struct {
		x, y float64
		n    int
	}
	centroids := make(map[int]*accum)
	for _, n := range s.data.Nodes {
		if n.Cluster == noClusterLabel {
			continue
		}
		a := centroids[n.Cluster]
		if a == nil {
			a = &accum{}
			centroids[n.Cluster] = a
		}
		a.x += n.X
		a.y += n.Y
		a.n++
	}
	k := s.cfg.ClusterStrength * alpha
	for _, n := range s.data.Nodes {
		a := centroids[n.Cluster]
		if a == nil || a.n < 2 {
			continue
		}
		cx := a.x / float64(a.n)
		cy := a.y / float64(a.n)
		n.VX += (cx - n.X) * k
		n.VY += (cy - n.Y) * k
	}
}

// jitter produces a small deterministic offset from an index, used to
// separate coincident nodes without a randomness source.
func jitter(i int) float64 {
	return 1e-4 * float64(i%7+1) * math.Cos(float64(i))
}
