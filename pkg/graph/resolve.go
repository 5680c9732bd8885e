package graph

import (
	"errors"

	dgraph "github.com/dominikbraun/graph"
)

// ResolvedEdge is an edge whose endpoints have been resolved to live
// node objects. Resolution happens once per data load; edges are never
// re-resolved against a replaced node set.
type ResolvedEdge struct {
	A, B       *Node
	Similarity float64
}

// Resolved is an immutable view of a dataset after edge resolution.
// Edges referencing a node id absent from the node set are dropped
// silently; they are a data hazard upstream (independent sampling of
// nodes and edges), not an error here.
type Resolved struct {
	Nodes []*Node
	Edges []ResolvedEdge

	byID map[string]*Node
	adj  map[string]map[string]dgraph.Edge[string]
}

// Resolve builds the resolved form of a dataset: an id index, the
// surviving edge list, and an adjacency map for neighborhood queries.
// Self-loops, duplicates, and dangling edges are dropped.
func Resolve(nodes []*Node, edges []Edge) *Resolved {
	r := &Resolved{
		Nodes: nodes,
		byID:  make(map[string]*Node, len(nodes)),
	}
	g := dgraph.New(dgraph.StringHash, dgraph.Weighted())
	for _, n := range nodes {
		if _, dup := r.byID[n.ID]; dup {
			continue
		}
		r.byID[n.ID] = n
		_ = g.AddVertex(n.ID)
	}
	for _, e := range edges {
		a, okA := r.byID[e.Source]
		b, okB := r.byID[e.Target]
		if !okA || !okB || e.Source == e.Target {
			continue
		}
		err := g.AddEdge(e.Source, e.Target, dgraph.EdgeWeight(int(e.Similarity*1000)))
		if errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
			continue
		}
		if err != nil {
			continue
		}
		r.Edges = append(r.Edges, ResolvedEdge{A: a, B: b, Similarity: e.Similarity})
	}
	adj, err := g.AdjacencyMap()
	if err != nil {
		adj = map[string]map[string]dgraph.Edge[string]{}
	}
	r.adj = adj
	return r
}

// Node returns the node with the given id, or nil.
func (r *Resolved) Node(id string) *Node {
	return r.byID[id]
}

// Adjacent reports whether an edge connects the two ids.
func (r *Resolved) Adjacent(a, b string) bool {
	_, ok := r.adj[a][b]
	return ok
}

// Neighbors returns the ids connected to the given id.
func (r *Resolved) Neighbors(id string) []string {
	m := r.adj[id]
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for to := range m {
		out = append(out, to)
	}
	return out
}

// Degree returns the number of edges incident to the given id.
func (r *Resolved) Degree(id string) int {
	return len(r.adj[id])
}

// Len returns the number of nodes.
func (r *Resolved) Len() int {
	return len(r.Nodes)
}
