package dataset

import (
	"math"
	"sort"

	"github.com/atlasviz/papergraph/pkg/graph"
)

// Cosine returns the cosine similarity of two embedding vectors, 0 for
// mismatched lengths or zero vectors.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// BuildEdges computes similarity edges from paper embeddings: for each
// paper, its topK most similar peers at or above minSim. The pairwise
// pass is quadratic, fine at conference scale (~1000 papers), and runs
// once per dataset as a precomputation, not per frame.
//
// The result is deterministic: candidate order is fixed by sorting ids
// first, and each undirected pair appears at most once.
func BuildEdges(embeddings map[string][]float32, topK int, minSim float64) []graph.Edge {
	if topK <= 0 || len(embeddings) < 2 {
		return nil
	}
	ids := make([]string, 0, len(embeddings))
	for id := range embeddings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	type scored struct {
		id  string
		sim float64
	}
	seen := make(map[[2]string]struct{})
	var edges []graph.Edge
	for _, id := range ids {
		var cand []scored
		for _, other := range ids {
			if other == id {
				continue
			}
			sim := Cosine(embeddings[id], embeddings[other])
			if sim < minSim {
				continue
			}
			cand = append(cand, scored{id: other, sim: sim})
		}
		sort.Slice(cand, func(i, j int) bool {
			if cand[i].sim != cand[j].sim {
				return cand[i].sim > cand[j].sim
			}
			return cand[i].id < cand[j].id
		})
		if len(cand) > topK {
			cand = cand[:topK]
		}
		for _, c := range cand {
			key := pairKey(id, c.id)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, graph.Edge{Source: id, Target: c.id, Similarity: clamp01(c.sim)})
		}
	}
	return edges
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
