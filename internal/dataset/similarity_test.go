package dataset

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("Expected identical vectors at 1, got %v", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("Expected orthogonal vectors at 0, got %v", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-9 {
		t.Errorf("Expected opposite vectors at -1, got %v", got)
	}
	if got := Cosine([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("Expected 0 for mismatched lengths, got %v", got)
	}
	if got := Cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("Expected 0 for a zero vector, got %v", got)
	}
}

func TestBuildEdges_TopK(t *testing.T) {
	// a is very close to b, less close to c, far from d.
	emb := map[string][]float32{
		"a": {1, 0},
		"b": {0.99, 0.1},
		"c": {0.7, 0.7},
		"d": {0, 1},
	}
	edges := BuildEdges(emb, 1, 0.0)

	// With topK=1 each paper contributes its best peer; undirected
	// dedup keeps each pair once.
	for _, e := range edges {
		if e.Source == "a" || e.Target == "a" {
			other := e.Target
			if other == "a" {
				other = e.Source
			}
			if other != "b" {
				t.Errorf("Expected a's best peer to be b, got %s", other)
			}
		}
	}
}

func TestBuildEdges_MinSimFloor(t *testing.T) {
	emb := map[string][]float32{
		"a": {1, 0},
		"d": {0, 1}, // orthogonal to a
	}
	if edges := BuildEdges(emb, 5, 0.5); len(edges) != 0 {
		t.Errorf("Expected no edges below the similarity floor, got %d", len(edges))
	}
}

func TestBuildEdges_Deterministic(t *testing.T) {
	emb := map[string][]float32{
		"a": {1, 0}, "b": {0.9, 0.3}, "c": {0.7, 0.7}, "d": {0.3, 0.9}, "e": {0, 1},
	}
	e1 := BuildEdges(emb, 2, 0.1)
	e2 := BuildEdges(emb, 2, 0.1)
	if len(e1) != len(e2) {
		t.Fatalf("Expected stable edge count, got %d and %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Errorf("Expected identical edge %d, got %+v and %+v", i, e1[i], e2[i])
		}
	}
}

func TestBuildEdges_NoDuplicatePairs(t *testing.T) {
	emb := map[string][]float32{
		"a": {1, 0}, "b": {1, 0.01}, "c": {1, 0.02},
	}
	edges := BuildEdges(emb, 3, 0.0)
	seen := make(map[[2]string]bool)
	for _, e := range edges {
		key := pairKey(e.Source, e.Target)
		if seen[key] {
			t.Errorf("Duplicate pair %v", key)
		}
		seen[key] = true
	}
}

func TestBuildEdges_Degenerate(t *testing.T) {
	if got := BuildEdges(nil, 5, 0.3); got != nil {
		t.Errorf("Expected nil for empty embeddings, got %v", got)
	}
	if got := BuildEdges(map[string][]float32{"a": {1}}, 5, 0.3); got != nil {
		t.Errorf("Expected nil for a single paper, got %v", got)
	}
	if got := BuildEdges(map[string][]float32{"a": {1}, "b": {1}}, 0, 0.3); got != nil {
		t.Errorf("Expected nil for topK 0, got %v", got)
	}
}
