package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atlasviz/papergraph/pkg/graph"
)

const graphJSON = `{
  "nodes": [
    {"id": "p1", "title": "Paper One", "authors": ["Ada"], "subject_areas": ["ML"], "cluster": 2, "x": 1.5, "y": -2.5},
    {"id": "p2", "title": "Paper Two", "authors": ["Grace"]}
  ],
  "edges": [
    {"source": "p1", "target": "p2", "similarity": 0.83},
    {"source": "p1", "target": "p2", "similarity": 1.7}
  ]
}`

const coordsJSON = `{
  "coordinates": [
    {"paper_id": "p1", "tsne_x": 3.25, "tsne_y": -8.5, "title": "Paper One", "authors": ["Ada"]},
    {"paper_id": "p2", "tsne_x": -1.0, "tsne_y": 4.0, "title": "Paper Two"}
  ]
}`

func TestParse_GraphShape(t *testing.T) {
	nodes, edges, err := Parse([]byte(graphJSON))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	p1 := nodes[0]
	if p1.ID != "p1" || p1.Title != "Paper One" {
		t.Errorf("Unexpected node %+v", p1)
	}
	if p1.Cluster != 2 {
		t.Errorf("Expected cluster 2, got %d", p1.Cluster)
	}
	if !p1.HasProjection || p1.PX != 1.5 || p1.PY != -2.5 {
		t.Errorf("Expected projection (1.5, -2.5), got %+v", p1)
	}

	// A node without coordinates has no projection and no cluster.
	p2 := nodes[1]
	if p2.HasProjection {
		t.Error("Expected p2 without projection")
	}
	if p2.Cluster != graph.NoCluster {
		t.Errorf("Expected no cluster, got %d", p2.Cluster)
	}

	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}
	if edges[0].Similarity != 0.83 {
		t.Errorf("Expected similarity 0.83, got %v", edges[0].Similarity)
	}
	// Out-of-range similarity clamps.
	if edges[1].Similarity != 1 {
		t.Errorf("Expected similarity clamped to 1, got %v", edges[1].Similarity)
	}
}

func TestParse_CoordinateShape(t *testing.T) {
	nodes, edges, err := Parse([]byte(coordsJSON))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if len(edges) != 0 {
		t.Errorf("Expected no edges in coordinate shape, got %d", len(edges))
	}
	if !nodes[0].HasProjection || nodes[0].PX != 3.25 || nodes[0].PY != -8.5 {
		t.Errorf("Expected projection (3.25, -8.5), got %+v", nodes[0])
	}
	if nodes[0].ID != "p1" || nodes[0].Title != "Paper One" {
		t.Errorf("Unexpected node %+v", nodes[0])
	}
}

func TestParse_GraphShapeWins(t *testing.T) {
	both := `{"nodes": [{"id": "n"}], "coordinates": [{"paper_id": "c", "tsne_x": 0, "tsne_y": 0}]}`
	nodes, _, err := Parse([]byte(both))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "n" {
		t.Errorf("Expected graph shape to win, got %+v", nodes)
	}
}

func TestParse_UnknownShape(t *testing.T) {
	if _, _, err := Parse([]byte(`{"papers": []}`)); err == nil {
		t.Error("Expected error for unknown payload shape")
	}
}

func TestParse_MissingID(t *testing.T) {
	if _, _, err := Parse([]byte(`{"nodes": [{"title": "anon"}]}`)); err == nil {
		t.Error("Expected error for node without id")
	}
	if _, _, err := Parse([]byte(`{"coordinates": [{"tsne_x": 1, "tsne_y": 2}]}`)); err == nil {
		t.Error("Expected error for coordinate row without paper_id")
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, _, err := Parse([]byte(`{nope`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(graphJSON), 0o644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	nodes, edges, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(nodes) != 2 || len(edges) != 2 {
		t.Errorf("Expected 2 nodes and 2 edges, got %d and %d", len(nodes), len(edges))
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
