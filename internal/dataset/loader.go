// Package dataset loads paper graph data from the shapes the upstream
// services produce: the graph shape (nodes plus similarity edges) and
// the coordinate-only shape (precomputed t-SNE projection rows). It
// also holds the SQLite paper store and the file watcher that drive
// the serve command.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atlasviz/papergraph/pkg/graph"
)

// graphPayload is the graph shape:
// {nodes: [{id, title, authors[], subject_areas[], cluster?, x?, y?}],
//  edges: [{source, target, similarity}]}.
type graphPayload struct {
	Nodes []nodeRow `json:"nodes"`
	Edges []edgeRow `json:"edges"`
}

type nodeRow struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	SubjectAreas []string `json:"subject_areas"`
	Cluster      *int     `json:"cluster"`
	X            *float64 `json:"x"`
	Y            *float64 `json:"y"`
}

type edgeRow struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
}

// coordsPayload is the coordinate-only shape:
// {coordinates: [{paper_id, tsne_x, tsne_y, title, authors[], subject_areas[]}]}.
type coordsPayload struct {
	Coordinates []coordRow `json:"coordinates"`
}

type coordRow struct {
	PaperID      string   `json:"paper_id"`
	TSNEX        float64  `json:"tsne_x"`
	TSNEY        float64  `json:"tsne_y"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	SubjectAreas []string `json:"subject_areas"`
}

// LoadFile reads either payload shape from a JSON file. The shape is
// decided by which top-level key is present, with the graph shape
// taking precedence.
func LoadFile(path string) ([]*graph.Node, []graph.Edge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a dataset payload from raw JSON.
func Parse(data []byte) ([]*graph.Node, []graph.Edge, error) {
	var probe struct {
		Nodes       json.RawMessage `json:"nodes"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("parsing dataset: %w", err)
	}
	switch {
	case probe.Nodes != nil:
		var p graphPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, nil, fmt.Errorf("parsing graph payload: %w", err)
		}
		return p.toModel()
	case probe.Coordinates != nil:
		var p coordsPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, nil, fmt.Errorf("parsing coordinate payload: %w", err)
		}
		return p.toModel()
	default:
		return nil, nil, fmt.Errorf("parsing dataset: neither nodes nor coordinates present")
	}
}

func (p *graphPayload) toModel() ([]*graph.Node, []graph.Edge, error) {
	nodes := make([]*graph.Node, 0, len(p.Nodes))
	for _, r := range p.Nodes {
		if r.ID == "" {
			return nil, nil, fmt.Errorf("parsing graph payload: node without id")
		}
		n := &graph.Node{
			ID:           r.ID,
			Title:        r.Title,
			Authors:      r.Authors,
			SubjectAreas: r.SubjectAreas,
			Cluster:      graph.NoCluster,
		}
		if r.Cluster != nil {
			n.Cluster = *r.Cluster
		}
		if r.X != nil && r.Y != nil {
			n.PX, n.PY = *r.X, *r.Y
			n.HasProjection = true
		}
		nodes = append(nodes, n)
	}
	edges := make([]graph.Edge, 0, len(p.Edges))
	for _, r := range p.Edges {
		edges = append(edges, graph.Edge{
			Source:     r.Source,
			Target:     r.Target,
			Similarity: clamp01(r.Similarity),
		})
	}
	return nodes, edges, nil
}

func (p *coordsPayload) toModel() ([]*graph.Node, []graph.Edge, error) {
	nodes := make([]*graph.Node, 0, len(p.Coordinates))
	for _, r := range p.Coordinates {
		if r.PaperID == "" {
			return nil, nil, fmt.Errorf("parsing coordinate payload: row without paper_id")
		}
		nodes = append(nodes, &graph.Node{
			ID:            r.PaperID,
			Title:         r.Title,
			Authors:       r.Authors,
			SubjectAreas:  r.SubjectAreas,
			Cluster:       graph.NoCluster,
			PX:            r.TSNEX,
			PY:            r.TSNEY,
			HasProjection: true,
		})
	}
	return nodes, nil, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
