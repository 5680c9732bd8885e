package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlasviz/papergraph/internal/config"
	"github.com/atlasviz/papergraph/internal/dataset"
	"github.com/atlasviz/papergraph/pkg/engine"
	"github.com/atlasviz/papergraph/pkg/graph"
)

// source loads the dataset named by the config: a SQLite paper store
// when data.db is set, otherwise a JSON dataset file.
type source struct {
	cfg config.DataConfig
}

func (s *source) load() ([]*graph.Node, []graph.Edge, error) {
	if s.cfg.DB != "" {
		return s.loadStore()
	}
	if s.cfg.Path != "" {
		return dataset.LoadFile(s.cfg.Path)
	}
	return nil, nil, fmt.Errorf("no dataset configured: set data.path or data.db")
}

func (s *source) loadStore() ([]*graph.Node, []graph.Edge, error) {
	store, err := dataset.OpenStore(s.cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	nodes, err := store.Papers()
	if err != nil {
		return nil, nil, err
	}
	edges, err := store.Edges()
	if err != nil {
		return nil, nil, err
	}
	if len(edges) == 0 {
		// No precomputed edges; derive them from stored embeddings.
		emb, err := store.Embeddings()
		if err != nil {
			return nil, nil, err
		}
		edges = dataset.BuildEdges(emb, s.cfg.TopK, s.cfg.MinSim)
	}
	return nodes, edges, nil
}

// localFetcher adapts the source to the engine's collaborator
// interface, applying the query's search and subject-area filters.
type localFetcher struct {
	src *source
}

func (f *localFetcher) Fetch(ctx context.Context, q engine.Query) (engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return engine.Result{}, err
	}
	nodes, edges, err := f.src.load()
	if err != nil {
		return engine.Result{}, err
	}
	nodes = filterNodes(nodes, q)
	if q.Limit > 0 && len(nodes) > q.Limit {
		nodes = nodes[:q.Limit]
	}
	return engine.Result{Nodes: nodes, Edges: edges}, nil
}

func filterNodes(nodes []*graph.Node, q engine.Query) []*graph.Node {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	area := strings.ToLower(strings.TrimSpace(q.SubjectArea))
	if search == "" && area == "" {
		return nodes
	}
	var out []*graph.Node
	for _, n := range nodes {
		if search != "" && !matchesSearch(n, search) {
			continue
		}
		if area != "" && !hasArea(n, area) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func matchesSearch(n *graph.Node, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	for _, a := range n.Authors {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

func hasArea(n *graph.Node, area string) bool {
	for _, a := range n.SubjectAreas {
		if strings.ToLower(a) == area {
			return true
		}
	}
	return false
}

func parseMode(s string) (engine.Mode, error) {
	switch s {
	case "", "similarity":
		return engine.ModeSimilarity, nil
	case "cluster":
		return engine.ModeCluster, nil
	default:
		return engine.ModeSimilarity, fmt.Errorf("unknown mode %q (want similarity or cluster)", s)
	}
}

func parseLayout(s string) (engine.LayoutMode, error) {
	switch s {
	case "", "auto":
		return engine.LayoutAuto, nil
	case "projection":
		return engine.LayoutProjection, nil
	case "force":
		return engine.LayoutForce, nil
	default:
		return engine.LayoutAuto, fmt.Errorf("unknown layout %q (want auto, projection, or force)", s)
	}
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(path string, explicit bool, override func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}
	if override != nil {
		override(&cfg)
	}
	return cfg, nil
}
