package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/atlasviz/papergraph/internal/dataset"
)

func newImportCommand() *cobra.Command {
	var (
		db           string
		rebuildEdges bool
		topK         int
		minSim       float64
	)
	cmd := &cobra.Command{
		Use:   "import <dataset.json>",
		Short: "Import a JSON dataset into a SQLite paper store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], db, rebuildEdges, topK, minSim)
		},
	}
	cmd.Flags().StringVar(&db, "db", "papers.db", "SQLite paper store to write")
	cmd.Flags().BoolVar(&rebuildEdges, "rebuild-edges", false,
		"recompute similarity edges from stored embeddings")
	cmd.Flags().IntVar(&topK, "top-k", 5, "edges kept per paper when rebuilding")
	cmd.Flags().Float64Var(&minSim, "min-sim", 0.3, "similarity floor when rebuilding")
	return cmd
}

func runImport(path, db string, rebuildEdges bool, topK int, minSim float64) error {
	nodes, edges, err := dataset.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	store, err := dataset.OpenStore(db)
	if err != nil {
		return fmt.Errorf("open %s: %w", db, err)
	}
	defer store.Close()

	for _, n := range nodes {
		if err := store.PutPaper(n, nil); err != nil {
			return fmt.Errorf("import paper %s: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := store.PutEdge(e); err != nil {
			return fmt.Errorf("import edge %s-%s: %w", e.Source, e.Target, err)
		}
	}
	log.Printf("[import] wrote %d papers, %d edges to %s", len(nodes), len(edges), db)

	if rebuildEdges {
		emb, err := store.Embeddings()
		if err != nil {
			return fmt.Errorf("read embeddings: %w", err)
		}
		if len(emb) == 0 {
			return fmt.Errorf("no embeddings stored, cannot rebuild edges")
		}
		rebuilt := dataset.BuildEdges(emb, topK, minSim)
		for _, e := range rebuilt {
			if err := store.PutEdge(e); err != nil {
				return fmt.Errorf("store edge %s-%s: %w", e.Source, e.Target, err)
			}
		}
		log.Printf("[import] rebuilt %d similarity edges", len(rebuilt))
	}
	return nil
}
