package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/atlasviz/papergraph/internal/config"
	"github.com/atlasviz/papergraph/internal/preview"
	"github.com/atlasviz/papergraph/pkg/engine"
	"github.com/atlasviz/papergraph/pkg/graph"
)

func newPreviewCommand() *cobra.Command {
	var (
		cfgPath string
		data    string
		db      string
		mode    string
		layoutF string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse the graph in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("config")
			cfg, err := loadConfig(cfgPath, explicit, func(c *config.Config) {
				if data != "" {
					c.Data.Path = data
				}
				if db != "" {
					c.Data.DB = db
				}
				if mode != "" {
					c.View.Mode = mode
				}
				if layoutF != "" {
					c.View.Layout = layoutF
				}
			})
			if err != nil {
				return err
			}
			return runPreview(cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "config file")
	cmd.Flags().StringVar(&data, "data", "", "JSON dataset file")
	cmd.Flags().StringVar(&db, "db", "", "SQLite paper store")
	cmd.Flags().StringVar(&mode, "mode", "", "view mode: similarity or cluster")
	cmd.Flags().StringVar(&layoutF, "layout", "", "layout: auto, projection, or force")
	return cmd
}

func runPreview(cfg config.Config) error {
	viewMode, err := parseMode(cfg.View.Mode)
	if err != nil {
		return err
	}
	layoutMode, err := parseLayout(cfg.View.Layout)
	if err != nil {
		return err
	}

	src := &source{cfg: cfg.Data}
	nodes, edges, err := src.load()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	eng := engine.New(engine.Options{
		Width:  cfg.View.Width,
		Height: cfg.View.Height,
		Mode:   viewMode,
		Layout: layoutMode,
		Theme:  cfg.Theme,
		Spread: cfg.View.Spread,
		OnNodeClick: func(n *graph.Node) {
			log.Printf("[preview] open paper %s: %s", n.ID, n.Title)
		},
	})
	defer eng.Close()
	eng.SetData(nodes, edges)

	p := tea.NewProgram(preview.New(eng, nodes, edges), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
