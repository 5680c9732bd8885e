package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasviz/papergraph/internal/config"
	"github.com/atlasviz/papergraph/internal/dataset"
	"github.com/atlasviz/papergraph/pkg/engine"
	"github.com/atlasviz/papergraph/pkg/graph"
	"github.com/atlasviz/papergraph/pkg/live"
)

const frameInterval = 33 * time.Millisecond

func newServeCommand() *cobra.Command {
	var (
		cfgPath string
		data    string
		db      string
		host    string
		port    int
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive graph viewer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("config")
			cfg, err := loadConfig(cfgPath, explicit, func(c *config.Config) {
				if data != "" {
					c.Data.Path = data
				}
				if db != "" {
					c.Data.DB = db
				}
				if host != "" {
					c.Server.Host = host
				}
				if port != 0 {
					c.Server.Port = port
				}
				if mode != "" {
					c.View.Mode = mode
				}
			})
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "config file")
	cmd.Flags().StringVar(&data, "data", "", "JSON dataset file")
	cmd.Flags().StringVar(&db, "db", "", "SQLite paper store")
	cmd.Flags().StringVar(&host, "host", "", "bind host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "bind port")
	cmd.Flags().StringVar(&mode, "mode", "", "view mode: similarity or cluster")
	return cmd
}

func runServe(cfg config.Config) error {
	viewMode, err := parseMode(cfg.View.Mode)
	if err != nil {
		return err
	}
	layoutMode, err := parseLayout(cfg.View.Layout)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Options{
		Width:  cfg.View.Width,
		Height: cfg.View.Height,
		Mode:   viewMode,
		Layout: layoutMode,
		Theme:  cfg.Theme,
		Spread: cfg.View.Spread,
		OnNodeClick: func(n *graph.Node) {
			log.Printf("[serve] open paper %s: %s", n.ID, n.Title)
		},
	})
	defer eng.Close()

	src := &source{cfg: cfg.Data}
	loader := engine.NewLoader(&localFetcher{src: src},
		func(q engine.Query, res engine.Result) {
			eng.SetData(res.Nodes, res.Edges)
			log.Printf("[serve] loaded %d papers, %d edges", len(res.Nodes), len(res.Edges))
		},
		func(q engine.Query, err error) {
			eng.SetError(fmt.Sprintf("Failed to load papers: %v", err))
			log.Printf("[serve] load failed: %v", err)
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Control frames arrive on per-session goroutines; the current query
	// accumulates the search and subject-area filters across them.
	var qmu sync.Mutex
	cur := engine.Query{Mode: viewMode}
	loadCur := func(update func(*engine.Query)) {
		qmu.Lock()
		update(&cur)
		q := cur
		qmu.Unlock()
		loader.Load(ctx, q)
	}
	loader.Load(ctx, cur)

	if cfg.Data.Path != "" && cfg.Data.DB == "" {
		w, err := dataset.Watch(cfg.Data.Path, func() {
			log.Printf("[serve] dataset changed, reloading")
			loader.Purge()
			loader.Retry(ctx)
		})
		if err != nil {
			log.Printf("[serve] file watch unavailable: %v", err)
		} else {
			defer w.Close()
		}
	}

	srv := live.NewServer(eng)
	srv.Snapshot = func() []byte {
		return live.EncodeScene(eng.Scene())
	}
	srv.OnControl = func(c live.Control) {
		switch c.Op {
		case live.ControlReset:
			eng.ResetView()
		case live.ControlMode:
			eng.SetMode(engine.Mode(c.Mode))
			qmu.Lock()
			cur.Mode = engine.Mode(c.Mode)
			qmu.Unlock()
		case live.ControlSearch:
			loadCur(func(q *engine.Query) { q.Search = c.Text })
		case live.ControlArea:
			loadCur(func(q *engine.Query) { q.SubjectArea = c.Text })
		case live.ControlRetry:
			loader.Retry(ctx)
		}
	}

	// Frame loop: step the engine at animation cadence and broadcast
	// only when something changed.
	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if eng.Step() && srv.SessionCount() > 0 {
					srv.Broadcast(live.EncodeScene(eng.Scene()))
				}
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", serveIndex)
	mux.HandleFunc("/live", srv.HandleWebSocket)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{Addr: addr, Handler: mux}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		log.Printf("[serve] shutting down")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
		defer stop()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("[serve] viewer at http://%s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}
