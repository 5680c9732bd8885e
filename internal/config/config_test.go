package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8420 {
		t.Errorf("Expected default port 8420, got %d", cfg.Server.Port)
	}
	if cfg.View.Mode != "similarity" {
		t.Errorf("Expected similarity mode, got %q", cfg.View.Mode)
	}
	if cfg.Data.TopK != 5 || cfg.Data.MinSim != 0.3 {
		t.Errorf("Unexpected edge defaults: topK %d, minSim %v", cfg.Data.TopK, cfg.Data.MinSim)
	}
	if cfg.View.Width != 1200 || cfg.View.Height != 800 {
		t.Errorf("Unexpected view dimensions %vx%v", cfg.View.Width, cfg.View.Height)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papergraph.yml")
	content := `
data:
  path: papers.json
server:
  port: 9000
view:
  mode: cluster
  width: 640
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Data.Path != "papers.json" {
		t.Errorf("Expected data path from file, got %q", cfg.Data.Path)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.View.Mode != "cluster" {
		t.Errorf("Expected cluster mode, got %q", cfg.View.Mode)
	}
	// Unset values keep their defaults; a partial view block refills
	// the dropped dimension.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected default host kept, got %q", cfg.Server.Host)
	}
	if cfg.View.Width != 640 || cfg.View.Height != 800 {
		t.Errorf("Expected 640x800, got %vx%v", cfg.View.Width, cfg.View.Height)
	}
	if cfg.Theme.Background == "" {
		t.Error("Expected theme defaults filled in")
	}
}

func TestLoad_MissingDefaultPath(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "papergraph.yml"), false)
	if err != nil {
		t.Fatalf("Expected missing default config to be fine, got %v", err)
	}
	if cfg.Server.Port != 8420 {
		t.Errorf("Expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml"), true); err == nil {
		t.Error("Expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("view: [qq"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(path, true); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
