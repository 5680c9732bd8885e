// Package config loads the papergraph.yml configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/atlasviz/papergraph/pkg/theme"
)

// DefaultPath is where commands look for configuration when no
// --config flag is given.
const DefaultPath = "papergraph.yml"

// Config is the full configuration surface of the CLI.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Server ServerConfig `yaml:"server"`
	View   ViewConfig   `yaml:"view"`
	Theme  theme.Theme  `yaml:"theme"`
}

// DataConfig locates the dataset. Path points at a JSON dataset file,
// DB at a SQLite paper store; when both are set, DB wins.
type DataConfig struct {
	Path string `yaml:"path"`
	DB   string `yaml:"db"`

	// Similarity edge precomputation over stored embeddings.
	TopK   int     `yaml:"topK"`
	MinSim float64 `yaml:"minSim"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ViewConfig configures the rendering engine.
type ViewConfig struct {
	// Mode is "similarity" or "cluster".
	Mode string `yaml:"mode"`
	// Layout is "auto", "projection", or "force".
	Layout string `yaml:"layout"`

	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Spread float64 `yaml:"spread"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{
			TopK:   5,
			MinSim: 0.3,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8420,
		},
		View: ViewConfig{
			Mode:   "similarity",
			Layout: "auto",
			Width:  1200,
			Height: 800,
		},
		Theme: theme.Default(),
	}
}

// Load reads the config file at path, merged over the defaults. A
// missing file at the default path is not an error; a missing file at
// an explicit path is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Theme = cfg.Theme.WithDefaults()
	if cfg.View.Width <= 0 {
		cfg.View.Width = 1200
	}
	if cfg.View.Height <= 0 {
		cfg.View.Height = 800
	}
	return cfg, nil
}
