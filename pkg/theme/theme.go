// Package theme defines the explicit set of color and size tokens the
// rendering engine draws with. The engine takes a Theme at construction
// instead of reading ambient style variables; every token has a default
// so a zero-value override is safe.
package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme holds the required tokens. Zero values mean "use the default".
type Theme struct {
	Background    string `yaml:"background"`
	NodeFill      string `yaml:"nodeFill"`
	NodeStroke    string `yaml:"nodeStroke"`
	SelectedFill  string `yaml:"selectedFill"`
	HoverStroke   string `yaml:"hoverStroke"`
	EdgeStroke    string `yaml:"edgeStroke"`
	EdgeHighlight string `yaml:"edgeHighlight"`
	LabelColor    string `yaml:"labelColor"`

	// ClusterPalette colors nodes by cluster label, indexed modulo its
	// length. Empty falls back to the default palette.
	ClusterPalette []string `yaml:"clusterPalette"`

	NodeRadius     float64 `yaml:"nodeRadius"`
	SelectedRadius float64 `yaml:"selectedRadius"`
	HoverRadius    float64 `yaml:"hoverRadius"`
	EdgeWidth      float64 `yaml:"edgeWidth"`
	LabelSize      float64 `yaml:"labelSize"`

	EdgeOpacity       float64 `yaml:"edgeOpacity"`
	DimmedNodeOpacity float64 `yaml:"dimmedNodeOpacity"`
	DimmedEdgeOpacity float64 `yaml:"dimmedEdgeOpacity"`
}

// Default returns the built-in dark theme.
func Default() Theme {
	return Theme{
		Background:    "#0b0e14",
		NodeFill:      "#6ea8fe",
		NodeStroke:    "#1f2733",
		SelectedFill:  "#ffcf33",
		HoverStroke:   "#9ad0ff",
		EdgeStroke:    "#39424e",
		EdgeHighlight: "#9ad0ff",
		LabelColor:    "#eaeef3",
		ClusterPalette: []string{
			"#6ea8fe", "#f97583", "#85e89d", "#ffab70",
			"#b392f0", "#79c0ff", "#ffea7f", "#f692ce",
			"#56d4dd", "#d2a8ff",
		},
		NodeRadius:        6,
		SelectedRadius:    9,
		HoverRadius:       8,
		EdgeWidth:         1,
		LabelSize:         12,
		EdgeOpacity:       0.6,
		DimmedNodeOpacity: 0.3,
		DimmedEdgeOpacity: 0.1,
	}
}

// WithDefaults fills every zero token from the default theme.
func (t Theme) WithDefaults() Theme {
	d := Default()
	if t.Background == "" {
		t.Background = d.Background
	}
	if t.NodeFill == "" {
		t.NodeFill = d.NodeFill
	}
	if t.NodeStroke == "" {
		t.NodeStroke = d.NodeStroke
	}
	if t.SelectedFill == "" {
		t.SelectedFill = d.SelectedFill
	}
	if t.HoverStroke == "" {
		t.HoverStroke = d.HoverStroke
	}
	if t.EdgeStroke == "" {
		t.EdgeStroke = d.EdgeStroke
	}
	if t.EdgeHighlight == "" {
		t.EdgeHighlight = d.EdgeHighlight
	}
	if t.LabelColor == "" {
		t.LabelColor = d.LabelColor
	}
	if len(t.ClusterPalette) == 0 {
		t.ClusterPalette = d.ClusterPalette
	}
	if t.NodeRadius == 0 {
		t.NodeRadius = d.NodeRadius
	}
	if t.SelectedRadius == 0 {
		t.SelectedRadius = d.SelectedRadius
	}
	if t.HoverRadius == 0 {
		t.HoverRadius = d.HoverRadius
	}
	if t.EdgeWidth == 0 {
		t.EdgeWidth = d.EdgeWidth
	}
	if t.LabelSize == 0 {
		t.LabelSize = d.LabelSize
	}
	if t.EdgeOpacity == 0 {
		t.EdgeOpacity = d.EdgeOpacity
	}
	if t.DimmedNodeOpacity == 0 {
		t.DimmedNodeOpacity = d.DimmedNodeOpacity
	}
	if t.DimmedEdgeOpacity == 0 {
		t.DimmedEdgeOpacity = d.DimmedEdgeOpacity
	}
	return t
}

// ClusterColor returns the palette color for a cluster label, or the
// plain node fill for unclustered nodes.
func (t Theme) ClusterColor(cluster int) string {
	if cluster < 0 || len(t.ClusterPalette) == 0 {
		return t.NodeFill
	}
	return t.ClusterPalette[cluster%len(t.ClusterPalette)]
}

// LoadFile reads a YAML theme file and merges it over the defaults.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading theme: %w", err)
	}
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Default(), fmt.Errorf("parsing theme: %w", err)
	}
	return t.WithDefaults(), nil
}
