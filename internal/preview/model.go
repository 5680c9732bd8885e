// Package preview renders the paper graph in the terminal: a bubbletea
// program driving the engine at frame cadence and drawing its scenes
// into the cell grid. Useful for inspecting a dataset without a
// browser.
package preview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atlasviz/papergraph/pkg/engine"
	"github.com/atlasviz/papergraph/pkg/graph"
)

const frameInterval = 33 * time.Millisecond

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

type frameMsg time.Time

// Model is the bubbletea state for the preview.
type Model struct {
	eng *engine.Engine

	// Full dataset; searches re-issue filtered subsets wholesale.
	nodes []*graph.Node
	edges []graph.Edge

	search    textinput.Model
	searching bool
	query     string

	// hovered is the keyboard hover cursor, an index into the sorted
	// id list of the current node subset.
	ids     []string
	hovered int

	cols, rows int
}

// New builds the preview over a dataset.
func New(eng *engine.Engine, nodes []*graph.Node, edges []graph.Edge) Model {
	ti := textinput.New()
	ti.Placeholder = "search title or subject area"
	ti.CharLimit = 80
	m := Model{
		eng:     eng,
		nodes:   nodes,
		edges:   edges,
		search:  ti,
		hovered: -1,
	}
	m.applyFilter("")
	return m
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles input and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.eng.Step()
		return m, tick()

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		m.eng.Resize(float64(m.cols), float64(m.graphRows()))
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.applyFilter(m.search.Value())
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const panStep = 4
	cx := float64(m.cols) / 2
	cy := float64(m.graphRows()) / 2
	switch msg.String() {
	case "q", "ctrl+c":
		m.eng.Close()
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "left":
		m.eng.Pan(panStep, 0)
	case "right":
		m.eng.Pan(-panStep, 0)
	case "up":
		m.eng.Pan(0, panStep)
	case "down":
		m.eng.Pan(0, -panStep)
	case "+", "=":
		m.eng.HandleEvent(engine.WheelEvent{Delta: -100, X: cx, Y: cy})
	case "-":
		m.eng.HandleEvent(engine.WheelEvent{Delta: 100, X: cx, Y: cy})
	case "r":
		m.eng.ResetView()
	case "m":
		if m.eng.Mode() == engine.ModeSimilarity {
			m.eng.SetMode(engine.ModeCluster)
		} else {
			m.eng.SetMode(engine.ModeSimilarity)
		}
	case "n":
		m.moveHover(1)
	case "p":
		m.moveHover(-1)
	case "enter":
		if m.hovered >= 0 && m.hovered < len(m.ids) {
			m.eng.HandleEvent(engine.ClickEvent{NodeID: m.ids[m.hovered]})
		}
	}
	return m, nil
}

func (m *Model) moveHover(delta int) {
	if len(m.ids) == 0 {
		return
	}
	m.hovered = (m.hovered + delta + len(m.ids)) % len(m.ids)
	m.eng.HandleEvent(engine.HoverEvent{NodeID: m.ids[m.hovered]})
}

// applyFilter replaces the engine's dataset with the subset matching
// the query. Edge pruning is left to resolution: edges with a filtered
// endpoint drop out there.
func (m *Model) applyFilter(query string) {
	m.query = query
	q := strings.ToLower(strings.TrimSpace(query))
	subset := m.nodes
	if q != "" {
		subset = nil
		for _, n := range m.nodes {
			if nodeMatches(n, q) {
				subset = append(subset, n)
			}
		}
	}
	m.ids = make([]string, len(subset))
	for i, n := range subset {
		m.ids[i] = n.ID
	}
	sort.Strings(m.ids)
	m.hovered = -1
	m.eng.SetData(subset, m.edges)
}

func nodeMatches(n *graph.Node, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	for _, a := range n.SubjectAreas {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

// graphRows is the grid height left for the scene after the status and
// search lines.
func (m Model) graphRows() int {
	r := m.rows - 2
	if r < 1 {
		r = 1
	}
	return r
}

// View renders the frame: scene grid, status line, search line.
func (m Model) View() string {
	if m.cols == 0 || m.rows == 0 {
		return ""
	}
	scene := m.eng.Scene()
	var b strings.Builder
	b.WriteString(RenderScene(scene, m.cols, m.graphRows()))
	b.WriteByte('\n')

	mode := "similarity"
	if m.eng.Mode() == engine.ModeCluster {
		mode = "cluster"
	}
	status := fmt.Sprintf("%s  %d papers  [%s]", titleStyle.Render("papergraph"), len(m.ids), mode)
	if m.query != "" {
		status += fmt.Sprintf("  filter:%q", m.query)
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteByte('\n')

	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(statusStyle.Render("/ search  n/p hover  enter open  +/- zoom  arrows pan  r reset  m mode  q quit"))
	}
	return b.String()
}
