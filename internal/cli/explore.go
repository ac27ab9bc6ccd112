package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/courseflow/pkg/catalog"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/session"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	mapBorderStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

const (
	mapWidth  = 56
	mapHeight = 18
	zoomStep  = 1.25
	panStep   = 40.0
)

// exploreCommand creates the explore command for the terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		mode       string
		properties string
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "explore [catalog.json]",
		Short: "Explore a catalog graph interactively in the terminal",
		Long: `Explore a catalog graph interactively in the terminal.

The explorer runs a live graph session: the force layout advances one tick
per frame, and every navigation starts a fresh run. Select a node and press
enter to drill into it, backspace to go up a level and r to reset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, mode, properties, interval)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "grouping mode: faculty, school, level (default from config)")
	cmd.Flags().StringVar(&properties, "properties", "", "graph properties TOML file")
	cmd.Flags().DurationVar(&interval, "tick", 0, "delay between simulation ticks (default from config)")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string, modeName, properties string, interval time.Duration) error {
	cat, _, err := c.loadCatalog(args)
	if err != nil {
		return err
	}
	if modeName == "" {
		modeName = c.Config.Catalog.Mode
	}
	mode, err := catalog.ParseMode(modeName)
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = c.Config.Explore.TickInterval.Duration
	}
	props, err := c.properties(properties)
	if err != nil {
		return err
	}

	layout := c.Config.LayoutOptions()
	sess := session.New(cat, session.Options{Properties: props, Layout: layout, Logger: c.Logger})
	defer sess.Dispose()
	if err := sess.Load(ctx, mode); err != nil {
		return err
	}

	p := tea.NewProgram(newExploreModel(ctx, sess, interval), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// =============================================================================
// ExploreModel - Live graph session
// =============================================================================

// tickMsg carries a tick bound to the run that was active when it was
// scheduled.
type tickMsg struct {
	step func() bool
}

// ExploreModel is the bubbletea model driving a graph session.
type ExploreModel struct {
	ctx      context.Context
	sess     *session.Session
	interval time.Duration

	Cursor int
	Offset int
	Height int
	Status string
}

func newExploreModel(ctx context.Context, sess *session.Session, interval time.Duration) ExploreModel {
	return ExploreModel{ctx: ctx, sess: sess, interval: interval, Height: 12}
}

// nextTick schedules one simulation tick for the current run. Ticks for a
// superseded run are ignored by the session and end their chain.
func (m ExploreModel) nextTick() tea.Cmd {
	step := m.sess.ScheduleTick()
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{step: step} })
}

func (m ExploreModel) Init() tea.Cmd {
	return m.nextTick()
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.step() {
			return m, m.nextTick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-mapHeight-10, 5)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ExploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.sess.Frame().Nodes
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(nodes)-1 {
			m.Cursor++
		}
	case "enter":
		if m.Cursor < len(nodes) {
			return m.navigate(fmt.Sprintf("drilled into %s", nodes[m.Cursor].ID),
				m.sess.OnNodeActivated(nodes[m.Cursor].ID))
		}
	case "backspace", "u":
		if sc := m.sess.Scope(); sc == nil || sc.Root.Parent() == nil {
			m.Status = "already at the top"
			return m, nil
		}
		return m.navigate("up one level", m.sess.Up())
	case "r":
		return m.navigate("reset to root", m.sess.ResetToRoot())
	case "m":
		next := nextMode(m.sess.Mode())
		return m.navigate(fmt.Sprintf("grouped by %s", next), m.sess.Load(m.ctx, next))
	case "+", "=":
		m.zoom(zoomStep)
	case "-":
		m.zoom(1 / zoomStep)
	case "H", "left":
		m.sess.Gesture(viewport.Gesture{DX: panStep})
	case "L", "right":
		m.sess.Gesture(viewport.Gesture{DX: -panStep})
	case "K":
		m.sess.Gesture(viewport.Gesture{DY: panStep})
	case "J":
		m.sess.Gesture(viewport.Gesture{DY: -panStep})
	case "f":
		m.sess.Fit(0)
		m.Status = "fit to content"
	}
	m.scroll()
	return m, nil
}

// navigate records the outcome of a scope change and restarts the tick
// chain for the new run.
func (m ExploreModel) navigate(status string, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.Status = err.Error()
		return m, nil
	}
	m.Status = status
	m.Cursor, m.Offset = 0, 0
	return m, m.nextTick()
}

func (m *ExploreModel) zoom(factor float64) {
	f := m.sess.Frame()
	m.sess.Gesture(viewport.Gesture{Scale: factor, AnchorX: f.Width / 2, AnchorY: f.Height / 2})
}

func (m *ExploreModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func nextMode(cur catalog.GroupingMode) catalog.GroupingMode {
	i := slices.Index(catalog.Modes, cur)
	return catalog.Modes[(i+1)%len(catalog.Modes)]
}

func (m ExploreModel) View() string {
	f := m.sess.Frame()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("courseflow"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(strings.Join(f.Path, " › ")))
	b.WriteString("\n")
	b.WriteString(m.statusLine(f))
	b.WriteString("\n\n")

	b.WriteString(mapBorderStyle.Render(renderMinimap(f, m.selected(f), mapWidth, mapHeight)))
	b.WriteString("\n")
	b.WriteString(m.nodeTable(f))
	b.WriteString("\n")

	if m.Status != "" {
		b.WriteString(StyleHighlight.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ drill  ⌫ up  r reset  m mode  +/- zoom  H/J/K/L pan  f fit  q quit"))
	return b.String()
}

func (m ExploreModel) statusLine(f graph.Frame) string {
	parts := []string{
		StyleDim.Render("mode ") + StyleValue.Render(string(m.sess.Mode())),
		StyleDim.Render("tier ") + StyleValue.Render(f.Tier),
		StyleDim.Render("run ") + StyleNumber.Render(fmt.Sprintf("#%d", f.Run.Generation)) + " " + runStateStyle(f.Run.State).Render(f.Run.State),
		StyleDim.Render("ticks ") + StyleNumber.Render(fmt.Sprintf("%d", f.Run.Ticks)),
		StyleDim.Render("alpha ") + StyleNumber.Render(fmt.Sprintf("%.3f", f.Run.Alpha)),
		StyleDim.Render("zoom ") + StyleNumber.Render(fmt.Sprintf("%.2f", f.Transform.K)),
	}
	return strings.Join(parts, StyleDim.Render("  ·  "))
}

func (m ExploreModel) selected(f graph.Frame) string {
	if m.Cursor < len(f.Nodes) {
		return f.Nodes[m.Cursor].ID
	}
	return ""
}

func (m ExploreModel) nodeTable(f graph.Frame) string {
	end := min(m.Offset+m.Height, len(f.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := f.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := n.DisplayLabel()
		if len([]rune(label)) > 32 {
			label = string([]rune(label)[:31]) + "…"
		}
		rows = append(rows, []string{cursor, label, n.Group, fmt.Sprintf("%.0f", n.X), fmt.Sprintf("%.0f", n.Y)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Group", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if idx < len(f.Nodes) && f.Nodes[idx].Leaf {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(f.Nodes)), len(f.Nodes)))
}

// =============================================================================
// Minimap
// =============================================================================

// renderMinimap plots the frame's nodes on a character grid as seen through
// the current viewport transform. Nodes outside the canvas are not drawn.
func renderMinimap(f graph.Frame, selected string, cols, rows int) string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	if f.Width <= 0 || f.Height <= 0 {
		return gridString(grid)
	}

	cell := func(x, y float64) (int, int, bool) {
		cx, cy := f.Transform.Apply(x, y)
		c := int(cx / f.Width * float64(cols))
		r := int(cy / f.Height * float64(rows))
		return c, r, c >= 0 && c < cols && r >= 0 && r < rows
	}

	for _, e := range f.Edges {
		c1, r1, ok1 := cell(e.X1, e.Y1)
		c2, r2, ok2 := cell(e.X2, e.Y2)
		if !ok1 || !ok2 {
			continue
		}
		steps := max(abs(c2-c1), abs(r2-r1))
		for s := 1; s < steps; s++ {
			c := c1 + (c2-c1)*s/steps
			r := r1 + (r2-r1)*s/steps
			if grid[r][c] == ' ' {
				grid[r][c] = '·'
			}
		}
	}

	for _, n := range f.Nodes {
		c, r, ok := cell(n.X, n.Y)
		if !ok {
			continue
		}
		switch {
		case n.ID == selected:
			grid[r][c] = '@'
		case n.ID == f.Scope:
			grid[r][c] = '◉'
		case n.Leaf:
			grid[r][c] = 'o'
		default:
			grid[r][c] = '●'
		}
	}
	return gridString(grid)
}

func gridString(grid [][]rune) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
