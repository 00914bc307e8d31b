package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/experiment"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/metrics"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
	"github.com/san-kum/cellviz/internal/sdr"
)

const (
	panelWidth      = 44
	historyCapacity = 120
	noiseStep       = 0.05
)

// nudge is how many seconds of fly control one key press applies.
const nudge = 0.1

type TickMsg time.Time

// Model runs an experiment live: each tick draws one pooler step and
// renders the layout's surface onto the terminal.
type Model struct {
	exp      *experiment.Experiment
	surface  *render.Surface
	term     *Terminal
	clock    render.Clock
	active   *metrics.Series
	overlap  *metrics.Series
	prev     sdr.SDR
	running  bool
	showHelp bool
	column   int
	width    int
	height   int
	err      error
}

// NewModel wraps an experiment whose layout was built on term.
func NewModel(exp *experiment.Experiment, term *Terminal) Model {
	column := -1
	if sel := exp.Selected(); sel != nil {
		column = sel.ColumnIndex
	}
	return Model{
		exp:     exp,
		surface: exp.Layout().Vis.Surface(),
		term:    term,
		clock:   render.NewClock(),
		active:  metrics.NewSeries(historyCapacity),
		overlap: metrics.NewSeries(historyCapacity),
		running: true,
		column:  column,
	}
}

func (m Model) tick() tea.Cmd {
	fps := m.term.RefreshRate()
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles keys, resizes and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols, rows := canvasSize(msg.Width, msg.Height)
		m.fail(m.surface.Resize(cols*2, rows*4))
	case TickMsg:
		if m.running {
			m.step()
		}
		m.surface.Controls.Update(m.clock.Delta())
		m.fail(m.surface.Render())
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.term.Close()
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "n":
		m.step()
	case "tab", "]":
		m.selectColumn(m.column + 1)
	case "shift+tab", "[":
		m.selectColumn(m.column - 1)
	case "esc":
		m.selectColumn(-1)
	case "r":
		m.fail(m.exp.Source().Reseed())
	case "+", "=":
		m.exp.Source().Noise = min(1, m.exp.Source().Noise+noiseStep)
	case "-", "_":
		m.exp.Source().Noise = max(0, m.exp.Source().Noise-noiseStep)
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	case "w":
		m.fly(func(s *scene.MoveState) { s.Forward = 1 })
	case "s":
		m.fly(func(s *scene.MoveState) { s.Back = 1 })
	case "a":
		m.fly(func(s *scene.MoveState) { s.Left = 1 })
	case "d":
		m.fly(func(s *scene.MoveState) { s.Right = 1 })
	case "e":
		m.fly(func(s *scene.MoveState) { s.Up = 1 })
	case "c":
		m.fly(func(s *scene.MoveState) { s.Down = 1 })
	case "left":
		m.fly(func(s *scene.MoveState) { s.YawLeft = 1 })
	case "right":
		m.fly(func(s *scene.MoveState) { s.YawRight = 1 })
	case "up":
		m.fly(func(s *scene.MoveState) { s.PitchUp = 1 })
	case "down":
		m.fly(func(s *scene.MoveState) { s.PitchDown = 1 })
	}
	return m, nil
}

// fly applies one nudge of movement and releases it.
func (m *Model) fly(set func(*scene.MoveState)) {
	c := m.surface.Controls
	set(&c.State)
	c.Update(nudge)
	c.State = scene.MoveState{}
}

func (m *Model) fail(err error) {
	if err != nil {
		m.err = err
		m.running = false
		logging.Logger().Error("tui", "err", err)
	}
}

func (m *Model) step() {
	d, err := m.exp.Step()
	if err != nil {
		m.fail(err)
		return
	}
	m.active.Push(float64(d.ActiveColumns.Population()))
	if m.prev != nil {
		m.overlap.Push(float64(sdr.Overlap(m.prev, d.ActiveColumns)))
	}
	m.prev = d.ActiveColumns
}

func (m *Model) selectColumn(c int) {
	n := m.exp.Pooler().NumColumns()
	switch {
	case c < -1:
		c = n - 1
	case c >= n:
		c = -1
	}
	if err := m.exp.Select(c); err != nil {
		m.fail(err)
		return
	}
	m.column = c
}

// canvasSize splits a terminal between the cell view and the panel.
func canvasSize(w, h int) (cols, rows int) {
	return max(w-panelWidth-4, 10), max(h-1, 5)
}

func (m Model) View() string {
	var s strings.Builder
	cfg := m.exp.Config()
	s.WriteString(headerStyle().Render("CELLVIZ  "+strings.ToUpper(cfg.Layout)) + "\n\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.exp.Steps()))
	if m.column >= 0 {
		row("Column", accentStyle().Render(fmt.Sprintf("%d", m.column)))
	} else {
		row("Column", "none")
	}
	src := m.exp.Source()
	row("Noise", fmt.Sprintf("%.2f", src.Noise))
	row("Density", ProgressBar(src.Density*10, 10)+fmt.Sprintf(" %.3f", src.Density))
	s.WriteString("\n")

	values := m.exp.MetricValues()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row(name, fmt.Sprintf("%.3f", values[name]))
	}

	if m.active.Len() > 1 {
		chart := asciigraph.Plot(m.active.Values(), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("active columns"))
		s.WriteString("\n" + graphStyle().Render(chart) + "\n")
	}
	if m.overlap.Len() > 1 {
		chart := asciigraph.Plot(m.overlap.Values(), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("overlap"))
		s.WriteString("\n" + graphStyle().Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + Separator(panelWidth-4) + "\n")
	s.WriteString(keyHint("spc", "pause") + "  " + keyHint("n", "step") + "  " + keyHint("tab", "column") + "\n")
	s.WriteString(keyHint("?", "help") + "  " + keyHint("q", "quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.term.Frame(), panelStyle(panelWidth).Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single step              ║
║  Tab / ]  - Select next column       ║
║  [        - Select previous column   ║
║  Esc      - Clear selection          ║
║  R        - New input pattern        ║
║  + / -    - Input noise              ║
║  WASD E C - Fly camera               ║
║  Arrows   - Turn camera              ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
