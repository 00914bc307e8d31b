package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/experiment"
)

var layoutInfo = map[string]string{
	"single":         "one grid of columns",
	"minicolumns":    "columns of cells",
	"sp-to-input":    "columns over their input",
	"complete-htm":   "input, columns, segments",
	"highbrow-layer": "neuron layer",
	"dyson":          "layered dyson view",
}

const (
	stateMenu = iota
	stateLive
)

// App lets the user pick a layout, then runs it live.
type App struct {
	cfg      *config.Config
	registry *experiment.Registry
	layouts  []string
	state    int
	cursor   int
	width    int
	height   int
	live     Model
	err      error
}

func NewApp(cfg *config.Config, registry *experiment.Registry) App {
	return App{
		cfg:      cfg,
		registry: registry,
		layouts:  registry.ListLayouts(),
		state:    stateMenu,
		width:    80,
		height:   24,
	}
}

func (a App) Init() tea.Cmd {
	if a.state == stateLive {
		return a.live.Init()
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = ws.Width, ws.Height
	}
	if a.state == stateLive {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return a.menuKey(key)
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.layouts)-1 {
			a.cursor++
		}
	case "enter", " ":
		cmd, err := a.Start(a.layouts[a.cursor])
		a.err = err
		return a, cmd
	}
	return a, nil
}

// Start builds the named layout on a terminal backend sized to the window
// and switches to the live view.
func (a *App) Start(layout string) (tea.Cmd, error) {
	c := *a.cfg
	c.Layout = layout
	cols, rows := canvasSize(a.width, a.height)
	c.Width, c.Height = cols*2, rows*4

	term := NewTerminal(cols, rows, c.FPS)
	l, err := a.registry.Build(&c, term)
	if err != nil {
		return nil, err
	}
	exp, err := experiment.New(&c, l)
	if err != nil {
		return nil, err
	}
	SetTheme(c.Theme)
	a.live = NewModel(exp, term)
	a.state = stateLive
	return a.live.Init(), nil
}

func (a App) View() string {
	if a.state == stateLive {
		return a.live.View()
	}
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + h.Render("CELLVIZ") + "\n    " + sub.Render("htm cell visualizations") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.layouts {
		desc := layoutInfo[name]
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-16s", name)),
				lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				sub.Render(fmt.Sprintf("  %-16s", name)),
				sub.Render(desc)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHint("j/k", "navigate") + "  " + keyHint("enter", "select") + "  " + keyHint("q", "quit") + "\n")
	return b.String()
}

// RunInteractive shows the layout menu.
func RunInteractive(cfg *config.Config, registry *experiment.Registry) error {
	_, err := tea.NewProgram(NewApp(cfg, registry), tea.WithAltScreen()).Run()
	return err
}

// RunLayout skips the menu and runs cfg.Layout at once.
func RunLayout(cfg *config.Config, registry *experiment.Registry) error {
	app := NewApp(cfg, registry)
	if _, err := app.Start(cfg.Layout); err != nil {
		return err
	}
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
