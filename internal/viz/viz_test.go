package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/experiment"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

var red = cells.MustColor("red")

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	assert.Equal(t, rune(0x2800|0x1|0x80), c.Grid[0][0])

	c.Unset(0, 0)
	assert.Equal(t, rune(0x2800|0x80), c.Grid[0][0])

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	assert.Equal(t, blank, c.Grid[0][1])

	c.Clear()
	assert.Equal(t, strings.Repeat(string(blank), 2)+"\n", c.String())
}

func TestCanvasDepth(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Pen, c.Depth = red, 10
	c.Set(0, 0)

	blue := cells.MustColor("blue")
	c.Pen, c.Depth = blue, 20
	c.Set(1, 0)
	got, ok := c.ColorAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, red, got)

	c.Pen, c.Depth = blue, 5
	c.Set(1, 1)
	got, _ = c.ColorAt(0, 0)
	assert.Equal(t, blue, got)
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for _, r := range c.Grid[0] {
		assert.Equal(t, rune(0x2800|0x1|0x8), r)
	}
}

func TestCanvasFill(t *testing.T) {
	c := NewCanvas(2, 2)
	c.FillRect(3, 7, 0, 0)
	for _, row := range c.Grid {
		for _, r := range row {
			assert.Equal(t, rune(0x28ff), r)
		}
	}

	c.Clear()
	c.FillCircle(1, 1, 0)
	_, ok := c.ColorAt(1, 1)
	assert.True(t, ok)
	_, ok = c.ColorAt(3, 7)
	assert.False(t, ok)
}

func TestRasterize(t *testing.T) {
	s := scene.New()
	m := scene.NewMesh(scene.Box, 100, red)
	m.Position = grid.Vec3{Z: -500}
	s.AddMesh(m)
	hidden := scene.NewMesh(scene.Box, 100, cells.MustColor("blue"))
	hidden.Position = grid.Vec3{Z: 500}
	s.AddMesh(hidden)

	c := NewCanvas(20, 10)
	Rasterize(c, s, scene.NewCamera(2))

	got, ok := c.ColorAt(20, 20)
	require.True(t, ok)
	assert.Equal(t, red, got)
	_, ok = c.ColorAt(0, 0)
	assert.False(t, ok)
}

func TestRasterizeLine(t *testing.T) {
	s := scene.New()
	s.Root.AddLine(&scene.Line{
		From:     grid.Vec3{X: -100, Z: -500},
		To:       grid.Vec3{X: 100, Z: -500},
		Color:    red,
		EndColor: cells.MustColor("blue"),
	})
	c := NewCanvas(20, 10)
	Rasterize(c, s, scene.NewCamera(1))

	left, ok := c.ColorAt(12, 20)
	require.True(t, ok)
	assert.Equal(t, red, left)
	right, ok := c.ColorAt(28, 20)
	require.True(t, ok)
	assert.Equal(t, cells.MustColor("blue"), right)
}

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Layout = "single"
	cfg.Input.Dims = [2]int{8, 8}
	cfg.Columns.Dims = [2]int{4, 4}
	cfg.Columns.CellsPerColumn = 2
	return cfg
}

func TestTerminalBackend(t *testing.T) {
	term := NewTerminal(30, 10, 30)
	cfg := smallConfig()
	cfg.Width, cfg.Height = 60, 40
	l, err := experiment.NewRegistry().Build(cfg, term)
	require.NoError(t, err)

	assert.Equal(t, 1, term.Frames())
	snap := term.Snapshot()
	assert.Equal(t, 30, snap.Width)
	assert.Equal(t, 10, snap.Height)
	assert.NotEqual(t, strings.Repeat(string(blank), 30), string(snap.Grid[5]))

	require.NoError(t, l.Vis.Surface().Resize(41, 21))
	assert.Equal(t, 21, term.Snapshot().Width)
	assert.Equal(t, 6, term.Snapshot().Height)
	assert.Equal(t, 2, term.Frames())

	assert.False(t, term.Closed())
	term.Close()
	assert.True(t, term.Closed())
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLive(t *testing.T) Model {
	t.Helper()
	term := NewTerminal(20, 10, 30)
	cfg := smallConfig()
	cfg.Width, cfg.Height = 40, 40
	l, err := experiment.NewRegistry().Build(cfg, term)
	require.NoError(t, err)
	exp, err := experiment.New(cfg, l)
	require.NoError(t, err)
	return NewModel(exp, term)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelSteps(t *testing.T) {
	m := newLive(t)
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	assert.Equal(t, 2, m.exp.Steps())
	assert.Equal(t, 2, m.active.Len())
	assert.Equal(t, 1, m.overlap.Len())

	m = update(m, key(" "))
	assert.False(t, m.running)
	m = update(m, TickMsg{})
	assert.Equal(t, 2, m.exp.Steps())

	m = update(m, key("n"))
	assert.Equal(t, 3, m.exp.Steps())
}

func TestModelSelection(t *testing.T) {
	m := newLive(t)
	m = update(m, key("tab"))
	assert.Equal(t, 0, m.column)
	require.NotNil(t, m.exp.Selected())

	m = update(m, key("["))
	m = update(m, key("["))
	assert.Equal(t, 15, m.column)

	m = update(m, key("esc"))
	assert.Equal(t, -1, m.column)
	assert.Nil(t, m.exp.Selected())
}

func TestModelNoiseAndCamera(t *testing.T) {
	m := newLive(t)
	noise := m.exp.Source().Noise
	m = update(m, key("+"))
	assert.InDelta(t, noise+noiseStep, m.exp.Source().Noise, 1e-9)

	before := m.surface.Camera.Position
	m = update(m, key("w"))
	assert.NotEqual(t, before, m.surface.Camera.Position)
	assert.Equal(t, scene.MoveState{}, m.surface.Controls.State)
}

func TestModelView(t *testing.T) {
	m := newLive(t)
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	v := m.View()
	assert.Contains(t, v, "CELLVIZ")
	assert.Contains(t, v, "SINGLE")
	assert.Contains(t, v, "sparsity")

	m = update(m, key("?"))
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")
}

func TestModelQuit(t *testing.T) {
	m := newLive(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.term.Closed())
}

func TestAppMenu(t *testing.T) {
	a := NewApp(smallConfig(), experiment.NewRegistry())
	assert.Contains(t, a.View(), "complete-htm")

	next, _ := a.Update(key("j"))
	a = next.(App)
	assert.Equal(t, 1, a.cursor)

	next, cmd := a.Update(key("enter"))
	a = next.(App)
	require.NoError(t, a.err)
	assert.NotNil(t, cmd)
	assert.Equal(t, stateLive, a.state)
	assert.Equal(t, a.layouts[1], a.live.exp.Config().Layout)
}
