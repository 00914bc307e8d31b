package gui

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/experiment"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// HUD colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(255, 165, 0, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(10, 10, 10, 190)
	EdgeColor  = rl.NewColor(51, 51, 51, 255)
)

const (
	maxTelemetry = 200
	stepsPerSec  = 4.0
	lookSpeed    = 0.02
	zoomStep     = 150.0
)

type App struct {
	Config   *config.Config
	Registry *experiment.Registry
	Window   *Window
	Layouts  []string
	Selected int
	InMenu   bool
	InConfig bool
	Running  bool

	Params    map[string]float64
	ParamKeys []string
	ParamSel  int

	// Telemetry holds the active column count of recent steps.
	Telemetry []float64
	Status    string

	exp     *experiment.Experiment
	surface *render.Surface
	clock   render.Clock
	pending float64
	quit    bool
}

// NewApp creates an App drawing into w. With interactive set it opens on
// the layout menu; otherwise cfg.Layout starts at once.
func NewApp(cfg *config.Config, registry *experiment.Registry, w *Window, interactive bool) (*App, error) {
	layouts := registry.ListLayouts()
	sort.Strings(layouts)
	app := &App{
		Config:    cfg,
		Registry:  registry,
		Window:    w,
		Layouts:   layouts,
		InMenu:    interactive,
		Telemetry: make([]float64, 0, maxTelemetry),
		clock:     render.NewClock(),
	}
	for i, name := range layouts {
		if name == cfg.Layout {
			app.Selected = i
		}
	}
	app.loadParams()
	if !interactive {
		if err := app.start(); err != nil {
			return nil, err
		}
		app.Running = true
	}
	return app, nil
}

// RunInteractive opens a window on the layout menu and blocks until it
// is closed.
func RunInteractive(cfg *config.Config, registry *experiment.Registry) error {
	w := OpenWindow("cellviz", cfg.Width, cfg.Height, cfg.FPS)
	defer w.Close()
	app, err := NewApp(cfg, registry, w, true)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

// Run opens a window straight onto cfg.Layout.
func Run(cfg *config.Config, registry *experiment.Registry) error {
	w := OpenWindow("cellviz :: "+cfg.Layout, cfg.Width, cfg.Height, cfg.FPS)
	defer w.Close()
	app, err := NewApp(cfg, registry, w, false)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !a.Window.Closed() {
		a.Update()
		a.Draw()
	}
}

func (a *App) loadParams() {
	c := a.Config
	a.Params = map[string]float64{
		"noise":            c.Noise,
		"seed":             float64(c.Seed),
		"columns.x":        float64(c.Columns.Dims[0]),
		"columns.y":        float64(c.Columns.Dims[1]),
		"cells_per_column": float64(c.Columns.CellsPerColumn),
		"input.x":          float64(c.Input.Dims[0]),
		"input.y":          float64(c.Input.Dims[1]),
	}
	a.ParamKeys = a.ParamKeys[:0]
	for k := range a.Params {
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)
}

// applyParams copies the config screen values back into the config.
func (a *App) applyParams() error {
	c := *a.Config
	p := a.Params
	c.Noise = p["noise"]
	c.Seed = int64(p["seed"])
	c.Columns.Dims = [2]int{int(p["columns.x"]), int(p["columns.y"])}
	c.Columns.CellsPerColumn = int(p["cells_per_column"])
	c.Input.Dims = [2]int{int(p["input.x"]), int(p["input.y"])}
	if err := c.Validate(); err != nil {
		return err
	}
	*a.Config = c
	return nil
}

// start builds the selected layout and a fresh experiment on it. The
// previous scene is dropped with its surface.
func (a *App) start() error {
	c := *a.Config
	if a.InMenu || a.InConfig {
		c.Layout = a.Layouts[a.Selected]
	}
	c.Width, c.Height = rl.GetScreenWidth(), rl.GetScreenHeight()
	l, err := a.Registry.Build(&c, a.Window)
	if err != nil {
		return err
	}
	exp, err := experiment.New(&c, l)
	if err != nil {
		return err
	}
	a.exp = exp
	a.surface = l.Vis.Surface()
	a.Telemetry = a.Telemetry[:0]
	a.pending = 0
	a.Status = ""
	a.Window.Overlay = a.DrawHUD
	logging.Logger().Info("gui layout started", "layout", c.Layout)
	return nil
}

func (a *App) fail(err error) {
	if err == nil {
		return
	}
	a.Status = err.Error()
	a.Running = false
	logging.Logger().Error("gui", "err", err)
}

func (a *App) Update() {
	delta := a.clock.Delta()

	if a.InMenu {
		a.updateMenu()
		return
	}
	if a.InConfig {
		a.updateConfig()
		return
	}

	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressed(rl.KeyM) {
		a.InMenu = true
		a.Running = false
		return
	}
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if rl.IsWindowResized() {
		a.fail(a.surface.Resize(rl.GetScreenWidth(), rl.GetScreenHeight()))
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.step()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.fail(a.exp.Source().Reseed())
	}
	if rl.IsKeyPressed(rl.KeyEqual) {
		a.exp.Source().Noise = min(1, a.exp.Source().Noise+0.05)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		a.exp.Source().Noise = max(0, a.exp.Source().Noise-0.05)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.selectColumn(a.column() + 1)
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.selectColumn(-1)
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.pick()
	}

	a.fly(delta)

	if a.Running {
		a.pending += delta
		for a.pending >= 1/stepsPerSec {
			a.pending -= 1 / stepsPerSec
			a.step()
		}
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Layouts)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
		if a.Selected < 0 {
			a.Selected = len(a.Layouts) - 1
		}
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.InMenu = false
		a.InConfig = true
		a.loadParams()
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		if err := a.applyParams(); err != nil {
			a.Status = err.Error()
			return
		}
		if err := a.start(); err != nil {
			a.Status = err.Error()
			return
		}
		a.InConfig = false
		a.Running = true
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(a.ParamKeys) - 1
		}
	}

	key := a.ParamKeys[a.ParamSel]
	step := 1.0
	if key == "noise" {
		step = 0.05
	}
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Params[key] = max(0, a.Params[key]-step)
	}
}

// fly maps held keys and right-drag onto the fly controls.
func (a *App) fly(delta float64) {
	c := a.surface.Controls
	held := func(k int32) float64 {
		if rl.IsKeyDown(k) {
			return 1
		}
		return 0
	}
	c.State = scene.MoveState{
		Forward:   held(rl.KeyW),
		Back:      held(rl.KeyS),
		Left:      held(rl.KeyA),
		Right:     held(rl.KeyD),
		Up:        held(rl.KeyE),
		Down:      held(rl.KeyC),
		PitchUp:   held(rl.KeyUp),
		PitchDown: held(rl.KeyDown),
		YawLeft:   held(rl.KeyLeft),
		YawRight:  held(rl.KeyRight),
		RollLeft:  held(rl.KeyZ),
		RollRight: held(rl.KeyX),
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		if math32.Abs(d.X) > 0.5 {
			if d.X < 0 {
				c.State.YawLeft += float64(-d.X * lookSpeed / float32(delta+1e-3))
			} else {
				c.State.YawRight += float64(d.X * lookSpeed / float32(delta+1e-3))
			}
		}
		if math32.Abs(d.Y) > 0.5 {
			if d.Y < 0 {
				c.State.PitchUp += float64(-d.Y * lookSpeed / float32(delta+1e-3))
			} else {
				c.State.PitchDown += float64(d.Y * lookSpeed / float32(delta+1e-3))
			}
		}
	}
	c.Update(delta)
	c.State = scene.MoveState{}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam := a.surface.Camera
		cam.Position = cam.Position.Add(cam.Forward.Scale(float64(wheel) * zoomStep))
	}
}

func (a *App) step() {
	d, err := a.exp.Step()
	if err != nil {
		a.fail(err)
		return
	}
	a.Telemetry = append(a.Telemetry, float64(d.ActiveColumns.Population()))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

// column is the selected column, or -1.
func (a *App) column() int {
	if sel := a.exp.Selected(); sel != nil {
		return sel.ColumnIndex
	}
	return -1
}

func (a *App) selectColumn(c int) {
	n := a.exp.Pooler().NumColumns()
	if c >= n {
		c = -1
	}
	a.fail(a.exp.Select(c))
}

// pick selects the column under the mouse, or clears the selection when
// nothing is hit.
func (a *App) pick() {
	pos := rl.GetMousePosition()
	data, _, ok := a.surface.PickScreen(float64(pos.X), float64(pos.Y))
	if !ok {
		a.selectColumn(-1)
		return
	}
	if col, ok := a.exp.Layout().ColumnAt(data); ok {
		a.selectColumn(col)
	}
}

func (a *App) Draw() {
	if a.InMenu {
		a.Window.Overlay = a.drawMenu
		a.Window.Present(ColBg)
		return
	}
	if a.InConfig {
		a.Window.Overlay = a.drawConfig
		a.Window.Present(ColBg)
		return
	}
	a.Window.Overlay = a.DrawHUD
	a.fail(a.surface.Render())
}

func (a *App) DrawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	rl.DrawRectangle(0, 0, int32(w), 64, ColPanel)
	a.drawText("cellviz", 30, 20, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.exp.Layout().Name), 150, 24, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, w-130, 24, 16, col)

	y := 80
	a.drawText(fmt.Sprintf("step     %d", a.exp.Steps()), 30, y, 14, ColText)
	a.drawText(fmt.Sprintf("noise    %.2f", a.exp.Source().Noise), 30, y+18, 14, ColText)
	if c := a.column(); c >= 0 {
		a.drawText(fmt.Sprintf("column   %d", c), 30, y+36, 14, ColAccent)
	} else {
		a.drawText("column   -", 30, y+36, 14, ColTextDim)
	}
	for i, m := range a.exp.Metrics() {
		a.drawText(fmt.Sprintf("%-8s %.3f", m.Name(), m.Value()), 30, y+62+18*i, 14, ColText)
	}

	a.DrawTelemetry(30, h-130)

	if a.Status != "" {
		a.drawText(a.Status, 30, h-50, 14, rl.Red)
	}
	a.drawText("[SPACE] PAUSE  [N] STEP  [TAB] COLUMN  [CLICK] PICK  [WASDEC] FLY  [M] MENU  [Q] QUIT", 30, h-28, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-100, h-28, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Window.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the active column count as a line strip.
func (a *App) DrawTelemetry(rectX, rectY int) {
	if len(a.Telemetry) < 2 {
		return
	}
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("active: %.0f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("cellviz", 50, 50, 40, ColSelect)
	a.drawText("Select Layout", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Layouts {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, rl.GetScreenHeight()-40, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("cellviz", 50, 50, 40, ColTextDim)
	a.drawText("configure", 240, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Layout: %s", a.Layouts[a.Selected]), 50, 110, 16, ColAccent)

	y := 180
	for i, key := range a.ParamKeys {
		val := a.Params[key]
		if i == a.ParamSel {
			a.drawText(fmt.Sprintf("> %-18s %.2f", key, val), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-18s %.2f", key, val), 50, y, 20, ColText)
		}
		y += 28
	}
	if a.Status != "" {
		a.drawText(a.Status, 50, y+20, 16, rl.Red)
	}

	a.drawText("ARROWS: ADJUST  ENTER: RUN  ESC: BACK", 50, rl.GetScreenHeight()-40, 14, ColTextDim)
}
