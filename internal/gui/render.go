package gui

import (
	"errors"
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

// unit is the number of scene units per raylib unit. Cells are about 100
// scene units wide, which would put whole grids past raylib's far plane.
const unit = 100.0

var ErrWindowClosed = errors.New("gui: window is closed")

// Window is a raylib render.Backend. Only one may be open per process.
type Window struct {
	Title string
	FPS   int
	Font  rl.Font
	// Overlay draws 2D content over the scene, inside the frame.
	Overlay func()

	width, height int
	open          bool
}

// OpenWindow creates the raylib window and loads the HUD font.
func OpenWindow(title string, width, height, fps int) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
	return &Window{
		Title:  title,
		FPS:    fps,
		Font:   loadFont(),
		width:  width,
		height: height,
		open:   true,
	}
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func (w *Window) Close() {
	if !w.open {
		return
	}
	w.open = false
	rl.CloseWindow()
}

func (w *Window) Closed() bool     { return !w.open || rl.WindowShouldClose() }
func (w *Window) RefreshRate() int { return w.FPS }
func (w *Window) Size() (int, int) { return w.width, w.height }

// Resize follows the surface size. A size that came from the window
// itself is already applied.
func (w *Window) Resize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	if w.open && (rl.GetScreenWidth() != width || rl.GetScreenHeight() != height) {
		rl.SetWindowSize(width, height)
	}
}

// Draw renders one frame of s seen from cam, then the overlay.
func (w *Window) Draw(s *scene.Scene, cam *scene.Camera) error {
	if !w.open {
		return ErrWindowClosed
	}
	rl.BeginDrawing()
	rl.ClearBackground(toColor(s.Background, 1))
	rl.BeginMode3D(toCamera(cam))
	drawScene(s, cam)
	rl.EndMode3D()
	if w.Overlay != nil {
		w.Overlay()
	}
	rl.EndDrawing()
	return nil
}

// Present draws a frame with only the overlay, used by the menus.
func (w *Window) Present(bg rl.Color) {
	if !w.open {
		return
	}
	rl.BeginDrawing()
	rl.ClearBackground(bg)
	if w.Overlay != nil {
		w.Overlay()
	}
	rl.EndDrawing()
}

func drawScene(s *scene.Scene, cam *scene.Camera) {
	var opaque, blended []*scene.Mesh
	for _, m := range s.Root.AllMeshes() {
		if !m.Visible() {
			continue
		}
		if m.Material.Transparent && m.Material.Opacity < 1 {
			blended = append(blended, m)
		} else {
			opaque = append(opaque, m)
		}
	}
	for _, m := range opaque {
		drawMesh(m)
	}
	for _, l := range s.Root.AllLines() {
		drawLine(l)
	}
	// Blended meshes go last, far to near.
	sort.Slice(blended, func(i, j int) bool {
		return distance(cam.Position, blended[i].Position) > distance(cam.Position, blended[j].Position)
	})
	for _, m := range blended {
		drawMesh(m)
	}
}

func drawMesh(m *scene.Mesh) {
	pos := toVec(m.Position)
	size := float32(m.Size * m.Scale / unit)
	col := toColor(m.Material.Color, m.Material.Opacity)
	switch m.Geometry {
	case scene.Sphere:
		if m.Material.Wireframe {
			rl.DrawSphereWires(pos, size/2, 8, 12, col)
		} else {
			rl.DrawSphere(pos, size/2, col)
		}
	default:
		if !m.Material.Wireframe {
			rl.DrawCube(pos, size, size, size, col)
		}
		if m.Edges || m.Material.Wireframe {
			rl.DrawCubeWires(pos, size, size, size, EdgeColor)
		}
	}
}

// drawLine shades a segment in two halves, start color then end color.
func drawLine(l *scene.Line) {
	from, to := toVec(l.From), toVec(l.To)
	mid := rl.Vector3Lerp(from, to, 0.5)
	rl.DrawLine3D(from, mid, toColor(l.Color, 1))
	rl.DrawLine3D(mid, to, toColor(l.EndColor, 1))
}

func distance(a, b grid.Vec3) float32 {
	d := b.Sub(a)
	return math32.Hypot(math32.Hypot(float32(d.X), float32(d.Y)), float32(d.Z))
}

func toVec(v grid.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X/unit), float32(v.Y/unit), float32(v.Z/unit))
}

func toColor(c cells.Color, opacity float64) rl.Color {
	r, g, b := c.RGB255()
	a := math32.Floor(math32.Max(0, math32.Min(1, float32(opacity)))*255 + 0.5)
	return rl.NewColor(r, g, b, uint8(a))
}

func toCamera(c *scene.Camera) rl.Camera3D {
	return rl.NewCamera3D(
		toVec(c.Position),
		toVec(c.Position.Add(c.Forward)),
		rl.NewVector3(float32(c.Up.X), float32(c.Up.Y), float32(c.Up.Z)),
		float32(c.FOV),
		rl.CameraPerspective,
	)
}
