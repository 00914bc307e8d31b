package render

import (
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/scene"
)

// Surface is the render context owned by one visualization.
type Surface struct {
	Element  string
	Width    int
	Height   int
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls *scene.FlyControls
	Backend  Backend

	targets []*scene.Mesh
}

// NewSurface builds the scene, camera and fly controls for a w by h view.
func NewSurface(opts Options, b Backend) *Surface {
	opts = opts.WithDefaults(0)
	cam := scene.NewCamera(float64(opts.Width) / float64(opts.Height))
	s := &Surface{
		Element:  opts.Element,
		Width:    opts.Width,
		Height:   opts.Height,
		Scene:    scene.New(),
		Camera:   cam,
		Controls: scene.NewFlyControls(cam),
		Backend:  b,
	}
	b.Resize(s.Width, s.Height)
	logging.Logger().Info("surface created", "element", opts.Element, "width", s.Width, "height", s.Height)
	return s
}

// Render draws one frame with the light at the camera.
func (s *Surface) Render() error {
	s.Scene.Light.Position = s.Camera.Position
	return s.Backend.Draw(s.Scene, s.Camera)
}

// Resize updates the aspect ratio and backend size, then renders at once
// rather than waiting for the next tick.
func (s *Surface) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	s.Width, s.Height = w, h
	s.Camera.SetAspect(w, h)
	s.Backend.Resize(w, h)
	logging.Logger().Info("surface resized", "width", w, "height", h)
	return s.Render()
}

// Targets returns every pickable mesh.
func (s *Surface) Targets() []*scene.Mesh { return s.targets }

// AddTarget registers a mesh for picking.
func (s *Surface) AddTarget(m *scene.Mesh) { s.targets = append(s.targets, m) }

// DropTargets forgets the given meshes, used when a grid is rebuilt.
func (s *Surface) DropTargets(gone map[*scene.Mesh]bool) {
	kept := s.targets[:0]
	for _, m := range s.targets {
		if !gone[m] {
			kept = append(kept, m)
		}
	}
	s.targets = kept
}

// Pick returns the cell under the ray, if any.
func (s *Surface) Pick(r scene.Ray) (scene.CellData, *scene.Mesh, bool) {
	m, ok := scene.Pick(r, s.targets)
	if !ok {
		return scene.CellData{}, nil, false
	}
	return m.Data, m, true
}

// PickScreen picks through a screen coordinate.
func (s *Surface) PickScreen(x, y float64) (scene.CellData, *scene.Mesh, bool) {
	return s.Pick(s.Camera.Ray(x, y, s.Width, s.Height))
}
