package viz

import (
	"sort"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/scene"
)

// EdgeColor outlines meshes that draw edges.
var EdgeColor = cells.MustColor("#333333")

type projectedMesh struct {
	mesh   *scene.Mesh
	x, y   int
	radius int
	depth  float64
}

// Rasterize draws s as seen by cam onto c. Meshes become filled squares or
// discs sized by perspective and are painted far to near; lines are drawn
// last, in their start color up to the midpoint and end color after.
func Rasterize(c *Canvas, s *scene.Scene, cam *scene.Camera) {
	if c == nil || s == nil || cam == nil {
		return
	}
	c.Clear()
	w, h := c.Pixels()
	view := *cam
	view.SetAspect(w, h)

	var proj []projectedMesh
	for _, m := range s.Root.AllMeshes() {
		if !m.Visible() {
			continue
		}
		x, y, depth, ok := view.Project(m.Position, w, h)
		if !ok {
			continue
		}
		edge := m.Position.Add(view.Up.Scale(m.HalfExtent()))
		_, ey, _, _ := view.Project(edge, w, h)
		r := absInt(int(y - ey))
		proj = append(proj, projectedMesh{mesh: m, x: int(x), y: int(y), radius: r, depth: depth})
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })

	for _, p := range proj {
		c.Depth = p.depth
		c.Pen = p.mesh.Material.Color
		if p.mesh.Geometry == scene.Sphere {
			c.FillCircle(p.x, p.y, p.radius)
		} else {
			c.FillRect(p.x-p.radius, p.y-p.radius, p.x+p.radius, p.y+p.radius)
		}
		if p.mesh.Edges && p.radius > 1 {
			c.Pen = EdgeColor
			outline(c, p.x, p.y, p.radius)
		}
	}

	for _, l := range s.Root.AllLines() {
		drawLine(c, &view, l, w, h)
	}
}

func outline(c *Canvas, x, y, r int) {
	c.DrawLine(x-r, y-r, x+r, y-r)
	c.DrawLine(x+r, y-r, x+r, y+r)
	c.DrawLine(x+r, y+r, x-r, y+r)
	c.DrawLine(x-r, y+r, x-r, y-r)
}

func drawLine(c *Canvas, cam *scene.Camera, l *scene.Line, w, h int) {
	mid := l.From.Add(l.To).Scale(0.5)
	x0, y0, d0, ok0 := cam.Project(l.From, w, h)
	xm, ym, dm, okm := cam.Project(mid, w, h)
	x1, y1, d1, ok1 := cam.Project(l.To, w, h)
	if !okm {
		return
	}
	if ok0 {
		c.Pen, c.Depth = l.Color, min(d0, dm)
		c.DrawLine(int(x0), int(y0), int(xm), int(ym))
	}
	if ok1 {
		c.Pen, c.Depth = l.EndColor, min(d1, dm)
		c.DrawLine(int(xm), int(ym), int(x1), int(y1))
	}
}
