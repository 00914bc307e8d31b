package layers

import (
	"strconv"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// DysonOffsetFactor is the distance between cube centers, in cubes.
const DysonOffsetFactor = 1.25

// DysonPalette colors layer values 0, 1 and 2.
var DysonPalette = map[int]cells.Color{
	0: cells.MustColor("#ffffff"),
	1: cells.MustColor("#ffff00"),
	2: cells.MustColor("#ff0000"),
}

func dysonColor(v int) (cells.Color, error) {
	if c, ok := DysonPalette[v]; ok {
		return c, nil
	}
	known := make([]string, 0, len(DysonPalette))
	for k := range DysonPalette {
		known = append(known, strconv.Itoa(k))
	}
	return cells.Color{}, &cells.UnknownCellValueError{Value: strconv.Itoa(v), Known: known}
}

// Dyson draws a stack of dense integer layers centered on the origin.
type Dyson struct {
	Layers *cells.Layers

	opts     render.Options
	surface  *render.Surface
	group    *scene.Group
	meshes   map[grid.Coord]*scene.Mesh
	rendered bool
}

func NewDyson(l *cells.Layers, opts render.Options, b render.Backend) *Dyson {
	opts = opts.WithDefaults(0)
	return &Dyson{Layers: l, opts: opts, surface: render.NewSurface(opts, b)}
}

func (v *Dyson) position(at grid.Coord) grid.Vec3 {
	d := v.Layers.Dims()
	f := DysonOffsetFactor * v.opts.CubeSize
	return grid.Vec3{
		X: f*float64(at.Y) - f*float64(d.Y)/2,
		Y: f*float64(at.X) - f*float64(d.X)/2,
		Z: f*float64(at.Z) - f*float64(d.Z)/2,
	}
}

// Render creates a cube for every entry; the coordinate is (row, column,
// layer).
func (v *Dyson) Render() error {
	if v.rendered {
		return render.ErrAlreadyRendered
	}
	v.group = scene.NewGroup("dyson")
	v.meshes = make(map[grid.Coord]*scene.Mesh)
	var err error
	var all []*scene.Mesh
	v.Layers.Dims().Each(func(at grid.Coord) {
		if err != nil {
			return
		}
		val, _ := v.Layers.At(at.Z, at.X, at.Y)
		c, cerr := dysonColor(val)
		if cerr != nil {
			err = cerr
			return
		}
		m := scene.NewMesh(v.opts.Geometry, v.opts.CubeSize, c)
		m.Position = v.position(at)
		m.Data = scene.CellData{Type: TypeCells, Coord: at}
		v.group.AddMesh(m)
		v.surface.AddTarget(m)
		v.meshes[at] = m
		all = append(all, m)
	})
	if err != nil {
		return err
	}
	v.surface.Scene.Add(v.group)
	v.rendered = true
	frameCamera(v.surface, v.opts, all)
	return v.surface.Render()
}

func (v *Dyson) Redraw() error {
	if !v.rendered {
		return render.ErrNotRendered
	}
	for at, m := range v.meshes {
		val, _ := v.Layers.At(at.Z, at.X, at.Y)
		c, err := dysonColor(val)
		if err != nil {
			return err
		}
		m.Material.Color = c
	}
	return nil
}

func (v *Dyson) Surface() *render.Surface { return v.surface }
func (v *Dyson) Targets() []*scene.Mesh   { return v.surface.Targets() }
