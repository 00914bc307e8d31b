package layers

import (
	"fmt"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// Neuron is one cell of an externally simulated layer.
type Neuron interface {
	State() string
	// Origin is where the neuron sits, in cube steps for a layer and in
	// world units for a column.
	Origin() grid.Vec3
	// Position is the neuron's logical address, shown in its label.
	Position() grid.Vec3
}

// NeuronLayer is a flat list of neurons with nominal dimensions.
type NeuronLayer interface {
	Neurons() []Neuron
	Dimensions() grid.Dims
}

// NeuronColumn is a stack of layers.
type NeuronColumn interface {
	Layers() []NeuronLayer
}

// GuideLength is the length of the axis guide lines.
const GuideLength = 10000

var (
	neuronInactive = cells.MustColor("#FFFEEE")
	neuronActive   = cells.MustColor("orange")
)

// NeuronColor colors inactive neurons off-white and anything else orange.
func NeuronColor(state string) cells.Color {
	if state == string(cells.Inactive) {
		return neuronInactive
	}
	return neuronActive
}

func neuronLabel(index int, n Neuron) string {
	p := n.Position()
	return fmt.Sprintf("%d\n%g, %g, %g", index, p.X, p.Y, p.Z)
}

// addGuides draws x (blue), y (red) and z (green) axis lines from the
// origin.
func addGuides(sc *scene.Scene) *scene.Group {
	g := scene.NewGroup("guides")
	g.AddLine(scene.NewLine(grid.Vec3{}, grid.Vec3{X: GuideLength}, cells.MustColor("blue")))
	g.AddLine(scene.NewLine(grid.Vec3{}, grid.Vec3{Y: GuideLength}, cells.MustColor("red")))
	g.AddLine(scene.NewLine(grid.Vec3{}, grid.Vec3{Z: GuideLength}, cells.MustColor("green")))
	sc.Add(g)
	return g
}

func newNeuronMesh(opts render.Options, index int, n Neuron) *scene.Mesh {
	m := scene.NewMesh(opts.Geometry, opts.CubeSize, NeuronColor(n.State()))
	m.Edges = true
	m.Label = neuronLabel(index, n)
	m.Data = scene.CellData{Type: TypeNeuron, Index: index}
	return m
}

// HighbrowLayer draws a neuron layer, placing each neuron at origin plus
// its own origin scaled by cube size and spacing.
type HighbrowLayer struct {
	Layer NeuronLayer

	opts     render.Options
	surface  *render.Surface
	group    *scene.Group
	meshes   []*scene.Mesh
	origin   grid.Vec3
	rendered bool
}

func NewHighbrowLayer(l NeuronLayer, opts render.Options, b render.Backend) *HighbrowLayer {
	opts = opts.WithDefaults(0)
	return &HighbrowLayer{Layer: l, opts: opts, surface: render.NewSurface(opts, b)}
}

func (v *HighbrowLayer) position(n Neuron) grid.Vec3 {
	o := n.Origin()
	s := v.opts.Spacing
	cs := v.opts.CubeSize
	return grid.Vec3{
		X: v.origin.X + cs*s.X*o.X,
		Y: v.origin.Y + cs*s.Y*o.Y,
		Z: v.origin.Z + cs*s.Z*o.Z,
	}
}

// OffsetCenterPosition centers the layer's nominal dimensions about the
// configured offset. Unlike cell grids both X and Y add the half extent.
func (v *HighbrowLayer) OffsetCenterPosition() grid.Vec3 {
	d := v.Layer.Dimensions()
	s := v.opts.Spacing
	cs := v.opts.CubeSize
	o := v.opts.Offset
	return grid.Vec3{
		X: o.X*cs*s.X + float64(d.X)*cs*s.X/2,
		Y: o.Y*cs*s.Y + float64(d.Y)*cs*s.Y/2,
		Z: o.Z * cs * s.Z,
	}
}

func (v *HighbrowLayer) Render() error {
	if v.rendered {
		return render.ErrAlreadyRendered
	}
	v.group = scene.NewGroup("highbrow-layer")
	for i, n := range v.Layer.Neurons() {
		m := newNeuronMesh(v.opts, i, n)
		m.Position = v.position(n)
		v.group.AddMesh(m)
		v.meshes = append(v.meshes, m)
		v.surface.AddTarget(m)
	}
	v.surface.Scene.Add(v.group)
	addGuides(v.surface.Scene)
	v.rendered = true
	frameCamera(v.surface, v.opts, v.meshes)
	return v.surface.Render()
}

func (v *HighbrowLayer) Redraw() error {
	if !v.rendered {
		return render.ErrNotRendered
	}
	neurons := v.Layer.Neurons()
	if len(neurons) != len(v.meshes) {
		return fmt.Errorf("%w: %d neurons, %d meshes", render.ErrShapeMismatch, len(neurons), len(v.meshes))
	}
	for i, n := range neurons {
		m := v.meshes[i]
		m.Material.Color = NeuronColor(n.State())
		m.Position = v.position(n)
		m.Label = neuronLabel(i, n)
	}
	return nil
}

func (v *HighbrowLayer) Surface() *render.Surface { return v.surface }
func (v *HighbrowLayer) Targets() []*scene.Mesh   { return v.surface.Targets() }
func (v *HighbrowLayer) Meshes() []*scene.Mesh    { return v.meshes }

// HighbrowColumn draws every layer of a neuron column at the neurons' raw
// origins.
type HighbrowColumn struct {
	Column NeuronColumn

	opts     render.Options
	surface  *render.Surface
	group    *scene.Group
	meshes   [][]*scene.Mesh
	rendered bool
}

func NewHighbrowColumn(c NeuronColumn, opts render.Options, b render.Backend) *HighbrowColumn {
	opts = opts.WithDefaults(0)
	return &HighbrowColumn{Column: c, opts: opts, surface: render.NewSurface(opts, b)}
}

func (v *HighbrowColumn) Render() error {
	if v.rendered {
		return render.ErrAlreadyRendered
	}
	v.group = scene.NewGroup("highbrow-column")
	var all []*scene.Mesh
	for _, l := range v.Column.Layers() {
		var row []*scene.Mesh
		for i, n := range l.Neurons() {
			m := newNeuronMesh(v.opts, i, n)
			m.Position = n.Origin()
			v.group.AddMesh(m)
			v.surface.AddTarget(m)
			row = append(row, m)
		}
		v.meshes = append(v.meshes, row)
		all = append(all, row...)
	}
	v.surface.Scene.Add(v.group)
	addGuides(v.surface.Scene)
	v.rendered = true
	frameCamera(v.surface, v.opts, all)
	return v.surface.Render()
}

func (v *HighbrowColumn) Redraw() error {
	if !v.rendered {
		return render.ErrNotRendered
	}
	layers := v.Column.Layers()
	if len(layers) != len(v.meshes) {
		return fmt.Errorf("%w: %d layers, %d cached", render.ErrShapeMismatch, len(layers), len(v.meshes))
	}
	for li, l := range layers {
		neurons := l.Neurons()
		if len(neurons) != len(v.meshes[li]) {
			return fmt.Errorf("%w: layer %d has %d neurons, %d meshes", render.ErrShapeMismatch, li, len(neurons), len(v.meshes[li]))
		}
		for i, n := range neurons {
			m := v.meshes[li][i]
			m.Material.Color = NeuronColor(n.State())
			m.Position = n.Origin()
			m.Label = neuronLabel(i, n)
		}
	}
	return nil
}

func (v *HighbrowColumn) Surface() *render.Surface { return v.surface }
func (v *HighbrowColumn) Targets() []*scene.Mesh   { return v.surface.Targets() }
func (v *HighbrowColumn) Meshes() [][]*scene.Mesh  { return v.meshes }
