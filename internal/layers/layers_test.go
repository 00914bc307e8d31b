package layers_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/layers"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

var red = cells.MustColor("red")

var _ = Describe("SingleLayer", func() {
	var (
		store   *cells.Grid
		vis     *layers.SingleLayer
		backend *render.Headless
	)

	BeforeEach(func() {
		store = cells.NewGrid(2, 2, 2)
		backend = &render.Headless{}
		vis = layers.NewSingleLayer(store, render.Options{}, backend)
	})

	It("refuses to redraw before rendering", func() {
		Expect(vis.Redraw()).To(MatchError(render.ErrNotRendered))
	})

	It("renders once", func() {
		Expect(vis.Render()).To(Succeed())
		Expect(backend.Frames).To(Equal(1))
		Expect(vis.Targets()).To(HaveLen(8))
		Expect(vis.Render()).To(MatchError(render.ErrAlreadyRendered))
	})

	It("updates only the changed cell on redraw", func() {
		Expect(vis.Render()).To(Succeed())
		before := map[grid.Coord]cells.Color{}
		vis.Cache().Each(func(at grid.Coord, m *scene.Mesh) { before[at] = m.Material.Color })

		Expect(store.Update(grid.Coord{}, cells.SetColor(red), cells.UpdateOptions{})).To(Succeed())
		Expect(vis.Redraw()).To(Succeed())

		vis.Cache().Each(func(at grid.Coord, m *scene.Mesh) {
			if at == (grid.Coord{}) {
				Expect(m.Material.Color).To(Equal(red))
			} else {
				Expect(m.Material.Color).To(Equal(before[at]))
			}
		})
	})

	It("keeps mesh identity across redraws", func() {
		Expect(vis.Render()).To(Succeed())
		first := append([]*scene.Mesh(nil), vis.Targets()...)
		for i := 0; i < 10; i++ {
			Expect(vis.Redraw()).To(Succeed())
		}
		Expect(vis.Targets()).To(HaveLen(len(first)))
		for i, m := range vis.Targets() {
			Expect(m).To(BeIdenticalTo(first[i]))
		}
	})

	It("outlines exactly the selected cells", func() {
		Expect(vis.Render()).To(Succeed())
		store.Selection().SelectColumn(3)
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.SelectionCount()).To(Equal(2))
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.SelectionCount()).To(Equal(2))

		store.Selection().Clear()
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.SelectionCount()).To(BeZero())
	})
})

var _ = Describe("SpToInput", func() {
	It("places the input layer behind the SP layer", func() {
		input := cells.NewInputCells(16, true)
		sp := cells.NewMiniColumns(4, 2, 2)
		vis := layers.NewSpToInput(input, sp, render.Options{}, &render.Headless{})
		Expect(vis.Render()).To(Succeed())

		spMesh, ok := vis.SpCache().At(grid.Coord{})
		Expect(ok).To(BeTrue())
		inMesh, ok := vis.InputCache().At(grid.Coord{})
		Expect(ok).To(BeTrue())

		Expect(spMesh.Position.Z).To(BeNumerically("~", 0, 1e-9))
		Expect(inMesh.Position.Z).To(BeNumerically("~", -1000, 1e-9))
		Expect(inMesh.Position.X).To(BeNumerically("~", -280, 1e-9))
		Expect(inMesh.Position.Y).To(BeNumerically("~", 280, 1e-9))
	})

	It("picks up offset changes on redraw", func() {
		input := cells.NewInputCells(4, false)
		sp := cells.NewGrid(2, 1, 1)
		vis := layers.NewSpToInput(input, sp, render.Options{}, &render.Headless{})
		Expect(vis.Render()).To(Succeed())
		m, _ := vis.SpCache().At(grid.Coord{})
		x := m.Position.X

		vis.SetOffset(grid.Vec3{X: 1})
		Expect(vis.Redraw()).To(Succeed())
		Expect(m.Position.X).To(BeNumerically("~", x+140, 1e-9))
	})
})

var _ = Describe("CompleteHtm", func() {
	var (
		input *cells.InputCells
		sp    *cells.MiniColumns
		vis   *layers.CompleteHtm
	)

	BeforeEach(func() {
		input = cells.NewInputCells(9, true)
		sp = cells.NewMiniColumns(6, 4, 3)
		vis = layers.NewCompleteHtm(input, sp, render.Options{}, &render.Headless{})
		Expect(vis.Render()).To(Succeed())
	})

	It("puts the input layer in front", func() {
		m, _ := vis.InputCache().At(grid.Coord{})
		Expect(m.Position.Z).To(BeNumerically("~", 3000, 1e-9))
	})

	It("never accumulates outlines", func() {
		sp.Selection().SelectColumn(2)
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.SelectionCount()).To(Equal(4))

		sp.Selection().Clear()
		sp.Selection().SelectCell(5)
		input.Selection().SelectCell(0)
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.SelectionCount()).To(Equal(2))

		sp.Selection().Clear()
		input.Selection().Clear()
		Expect(vis.Redraw()).To(Succeed())
		Expect(vis.SelectionCount()).To(BeZero())
	})

	It("draws segments and spotlights their endpoints", func() {
		vis.SetSegments(
			[]layers.Segment{{Source: 0, Target: 5}},
			[]layers.Segment{{Source: 1, Target: 8}},
		)
		sp.Selection().SelectCell(0)
		Expect(vis.Redraw()).To(Succeed())

		distal, proximal := vis.SegmentLines()
		Expect(distal).To(HaveLen(1))
		Expect(proximal).To(HaveLen(1))

		src, _ := vis.SpCache().At(grid.Coord{})
		Expect(distal[0].From).To(Equal(src.Position))
		Expect(src.Material.Opacity).To(Equal(1.0))

		colFirst, _ := vis.SpCache().At(grid.Coord{X: 1})
		Expect(proximal[0].From).To(Equal(colFirst.Position))
		Expect(colFirst.Material.Opacity).To(Equal(1.0))
		bit, _ := vis.InputCache().At(grid.Coord{X: 2, Y: 2})
		Expect(bit.Material.Opacity).To(Equal(1.0))

		other, _ := vis.SpCache().At(grid.Coord{X: 2, Y: 1, Z: 3})
		Expect(other.Material.Opacity).To(Equal(layers.SpotlightOpacity))

		sp.Selection().Clear()
		Expect(vis.Redraw()).To(Succeed())
		Expect(other.Material.Opacity).To(Equal(1.0))
	})

	It("skips segments with a missing end and warns", func() {
		var buf bytes.Buffer
		orig := logging.Logger()
		logging.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
		DeferCleanup(func() { logging.SetLogger(orig) })

		vis.SetSegments([]layers.Segment{{Source: 0, Target: 999}, {Source: 0, Target: 1}}, nil)
		Expect(vis.Redraw()).To(Succeed())
		distal, _ := vis.SegmentLines()
		Expect(distal).To(HaveLen(1))
		Expect(buf.String()).To(ContainSubstring("missing cells for segment"))
	})

	It("rebuilds SP meshes on redim", func() {
		Expect(vis.Redim(6)).To(Succeed())
		Expect(vis.SpCache().Dims()).To(Equal(grid.Dims{X: 6, Y: 1, Z: 4}))
		Expect(vis.SpCache().Len()).To(Equal(24))
		Expect(vis.Targets()).To(HaveLen(24 + 9))
		Expect(vis.Redraw()).To(Succeed())
	})
})

type fakeNeuron struct {
	state  string
	origin grid.Vec3
}

func (n *fakeNeuron) State() string       { return n.state }
func (n *fakeNeuron) Origin() grid.Vec3   { return n.origin }
func (n *fakeNeuron) Position() grid.Vec3 { return n.origin }

type fakeLayer struct{ neurons []layers.Neuron }

func (l *fakeLayer) Neurons() []layers.Neuron { return l.neurons }
func (l *fakeLayer) Dimensions() grid.Dims    { return grid.Dims{X: len(l.neurons), Y: 1, Z: 1} }

type fakeColumn struct{ layers []layers.NeuronLayer }

func (c *fakeColumn) Layers() []layers.NeuronLayer { return c.layers }

var _ = Describe("Highbrow", func() {
	var (
		a, b  *fakeNeuron
		layer *fakeLayer
	)

	BeforeEach(func() {
		a = &fakeNeuron{state: "inactive", origin: grid.Vec3{}}
		b = &fakeNeuron{state: "active", origin: grid.Vec3{X: 1, Y: 2}}
		layer = &fakeLayer{neurons: []layers.Neuron{a, b}}
	})

	It("positions neurons additively and colors them by state", func() {
		vis := layers.NewHighbrowLayer(layer, render.Options{}, &render.Headless{})
		Expect(vis.Render()).To(Succeed())
		ms := vis.Meshes()
		Expect(ms).To(HaveLen(2))
		Expect(ms[1].Position.X).To(BeNumerically("~", 140, 1e-9))
		Expect(ms[1].Position.Y).To(BeNumerically("~", 280, 1e-9))
		Expect(ms[1].Material.Color.Hex()).To(Equal("#ffa500"))
		Expect(ms[1].Label).To(Equal("1\n1, 2, 0"))
		Expect(ms[1].Edges).To(BeTrue())

		a.state = "active"
		Expect(vis.Redraw()).To(Succeed())
		Expect(ms[0].Material.Color.Hex()).To(Equal("#ffa500"))

		guides := 0
		for _, g := range vis.Surface().Scene.Root.Children {
			if g.Name == "guides" {
				guides += len(g.Lines)
			}
		}
		Expect(guides).To(Equal(3))
	})

	It("draws columns at raw neuron origins", func() {
		col := &fakeColumn{layers: []layers.NeuronLayer{layer, layer}}
		vis := layers.NewHighbrowColumn(col, render.Options{}, &render.Headless{})
		Expect(vis.Render()).To(Succeed())
		Expect(vis.Meshes()).To(HaveLen(2))
		Expect(vis.Meshes()[0][1].Position).To(Equal(grid.Vec3{X: 1, Y: 2}))
		Expect(vis.Redraw()).To(Succeed())
	})

	It("centers with both half extents added", func() {
		vis := layers.NewHighbrowLayer(layer, render.Options{CubeSize: 10, Spacing: grid.Uniform(1)}, &render.Headless{})
		p := vis.OffsetCenterPosition()
		Expect(p.X).To(BeNumerically("~", 10, 1e-9))
		Expect(p.Y).To(BeNumerically("~", 5, 1e-9))
	})
})

var _ = Describe("Dyson", func() {
	It("colors cubes from the palette", func() {
		l := cells.NewLayers(2, 3, 4)
		Expect(l.Set(1, 2, 3, 2)).To(Succeed())
		vis := layers.NewDyson(l, render.Options{}, &render.Headless{})
		Expect(vis.Render()).To(Succeed())
		Expect(vis.Targets()).To(HaveLen(24))

		Expect(l.Set(0, 0, 0, 1)).To(Succeed())
		Expect(vis.Redraw()).To(Succeed())

		counts := map[string]int{}
		for _, m := range vis.Targets() {
			counts[m.Material.Color.Hex()]++
		}
		Expect(counts).To(Equal(map[string]int{"#ffffff": 22, "#ffff00": 1, "#ff0000": 1}))

		Expect(l.Set(0, 0, 0, 7)).To(Succeed())
		Expect(vis.Redraw()).To(MatchError(cells.ErrUnknownValue))
	})
})
