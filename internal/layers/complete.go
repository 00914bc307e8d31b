package layers

import (
	"fmt"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

const (
	// DefaultCompleteLayerSpacing separates SP and input, in cubes.
	DefaultCompleteLayerSpacing = 30
	// DefaultInputSpacing packs input bits tighter than SP cells.
	DefaultInputSpacing = 1.1
	// SpotlightOpacity dims cells outside the current selection.
	SpotlightOpacity = 0.15
)

// Redimmer is a store whose row width can change.
type Redimmer interface {
	Redim(cellsPerRow int)
}

// CompleteHtm draws SP columns and their input with selection outlines,
// distal and proximal segments, and a spotlight on selected cells.
type CompleteHtm struct {
	opts         render.Options
	InputSpacing grid.Spacing

	surface       *render.Surface
	sp            *layer
	input         *layer
	distal        []Segment
	proximal      []Segment
	distalGroup   *scene.Group
	proximalGroup *scene.Group
	rendered      bool
}

func NewCompleteHtm(input, spColumns cells.Store, opts render.Options, b render.Backend) *CompleteHtm {
	opts = opts.WithDefaults(DefaultCompleteLayerSpacing)
	s := render.NewSurface(opts, b)
	r := render.NewGridRenderer(s, opts)
	inputSpacing := grid.Uniform(DefaultInputSpacing)
	return &CompleteHtm{
		opts:          opts,
		InputSpacing:  inputSpacing,
		surface:       s,
		sp:            newLayer(r, spColumns, TypeSpColumns, opts.Spacing),
		input:         newLayer(r, input, TypeInput, inputSpacing),
		distalGroup:   scene.NewGroup("distal"),
		proximalGroup: scene.NewGroup("proximal"),
	}
}

// SetSegments replaces the segments drawn on the next redraw.
func (v *CompleteHtm) SetSegments(distal, proximal []Segment) {
	v.distal = distal
	v.proximal = proximal
}

func (v *CompleteHtm) origins() (sp, input grid.Vec3) {
	v.input.r.Options.Spacing = v.InputSpacing
	sp = v.sp.offsetCenter()
	input = v.input.offsetCenter()
	input.Z += v.opts.LayerSpacing * v.opts.CubeSize
	return sp, input
}

func (v *CompleteHtm) Render() error {
	if v.rendered {
		return render.ErrAlreadyRendered
	}
	sp, input := v.origins()
	if err := v.sp.create(sp); err != nil {
		return err
	}
	if err := v.input.create(input); err != nil {
		return err
	}
	v.surface.Scene.Add(v.distalGroup)
	v.surface.Scene.Add(v.proximalGroup)
	v.rendered = true
	v.drawSegments()
	frameCamera(v.surface, v.opts, cacheMeshes(v.sp.cache, v.input.cache))
	return v.surface.Render()
}

// Redraw applies both stores, then recomputes segments and the spotlight
// from the updated mesh positions.
func (v *CompleteHtm) Redraw() error {
	if !v.rendered {
		return render.ErrNotRendered
	}
	sp, input := v.origins()
	if err := v.input.apply(input); err != nil {
		return err
	}
	if err := v.sp.apply(sp); err != nil {
		return err
	}
	v.drawSegments()
	return nil
}

// Redim relays the SP columns cellsPerRow to a row and rebuilds their
// meshes.
func (v *CompleteHtm) Redim(cellsPerRow int) error {
	rd, ok := v.sp.store.(Redimmer)
	if !ok {
		return fmt.Errorf("layers: %T cannot be redimensioned", v.sp.store)
	}
	rd.Redim(cellsPerRow)
	if !v.rendered {
		return nil
	}
	v.sp.origin = v.sp.offsetCenter()
	if err := v.sp.rebuild(); err != nil {
		return err
	}
	v.drawSegments()
	return nil
}

func (v *CompleteHtm) selectionActive() bool {
	return v.input.store.Selection().Cell != nil ||
		v.sp.store.Selection().Cell != nil ||
		v.sp.store.Selection().Column != nil
}

func (v *CompleteHtm) drawSegments() {
	opacity := 1.0
	if v.selectionActive() {
		opacity = SpotlightOpacity
	}
	v.sp.cache.SetOpacity(opacity)
	v.input.cache.SetOpacity(opacity)

	v.distalGroup.ClearLines()
	v.proximalGroup.ClearLines()

	for _, seg := range v.distal {
		from, ferr := v.sp.store.CellCoord(seg.Source)
		to, terr := v.sp.store.CellCoord(seg.Target)
		v.connect(v.distalGroup, "distal", seg, v.sp.cache, from, ferr, v.sp.cache, to, terr)
	}
	for _, seg := range v.proximal {
		from, ferr := firstCell(v.sp.store, seg.Source)
		to, terr := v.input.store.CellCoord(seg.Target)
		v.connect(v.proximalGroup, "proximal", seg, v.sp.cache, from, ferr, v.input.cache, to, terr)
	}
}

func firstCell(s cells.Store, column int) (grid.Coord, error) {
	cs, err := s.ColumnCoords(column)
	if err != nil {
		return grid.Coord{}, err
	}
	if len(cs) == 0 {
		return grid.Coord{}, &grid.OutOfBoundsError{Axis: "cell", Value: 0, Max: 0}
	}
	return cs[0], nil
}

// connect draws one segment, or warns and skips it when either end has no
// mesh.
func (v *CompleteHtm) connect(g *scene.Group, kind string, seg Segment,
	fromCache *render.MeshCache, from grid.Coord, ferr error,
	toCache *render.MeshCache, to grid.Coord, terr error) {
	var src, dst *scene.Mesh
	ok := ferr == nil && terr == nil
	if ok {
		var sok, dok bool
		src, sok = fromCache.At(from)
		dst, dok = toCache.At(to)
		ok = sok && dok
	}
	if !ok {
		logging.Logger().Warn("missing cells for segment",
			"kind", kind, "source", seg.Source, "target", seg.Target,
			"source_err", ferr, "target_err", terr)
		return
	}
	c0, c1 := segmentColors()
	g.AddLine(&scene.Line{From: src.Position, To: dst.Position, Color: c0, EndColor: c1, Name: kind})
	src.Material.Opacity = 1
	dst.Material.Opacity = 1
}

// SetOffset moves both layers on the next redraw.
func (v *CompleteHtm) SetOffset(o grid.Vec3) {
	v.opts.Offset = o
	v.sp.r.Options.Offset = o
	v.input.r.Options.Offset = o
}

func (v *CompleteHtm) Surface() *render.Surface      { return v.surface }
func (v *CompleteHtm) Targets() []*scene.Mesh        { return v.surface.Targets() }
func (v *CompleteHtm) SpCache() *render.MeshCache    { return v.sp.cache }
func (v *CompleteHtm) InputCache() *render.MeshCache { return v.input.cache }
func (v *CompleteHtm) SelectionCount() int           { return v.sp.outlines.count() + v.input.outlines.count() }

// SegmentLines returns the distal and proximal lines currently drawn.
func (v *CompleteHtm) SegmentLines() (distal, proximal []*scene.Line) {
	return v.distalGroup.Lines, v.proximalGroup.Lines
}
