package layers

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// DefaultSpToInputLayerSpacing separates the two layers, in cubes.
const DefaultSpToInputLayerSpacing = 10

// SpToInput draws SP columns above their input, both centered, the input
// pushed back by LayerSpacing cubes along -z.
type SpToInput struct {
	opts     render.Options
	surface  *render.Surface
	sp       *layer
	input    *layer
	rendered bool
}

func NewSpToInput(input, spColumns cells.Store, opts render.Options, b render.Backend) *SpToInput {
	opts = opts.WithDefaults(DefaultSpToInputLayerSpacing)
	s := render.NewSurface(opts, b)
	r := render.NewGridRenderer(s, opts)
	return &SpToInput{
		opts:    opts,
		surface: s,
		sp:      newLayer(r, spColumns, TypeSpColumns, opts.Spacing),
		input:   newLayer(r, input, TypeInput, opts.Spacing),
	}
}

func (v *SpToInput) origins() (sp, input grid.Vec3) {
	sp = v.sp.offsetCenter()
	input = v.input.offsetCenter()
	input.Z -= v.opts.LayerSpacing * v.opts.CubeSize
	return sp, input
}

func (v *SpToInput) Render() error {
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
	v.rendered = true
	frameCamera(v.surface, v.opts, cacheMeshes(v.sp.cache, v.input.cache))
	return v.surface.Render()
}

// Redraw recomputes both origins, so offset or spacing changes made since
// the last draw take effect.
func (v *SpToInput) Redraw() error {
	if !v.rendered {
		return render.ErrNotRendered
	}
	sp, input := v.origins()
	if err := v.input.apply(input); err != nil {
		return err
	}
	return v.sp.apply(sp)
}

// SetOffset moves both layers on the next redraw.
func (v *SpToInput) SetOffset(o grid.Vec3) {
	v.opts.Offset = o
	v.sp.r.Options.Offset = o
	v.input.r.Options.Offset = o
}

func (v *SpToInput) Surface() *render.Surface      { return v.surface }
func (v *SpToInput) Targets() []*scene.Mesh        { return v.surface.Targets() }
func (v *SpToInput) SpCache() *render.MeshCache    { return v.sp.cache }
func (v *SpToInput) InputCache() *render.MeshCache { return v.input.cache }
func (v *SpToInput) SelectionCount() int           { return v.sp.outlines.count() + v.input.outlines.count() }
