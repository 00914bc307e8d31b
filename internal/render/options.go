package render

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

const (
	DefaultCubeSize = 100.0
	DefaultWidth    = 1280
	DefaultHeight   = 800
)

// Options configure a visualization's surface and grid layout.
type Options struct {
	// Element names the attachment point: the window title for the raylib
	// backend.
	Element      string
	Width        int
	Height       int
	Geometry     scene.Geometry
	CubeSize     float64
	Spacing      grid.Spacing
	Offset       grid.Vec3
	LayerSpacing float64
	// Camera overrides the initial camera position.
	Camera *grid.Vec3
	// Colors override state colors by state name.
	Colors cells.ColorTable
}

// DefaultOptions returns cubes of 100 spaced 1.4 apart.
func DefaultOptions() Options {
	return Options{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Geometry: scene.Box,
		CubeSize: DefaultCubeSize,
		Spacing:  grid.Uniform(grid.DefaultSpacing),
	}
}

// WithDefaults fills unset fields from DefaultOptions. layerSpacing is the
// layout's own default.
func (o Options) WithDefaults(layerSpacing float64) Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.CubeSize <= 0 {
		o.CubeSize = d.CubeSize
	}
	if o.Spacing == (grid.Spacing{}) {
		o.Spacing = d.Spacing
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = layerSpacing
	}
	return o
}
