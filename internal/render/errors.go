package render

import "errors"

var (
	// ErrShapeMismatch means a store and its mesh cache disagree on dims.
	ErrShapeMismatch = errors.New("render: store and mesh cache shapes differ")

	// ErrNotRendered is returned by Redraw before Render.
	ErrNotRendered = errors.New("render: visualization has not been rendered")

	// ErrAlreadyRendered is returned by a second Render; meshes are built
	// once per store.
	ErrAlreadyRendered = errors.New("render: visualization already rendered")
)
