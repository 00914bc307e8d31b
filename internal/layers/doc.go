// Package layers composes cell stores into complete visualizations.
//
// Every layout owns one render.Surface and builds its meshes through a
// render.GridRenderer. Layouts that show selections outline the selected
// cells on each redraw; CompleteHtm also draws distal and proximal
// connection segments between cells.
package layers
