// Package grid maps logical cell addresses to flat indices and to world
// space.
//
// A grid has fixed integer dimensions X, Y and Z. Cells are addressed by a
// [Coord] or by a flat index; the canonical flat ordering used everywhere in
// cellviz is
//
//	index = y*(X*Z) + z*X + x
//
// so y is the slowest varying axis and x the fastest. [FlatIndexToXyz] and
// [XyzToFlatIndex] are exact inverses over the valid range.
//
// World positions are derived from an origin, the cube size and a per-axis
// [Spacing]. X and Z grow with the coordinate, Y shrinks with it so that row
// 0 is drawn at the top of the screen.
package grid
