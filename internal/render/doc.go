// Package render owns the render surface of a visualization and the mesh
// lifecycle shared by every layout.
//
// A [GridRenderer] creates one mesh per cell exactly once
// ([GridRenderer.CreateMeshCells]) and afterwards only mutates those meshes
// ([GridRenderer.ApplyMeshCells]). A [Loop] drives frames: each
// [Loop.Step] advances the fly controls, moves the light to the camera and
// draws once through the [Backend].
package render
