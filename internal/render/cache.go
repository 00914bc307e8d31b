package render

import (
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

// MeshCache maps each address of a store to its persistent mesh. Absent
// cells have no entry.
type MeshCache struct {
	Type   string
	Group  *scene.Group
	dims   grid.Dims
	meshes []*scene.Mesh
}

func newMeshCache(d grid.Dims, group *scene.Group, typeLabel string) *MeshCache {
	return &MeshCache{Type: typeLabel, Group: group, dims: d, meshes: make([]*scene.Mesh, d.Len())}
}

func (c *MeshCache) Dims() grid.Dims { return c.dims }

// At returns the mesh for an address.
func (c *MeshCache) At(at grid.Coord) (*scene.Mesh, bool) {
	i, err := grid.XyzToFlatIndex(at, c.dims)
	if err != nil || c.meshes[i] == nil {
		return nil, false
	}
	return c.meshes[i], true
}

func (c *MeshCache) set(at grid.Coord, m *scene.Mesh) {
	i, _ := grid.XyzToFlatIndex(at, c.dims)
	c.meshes[i] = m
}

// Len counts cached meshes.
func (c *MeshCache) Len() int {
	n := 0
	for _, m := range c.meshes {
		if m != nil {
			n++
		}
	}
	return n
}

// Each visits every cached mesh in grid order.
func (c *MeshCache) Each(fn func(at grid.Coord, m *scene.Mesh)) {
	c.dims.Each(func(at grid.Coord) {
		if m, ok := c.At(at); ok {
			fn(at, m)
		}
	})
}

// SetOpacity sets the material opacity of every cached mesh.
func (c *MeshCache) SetOpacity(o float64) {
	for _, m := range c.meshes {
		if m != nil {
			m.Material.Opacity = o
		}
	}
}
