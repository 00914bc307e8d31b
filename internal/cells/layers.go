package cells

import "github.com/san-kum/cellviz/internal/grid"

// Layers is a stack of sparse m by n integer matrices. Unset entries read
// as 0.
type Layers struct {
	m, n   int
	layers []map[[2]int]int
}

// NewLayers returns l empty m by n layers.
func NewLayers(l, m, n int) *Layers {
	ls := make([]map[[2]int]int, l)
	for i := range ls {
		ls[i] = make(map[[2]int]int)
	}
	return &Layers{m: m, n: n, layers: ls}
}

// Dims reports rows as X, columns as Y and layers as Z.
func (l *Layers) Dims() grid.Dims { return grid.Dims{X: l.m, Y: l.n, Z: len(l.layers)} }

func (l *Layers) check(layer, i, j int) error {
	return l.Dims().Check(grid.Coord{X: i, Y: j, Z: layer})
}

// At returns entry (i, j) of a layer.
func (l *Layers) At(layer, i, j int) (int, error) {
	if err := l.check(layer, i, j); err != nil {
		return 0, err
	}
	return l.layers[layer][[2]int{i, j}], nil
}

// Set stores v at (i, j). Storing 0 removes the entry.
func (l *Layers) Set(layer, i, j, v int) error {
	if err := l.check(layer, i, j); err != nil {
		return err
	}
	if v == 0 {
		delete(l.layers[layer], [2]int{i, j})
		return nil
	}
	l.layers[layer][[2]int{i, j}] = v
	return nil
}

// NonZero counts stored entries across all layers.
func (l *Layers) NonZero() int {
	total := 0
	for _, ly := range l.layers {
		total += len(ly)
	}
	return total
}
