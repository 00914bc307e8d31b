package experiment

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/htm"
	"github.com/san-kum/cellviz/internal/layers"
	"github.com/san-kum/cellviz/internal/render"
)

// columnNeuron presents one SP column as a neuron.
type columnNeuron struct {
	at    grid.Vec3
	state cells.State
}

func (n *columnNeuron) State() string       { return string(n.state) }
func (n *columnNeuron) Origin() grid.Vec3   { return n.at }
func (n *columnNeuron) Position() grid.Vec3 { return n.at }

// columnLayer is the SP column grid as a neuron layer, one neuron per column.
type columnLayer struct {
	dims    grid.Dims
	neurons []*columnNeuron
}

func newColumnLayer(x, y int) *columnLayer {
	l := &columnLayer{dims: grid.Dims{X: x, Y: y, Z: 1}}
	for i := 0; i < x*y; i++ {
		l.neurons = append(l.neurons, &columnNeuron{
			at:    grid.Vec3{X: float64(i % x), Y: float64(i / x)},
			state: cells.Inactive,
		})
	}
	return l
}

func (l *columnLayer) Neurons() []layers.Neuron {
	out := make([]layers.Neuron, len(l.neurons))
	for i, n := range l.neurons {
		out[i] = n
	}
	return out
}

func (l *columnLayer) Dimensions() grid.Dims { return l.dims }

func newHighbrowLayer(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error) {
	nl := newColumnLayer(cfg.Columns.Dims[0], cfg.Columns.Dims[1])
	vis := layers.NewHighbrowLayer(nl, opts, b)
	if err := vis.Render(); err != nil {
		return nil, err
	}
	apply := func(d htm.Data, _ *htm.Selected) error {
		for i, n := range nl.neurons {
			n.state = cells.Inactive
			if i < len(d.ActiveColumns) && d.ActiveColumns[i] == 1 {
				n.state = cells.Active
			}
		}
		return vis.Redraw()
	}
	return &Layout{Vis: vis, apply: apply}, nil
}
