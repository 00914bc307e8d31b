package sdrdraw

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/sdr"
)

var (
	ErrEmpty       = errors.New("sdrdraw: nothing to draw")
	ErrBoxTooSmall = errors.New("sdrdraw: box too small for cell count")
	ErrNotDrawn    = errors.New("sdrdraw: drawing has not been drawn")
)

var (
	StrokeColor = cells.MustColor("darkgrey")
	StrokeWidth = 0.5
)

// Options controls a Drawing. Threshold is nil when connections are not
// drawn at all.
type Options struct {
	Width           float64
	Height          float64
	Threshold       *float64
	GradientFill    bool
	OnColor         cells.Color
	OffColor        cells.Color
	ConnectionColor cells.Color
	LineColor       cells.Color
}

func DefaultOptions() Options {
	return Options{
		Width:           400,
		Height:          400,
		OnColor:         cells.MustColor("skyblue"),
		OffColor:        cells.MustColor("white"),
		ConnectionColor: cells.MustColor("royalblue"),
		LineColor:       cells.MustColor("teal"),
	}
}

// withDefaults fills zero sizes and colors from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	for _, f := range []struct{ cur, def *cells.Color }{
		{&o.OnColor, &def.OnColor},
		{&o.OffColor, &def.OffColor},
		{&o.ConnectionColor, &def.ConnectionColor},
		{&o.LineColor, &def.LineColor},
	} {
		if *f.cur == (cells.Color{}) {
			*f.cur = *f.def
		}
	}
	return o
}

// WithThreshold returns o with connection circles enabled above t.
func (o Options) WithThreshold(t float64) Options {
	o.Threshold = &t
	return o
}

// Handler receives the index and value of a clicked shape.
type Handler func(index int, value float64)

// Drawing holds one vector of values. NaN stands for a missing value and
// is drawn like an off bit.
type Drawing struct {
	Values []float64

	opts         Options
	pic          *Picture
	onCell       Handler
	onConnection Handler
}

func NewDrawing(values []float64) *Drawing {
	return &Drawing{Values: values}
}

// FromSDR draws active bits as 1 and inactive bits as 0.
func FromSDR(s sdr.SDR) *Drawing {
	vs := make([]float64, len(s))
	for i, b := range s {
		vs[i] = float64(b)
	}
	return NewDrawing(vs)
}

func isOn(v float64) bool { return !math.IsNaN(v) && v > 0 }

// snap fits len(Values) square cells into the options box.
func (d *Drawing) snap(o Options) (cellSize float64, rowLength int, err error) {
	n := len(d.Values)
	if n == 0 {
		return 0, 0, ErrEmpty
	}
	cellSize = math.Floor(math.Sqrt(o.Width*o.Height/float64(n)) * 0.95)
	if cellSize >= 1 {
		rowLength = int(math.Floor(o.Width / cellSize))
	}
	if rowLength < 1 {
		return 0, 0, fmt.Errorf("%w: %d cells in %gx%g", ErrBoxTooSmall, n, o.Width, o.Height)
	}
	return cellSize, rowLength, nil
}

func (d *Drawing) fill(v float64) cells.Color {
	if !isOn(v) {
		return d.opts.OffColor
	}
	if d.opts.GradientFill {
		return GreenToRed(v * 100)
	}
	return d.opts.OnColor
}

// Draw lays out every value and replaces the previous picture. Lines
// from an earlier DrawLinesTo are dropped. Zero sizes and colors in o
// take their DefaultOptions values.
func (d *Drawing) Draw(o Options) (*Picture, error) {
	o = o.withDefaults()
	size, row, err := d.snap(o)
	if err != nil {
		return nil, err
	}
	d.opts = o
	p := &Picture{Width: o.Width, Height: o.Height, CellSize: size, RowLength: row}
	p.Rects = make([]Rect, len(d.Values))
	for i, v := range d.Values {
		x, y := p.Cell(i)
		p.Rects[i] = Rect{
			Index: i, X: x, Y: y, Size: size, Value: v,
			Fill: d.fill(v), Stroke: StrokeColor, StrokeWidth: StrokeWidth,
		}
	}
	if o.Threshold != nil {
		for i, v := range d.Values {
			if math.IsNaN(v) || v <= *o.Threshold {
				continue
			}
			cx, cy := p.Center(i)
			p.Circles = append(p.Circles, Circle{Index: i, CX: cx, CY: cy, R: size / 4, Value: v, Fill: o.ConnectionColor})
		}
	}
	d.pic = p
	return p, nil
}

// Picture returns the last drawn picture, or nil.
func (d *Drawing) Picture() *Picture { return d.pic }

// Options returns the options of the last Draw.
func (d *Drawing) Options() Options { return d.opts }

// DrawLinesTo connects the center of every on bit to (x, y).
func (d *Drawing) DrawLinesTo(x, y float64) error {
	if d.pic == nil {
		return ErrNotDrawn
	}
	d.pic.Lines = d.pic.Lines[:0]
	for i, v := range d.Values {
		if !isOn(v) {
			continue
		}
		cx, cy := d.pic.Center(i)
		d.pic.Lines = append(d.pic.Lines, Line{Index: i, X1: cx, Y1: cy, X2: x, Y2: y, Stroke: d.opts.LineColor, Width: 1})
	}
	return nil
}

func (d *Drawing) OnCell(fn Handler) *Drawing       { d.onCell = fn; return d }
func (d *Drawing) OnConnection(fn Handler) *Drawing { d.onConnection = fn; return d }

// Click dispatches a pointer event at (x, y). Circles sit on top of
// rects, so a hit on a connection does not also fire the cell handler.
// It reports whether any shape was hit.
func (d *Drawing) Click(x, y float64) bool {
	if d.pic == nil {
		return false
	}
	for i := len(d.pic.Circles) - 1; i >= 0; i-- {
		c := d.pic.Circles[i]
		if c.Contains(x, y) {
			if d.onConnection != nil {
				d.onConnection(c.Index, c.Value)
			}
			return true
		}
	}
	for _, r := range d.pic.Rects {
		if r.Contains(x, y) {
			if d.onCell != nil {
				d.onCell(r.Index, r.Value)
			}
			return true
		}
	}
	return false
}

// GreenToRed maps 0 to green, 50 to yellow and 100 to red.
func GreenToRed(percent float64) cells.Color {
	p := 100 - percent
	r, g := 255.0, 255.0
	if p >= 50 {
		r = math.Floor(255 - (p*2-100)*255/100)
	}
	if p <= 50 {
		g = math.Floor(p * 2 * 255 / 100)
	}
	return cells.Color{R: clamp255(r) / 255, G: clamp255(g) / 255}
}

func clamp255(v float64) float64 { return math.Max(0, math.Min(255, v)) }
