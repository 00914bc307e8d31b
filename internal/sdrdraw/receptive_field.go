package sdrdraw

import (
	"fmt"

	"github.com/san-kum/cellviz/internal/cells"
)

// ReceptiveField draws a bit vector on a fixed 10px grid, 100 bits per row.
type ReceptiveField struct {
	Bits    []int
	Element string
}

const (
	FieldCellSize  = 10
	FieldRowLength = 100
)

var (
	FieldOnColor  = cells.MustColor("steelblue")
	FieldOffColor = cells.MustColor("white")
)

func NewReceptiveField(bits []int, element string) *ReceptiveField {
	return &ReceptiveField{Bits: bits, Element: element}
}

// Draw lays the bits out inside a width x height picture. Bits past the
// box are still emitted; callers size the box.
func (f *ReceptiveField) Draw(width, height float64) *Picture {
	p := &Picture{Width: width, Height: height, CellSize: FieldCellSize, RowLength: FieldRowLength}
	p.Rects = make([]Rect, len(f.Bits))
	for i, b := range f.Bits {
		x, y := p.Cell(i)
		fill := FieldOffColor
		if b == 1 {
			fill = FieldOnColor
		}
		p.Rects[i] = Rect{
			ID: fmt.Sprintf("%s-%d", f.Element, i), Index: i,
			X: x, Y: y, Size: FieldCellSize, Value: float64(b),
			Fill: fill, Stroke: StrokeColor, StrokeWidth: StrokeWidth,
		}
	}
	return p
}
