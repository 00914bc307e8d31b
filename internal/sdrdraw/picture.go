package sdrdraw

import "github.com/san-kum/cellviz/internal/cells"

// Rect is one bit of the drawing.
type Rect struct {
	ID          string
	Index       int
	X, Y        float64
	Size        float64
	Value       float64
	Fill        cells.Color
	Stroke      cells.Color
	StrokeWidth float64
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Size && y >= r.Y && y <= r.Y+r.Size
}

// Circle marks a connected bit.
type Circle struct {
	Index  int
	CX, CY float64
	R      float64
	Value  float64
	Fill   cells.Color
}

func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.CX, y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

type Line struct {
	Index          int
	X1, Y1, X2, Y2 float64
	Stroke         cells.Color
	Width          float64
}

// Picture is a drawn SDR. Shapes are listed in paint order: rects, then
// circles, then lines.
type Picture struct {
	Width, Height float64
	CellSize      float64
	RowLength     int
	Rects         []Rect
	Circles       []Circle
	Lines         []Line
}

// Cell returns the box origin of bit i.
func (p *Picture) Cell(i int) (x, y float64) {
	return float64(i%p.RowLength) * p.CellSize, float64(i/p.RowLength) * p.CellSize
}

// Center returns the center of bit i.
func (p *Picture) Center(i int) (x, y float64) {
	x, y = p.Cell(i)
	return x + p.CellSize/2, y + p.CellSize/2
}
