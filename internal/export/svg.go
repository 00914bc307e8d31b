package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/sdrdraw"
)

func px(v float64) int { return int(math.Round(v)) }

func fillStyle(fill, stroke cells.Color, width float64) string {
	return fmt.Sprintf("fill:%s;fill-opacity:1;stroke:%s;stroke-width:%g", fill.Hex(), stroke.Hex(), width)
}

// SVG writes a drawn SDR picture as an SVG document.
func SVG(w io.Writer, p *sdrdraw.Picture) error {
	if p == nil {
		return ErrNoPicture
	}
	canvas := svg.New(w)
	canvas.Start(px(p.Width), px(p.Height))

	canvas.Gid("bits")
	for _, r := range p.Rects {
		style := fillStyle(r.Fill, r.Stroke, r.StrokeWidth)
		if r.ID != "" {
			canvas.Rect(px(r.X), px(r.Y), px(r.Size), px(r.Size), fmt.Sprintf(`id="%s"`, r.ID), `class="bit"`, style)
			continue
		}
		canvas.Rect(px(r.X), px(r.Y), px(r.Size), px(r.Size), `class="bit"`, style)
	}
	canvas.Gend()

	if len(p.Circles) > 0 {
		canvas.Gid("connections")
		for _, c := range p.Circles {
			canvas.Circle(px(c.CX), px(c.CY), px(c.R), `class="connection"`, "fill:"+c.Fill.Hex())
		}
		canvas.Gend()
	}

	if len(p.Lines) > 0 {
		canvas.Gid("lines")
		for _, l := range p.Lines {
			canvas.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2), `class="line"`,
				fmt.Sprintf("stroke:%s;stroke-width:%g", l.Stroke.Hex(), l.Width))
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}
