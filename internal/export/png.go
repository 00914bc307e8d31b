package export

import (
	"io"

	"github.com/gogpu/gg"

	"github.com/san-kum/cellviz/internal/sdrdraw"
)

func raster(p *sdrdraw.Picture) (*gg.Context, error) {
	dc := gg.NewContext(px(p.Width), px(p.Height))
	dc.ClearWithColor(gg.RGB(1, 1, 1))

	for _, r := range p.Rects {
		dc.DrawRectangle(r.X, r.Y, r.Size, r.Size)
		dc.SetRGB(r.Fill.R, r.Fill.G, r.Fill.B)
		if err := dc.FillPreserve(); err != nil {
			return nil, err
		}
		dc.SetRGB(r.Stroke.R, r.Stroke.G, r.Stroke.B)
		dc.SetLineWidth(r.StrokeWidth)
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}
	for _, c := range p.Circles {
		dc.DrawCircle(c.CX, c.CY, c.R)
		dc.SetRGB(c.Fill.R, c.Fill.G, c.Fill.B)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}
	for _, l := range p.Lines {
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.SetRGB(l.Stroke.R, l.Stroke.G, l.Stroke.B)
		dc.SetLineWidth(l.Width)
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// PNG rasterizes a picture with the software renderer.
func PNG(w io.Writer, p *sdrdraw.Picture) error {
	if p == nil {
		return ErrNoPicture
	}
	dc, err := raster(p)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}
