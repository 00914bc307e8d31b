package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/cellviz/internal/sdrdraw"
)

// HTML renders the picture as an interactive scatter chart, one symbol per
// bit colored by value. Rows grow downwards as in the picture. Missing
// values are left out.
func HTML(w io.Writer, p *sdrdraw.Picture, title string) error {
	if p == nil {
		return ErrNoPicture
	}
	if p.RowLength < 1 {
		return fmt.Errorf("%w: %d", ErrNoRows, p.RowLength)
	}
	data := make([]opts.ScatterData, 0, len(p.Rects))
	maxV := 0.0
	for _, r := range p.Rects {
		if math.IsNaN(r.Value) {
			continue
		}
		col, row := r.Index%p.RowLength, r.Index/p.RowLength
		data = append(data, opts.ScatterData{
			Name:  fmt.Sprintf("bit %d", r.Index),
			Value: []interface{}{col, -row, r.Value},
		})
		maxV = math.Max(maxV, r.Value)
	}
	if maxV == 0 {
		maxV = 1
	}
	rows := (len(p.Rects) + p.RowLength - 1) / p.RowLength

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: fmt.Sprintf("%dpx", px(p.Width)), Height: fmt.Sprintf("%dpx", px(p.Height))}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("bits=%d row=%d", len(p.Rects), p.RowLength)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1, Max: p.RowLength}),
		charts.WithYAxisOpts(opts.YAxis{Min: -rows, Max: 1}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxV),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#ffffff", "#87ceeb", "#4169e1"}},
		}),
	)
	scatter.AddSeries("bits", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: px(p.CellSize * 0.8)}))
	return scatter.Render(w)
}
