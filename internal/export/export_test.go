package export

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cellviz/internal/sdrdraw"
)

func picture(t *testing.T, lines bool) *sdrdraw.Picture {
	t.Helper()
	vs := make([]float64, 100)
	vs[0], vs[5] = 1, 0.4
	d := sdrdraw.NewDrawing(vs)
	p, err := d.Draw(sdrdraw.DefaultOptions().WithThreshold(0.5))
	require.NoError(t, err)
	if lines {
		require.NoError(t, d.DrawLinesTo(200, 420))
	}
	return p
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, picture(t, true)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 100, strings.Count(out, "<rect"))
	assert.Equal(t, 1, strings.Count(out, "<circle"))
	assert.Equal(t, 2, strings.Count(out, "<line"))
	assert.Contains(t, out, "fill:#87ceeb")
	assert.Contains(t, out, `width="400"`)
}

func TestSVGReceptiveFieldIDs(t *testing.T) {
	var buf bytes.Buffer
	p := sdrdraw.NewReceptiveField([]int{0, 1}, "field").Draw(20, 10)
	require.NoError(t, SVG(&buf, p))
	assert.Contains(t, buf.String(), `id="field-1"`)
	assert.NotContains(t, buf.String(), "<g id=\"lines\"")
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, picture(t, false)))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	// inside bit 5, clear of its stroke
	r, g, b, _ := img.At(5*38+19, 19).RGBA()
	assert.InDelta(t, 0x87, r>>8, 2)
	assert.InDelta(t, 0xce, g>>8, 2)
	assert.InDelta(t, 0xeb, b>>8, 2)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, picture(t, false), "permanences"))
	out := buf.String()
	assert.Contains(t, out, "permanences")
	assert.Contains(t, out, "echarts")
}

func TestNilPicture(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, SVG(&buf, nil), ErrNoPicture)
	assert.ErrorIs(t, PNG(&buf, nil), ErrNoPicture)
	assert.ErrorIs(t, HTML(&buf, nil, ""), ErrNoPicture)
}

func TestHTMLNoRows(t *testing.T) {
	var buf bytes.Buffer
	p := &sdrdraw.Picture{Width: 10, Height: 1000, Rects: []sdrdraw.Rect{{Index: 0, Value: 1}}}
	assert.ErrorIs(t, HTML(&buf, p, "narrow"), ErrNoRows)
	assert.Zero(t, buf.Len())
}
