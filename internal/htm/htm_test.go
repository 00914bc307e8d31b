package htm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/sdr"
	"github.com/san-kum/cellviz/internal/sdrdraw"
)

func newViz(t *testing.T) *Viz {
	t.Helper()
	v, err := NewViz([2]int{4, 4}, [2]int{3, 3}, 2, render.Options{}, &render.Headless{})
	require.NoError(t, err)
	return v
}

func bits(n int, on ...int) sdr.SDR {
	s, _ := sdr.FromActive(n, on)
	return s
}

func baseData() Data {
	pools := make([][]int, 9)
	masks := make([][]int, 9)
	pools[4] = []int{0, 1}
	masks[4] = []int{1, 3}
	return Data{
		InputEncoding:   bits(16, 0, 5),
		ActiveColumns:   bits(9, 1, 4),
		PotentialPools:  pools,
		InhibitionMasks: masks,
	}
}

func color(t *testing.T, s cells.Store, c grid.Coord) cells.Color {
	t.Helper()
	v, err := s.Get(c)
	require.NoError(t, err)
	return v.Color
}

func column(i int) grid.Coord { return grid.Coord{X: i % 3, Y: i / 3} }

func TestNewVizClears(t *testing.T) {
	v := newViz(t)
	cs := DefaultColors()
	assert.Equal(t, grid.Dims{X: 4, Y: 4, Z: 1}, v.Input.Dims())
	assert.Equal(t, grid.Dims{X: 3, Y: 3, Z: 2}, v.SP.Dims())
	assert.Equal(t, cs.EmptyInput, color(t, v.Input, grid.Coord{}))
	assert.Equal(t, cs.Inactive, color(t, v.SP, grid.Coord{Z: 1}))

	sp, ok := v.View().SpCache().At(grid.Coord{})
	require.True(t, ok)
	in, ok := v.View().InputCache().At(grid.Coord{})
	require.True(t, ok)
	assert.InDelta(t, LayerSpacing*render.DefaultCubeSize, sp.Position.Z-in.Position.Z, 1e-9)
}

func TestUpdateNoSelection(t *testing.T) {
	v := newViz(t)
	cs := v.Colors
	require.NoError(t, v.Update(baseData(), nil))

	assert.Equal(t, cs.Input, color(t, v.Input, grid.Coord{X: 0, Y: 0}))
	assert.Equal(t, cs.Input, color(t, v.Input, grid.Coord{X: 1, Y: 1}))
	assert.Equal(t, cs.EmptyInput, color(t, v.Input, grid.Coord{X: 1, Y: 0}))
	assert.Equal(t, cs.Active, color(t, v.SP, grid.Coord{X: 1, Y: 1, Z: 0}))
	assert.Equal(t, cs.Active, color(t, v.SP, grid.Coord{X: 1, Y: 1, Z: 1}))
	assert.Equal(t, cs.Inactive, color(t, v.SP, column(0)))

	m, ok := v.View().SpCache().At(grid.Coord{X: 1, Y: 1, Z: 1})
	require.True(t, ok)
	assert.Equal(t, cs.Active, m.Material.Color)
}

func TestUpdateSelectedField(t *testing.T) {
	v := newViz(t)
	cs := v.Colors
	require.NoError(t, v.Update(baseData(), &Selected{ColumnIndex: 4}))

	assert.Equal(t, cells.Average(cs.Input, cs.Field), color(t, v.Input, grid.Coord{X: 0}))
	assert.Equal(t, cs.Field, color(t, v.Input, grid.Coord{X: 1}))
	assert.Equal(t, cs.Input, color(t, v.Input, grid.Coord{X: 1, Y: 1}))
	assert.Equal(t, cs.Selected, color(t, v.SP, column(4)))
	assert.Equal(t, cs.Active, color(t, v.SP, column(1)), "neighbors hidden by default")
}

func TestUpdateNeighborhoods(t *testing.T) {
	v := newViz(t)
	v.ShowNeighborhoods = true
	cs := v.Colors
	require.NoError(t, v.Update(baseData(), &Selected{ColumnIndex: 4}))

	assert.Equal(t, cells.Average(cs.Active, cs.Neighbors), color(t, v.SP, column(1)))
	assert.Equal(t, cs.Neighbors, color(t, v.SP, column(3)))
	assert.Equal(t, cs.Inactive, color(t, v.SP, column(0)))
}

func TestUpdateDutyCycles(t *testing.T) {
	v := newViz(t)
	d := baseData()
	d.ActiveColumns = bits(9, 2)
	d.ActiveDutyCycles = []float64{0, 0.5, 1, 0, 0, 0, 0, 0, 0}
	require.NoError(t, v.Update(d, nil))

	assert.Equal(t, sdrdraw.GreenToRed(0), color(t, v.SP, column(0)))
	assert.Equal(t, sdrdraw.GreenToRed(50), color(t, v.SP, column(1)))
	assert.Equal(t, cells.Lerp(sdrdraw.GreenToRed(100), white, 0.75), color(t, v.SP, column(2)))

	require.NoError(t, v.Update(d, &Selected{ColumnIndex: 4}))
	assert.Equal(t, v.Colors.Selected, color(t, v.SP, column(4)))
	assert.Equal(t, v.Colors.Inactive, color(t, v.SP, column(1)), "only neighbors get duty colors")
}

func TestUpdateOverlapDutyFlat(t *testing.T) {
	v := newViz(t)
	d := baseData()
	d.OverlapDutyCycles = make([]float64, 9)
	require.NoError(t, v.Update(d, nil))
	assert.Equal(t, sdrdraw.GreenToRed(0), color(t, v.SP, column(8)))
}

func TestUpdateShapeErrors(t *testing.T) {
	v := newViz(t)
	d := baseData()
	d.InputEncoding = bits(10)
	assert.ErrorIs(t, v.Update(d, nil), ErrShape)

	d = baseData()
	assert.ErrorIs(t, v.Update(d, &Selected{ColumnIndex: 9}), grid.ErrOutOfBounds)

	d.PotentialPools = nil
	assert.ErrorIs(t, v.Update(d, &Selected{ColumnIndex: 4}), ErrShape)
}

func TestPoolerStep(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p, err := NewPooler(PoolerConfig{InputDims: [2]int{10, 10}, ColumnDims: [2]int{8, 8}, ActiveColumns: 4}, rng)
	require.NoError(t, err)
	assert.Equal(t, 100, p.NumInputs())
	assert.Equal(t, 64, p.NumColumns())

	src, err := NewSource(rng, 100)
	require.NoError(t, err)
	in, err := src.Next()
	require.NoError(t, err)

	d, err := p.Step(in)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Iteration())
	assert.LessOrEqual(t, d.ActiveColumns.Population(), 4)
	assert.Len(t, d.PotentialPools[0], 50)

	overlaps := p.Overlaps(in)
	lowestWinner := 1 << 30
	for _, c := range d.ActiveColumns.ActiveBits() {
		lowestWinner = min(lowestWinner, overlaps[c])
		assert.Equal(t, 1.0, d.ActiveDutyCycles[c], "first step duty is the raw value")
	}
	for c, o := range overlaps {
		if d.ActiveColumns[c] == 0 {
			assert.LessOrEqual(t, o, lowestWinner)
		}
	}
}

func TestPoolerNeighbors(t *testing.T) {
	p, err := NewPooler(PoolerConfig{InputDims: [2]int{2, 2}, ColumnDims: [2]int{3, 3}, InhibitionRadius: 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, p.masks[0])
	assert.Len(t, p.masks[4], 8)
}

func TestPoolerErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := NewPooler(PoolerConfig{}, rng)
	assert.Error(t, err)
	_, err = NewPooler(PoolerConfig{InputDims: [2]int{2, 2}, ColumnDims: [2]int{2, 2}, ActiveColumns: 5}, rng)
	assert.Error(t, err)

	p, err := NewPooler(PoolerConfig{InputDims: [2]int{2, 2}, ColumnDims: [2]int{2, 2}}, rng)
	require.NoError(t, err)
	_, err = p.Step(bits(3))
	assert.ErrorIs(t, err, ErrShape)
	_, err = p.Step(sdr.SDR{0, 2, 0, 0})
	assert.ErrorIs(t, err, sdr.ErrNotBinary)
}

func TestPoolerFeedsViz(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p, err := NewPooler(PoolerConfig{InputDims: [2]int{4, 4}, ColumnDims: [2]int{3, 3}}, rng)
	require.NoError(t, err)
	src, err := NewSource(rng, 16)
	require.NoError(t, err)
	src.Noise = 0

	v := newViz(t)
	v.ShowNeighborhoods = true
	for i := 0; i < 3; i++ {
		in, err := src.Next()
		require.NoError(t, err)
		d, err := p.Step(in)
		require.NoError(t, err)
		require.NoError(t, v.Update(d, &Selected{ColumnIndex: 0}))
	}
	assert.Equal(t, v.Colors.Selected, color(t, v.SP, column(0)))
}

func TestSourceDensity(t *testing.T) {
	src, err := NewSource(rand.New(rand.NewSource(5)), 200)
	require.NoError(t, err)
	assert.Equal(t, 4, src.Base().Population())
	require.NoError(t, src.SetDensity(0.1))
	assert.Equal(t, 20, src.Base().Population())

	src.Noise = 0.5
	in, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 20, in.Population())
	assert.Equal(t, 10, sdr.Overlap(in, src.Base()))

	require.NoError(t, src.Reseed())
	assert.Equal(t, 20, src.Base().Population())
}
