package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

func newTestRenderer(t *testing.T) (*GridRenderer, *Headless) {
	t.Helper()
	b := &Headless{}
	s := NewSurface(Options{Width: 400, Height: 200}, b)
	return NewGridRenderer(s, Options{}), b
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.WithDefaults(30)
	assert.Equal(t, 100.0, o.CubeSize)
	assert.Equal(t, grid.Uniform(1.4), o.Spacing)
	assert.Equal(t, 30.0, o.LayerSpacing)

	o = Options{CubeSize: 10, LayerSpacing: 5}.WithDefaults(30)
	assert.Equal(t, 10.0, o.CubeSize)
	assert.Equal(t, 5.0, o.LayerSpacing)
}

func TestCreateMeshCells(t *testing.T) {
	r, _ := newTestRenderer(t)
	store := cells.NewGrid(3, 2, 2)
	group := scene.NewGroup("cells")

	cache, err := r.CreateMeshCells(store, group, grid.Vec3{}, "cells")
	require.NoError(t, err)
	assert.Equal(t, 12, cache.Len())
	assert.Len(t, group.Meshes, 12)
	assert.Len(t, r.Surface.Targets(), 12)

	m, ok := cache.At(grid.Coord{X: 1, Y: 1, Z: 1})
	require.True(t, ok)
	assert.InDelta(t, 140, m.Position.X, 1e-9)
	assert.InDelta(t, -140, m.Position.Y, 1e-9)
	assert.InDelta(t, 140, m.Position.Z, 1e-9)
	assert.Equal(t, "cells", m.Data.Type)
	assert.Equal(t, grid.Coord{X: 1, Y: 1, Z: 1}, m.Data.Coord)
}

func TestCreateSkipsAbsentCells(t *testing.T) {
	r, _ := newTestRenderer(t)
	store := cells.NewMiniColumns(5, 2, 2) // 2x3 slots, last row holds one column
	cache, err := r.CreateMeshCells(store, scene.NewGroup("sp"), grid.Vec3{}, "spColumns")
	require.NoError(t, err)
	assert.Equal(t, 10, cache.Len())
	_, ok := cache.At(grid.Coord{X: 1, Y: 2, Z: 0})
	assert.False(t, ok)
}

func TestApplyKeepsMeshIdentity(t *testing.T) {
	r, _ := newTestRenderer(t)
	store := cells.NewGrid(2, 2, 2)
	group := scene.NewGroup("cells")
	cache, err := r.CreateMeshCells(store, group, grid.Vec3{}, "cells")
	require.NoError(t, err)

	before := map[grid.Coord]*scene.Mesh{}
	cache.Each(func(at grid.Coord, m *scene.Mesh) { before[at] = m })

	red := cells.MustColor("red")
	for i := 0; i < 5; i++ {
		require.NoError(t, store.UpdateAll(cells.SetColor(red), cells.UpdateOptions{}))
		origin := grid.Vec3{X: float64(i) * 10}
		require.NoError(t, r.ApplyMeshCells(store, cache, origin))
	}

	assert.Equal(t, len(before), cache.Len())
	assert.Len(t, group.Meshes, len(before))
	cache.Each(func(at grid.Coord, m *scene.Mesh) {
		assert.Same(t, before[at], m)
		assert.Equal(t, red, m.Material.Color)
	})
	m, _ := cache.At(grid.Coord{})
	assert.InDelta(t, 40, m.Position.X, 1e-9)
}

func TestApplyHooks(t *testing.T) {
	r, _ := newTestRenderer(t)
	store := cells.NewGrid(2, 1, 1)
	cache, err := r.CreateMeshCells(store, scene.NewGroup("g"), grid.Vec3{}, "g")
	require.NoError(t, err)

	var order []string
	r.Hooks = Hooks{
		BeforeApply: func() { order = append(order, "before") },
		MutateCube: func(m *scene.Mesh, v cells.Value, at grid.Coord) {
			order = append(order, at.String())
		},
	}
	require.NoError(t, r.ApplyMeshCells(store, cache, grid.Vec3{}))
	assert.Equal(t, []string{"before", "(0,0,0)", "(1,0,0)"}, order)
}

func TestApplyShapeMismatch(t *testing.T) {
	r, _ := newTestRenderer(t)
	cache, err := r.CreateMeshCells(cells.NewGrid(2, 2, 2), scene.NewGroup("g"), grid.Vec3{}, "g")
	require.NoError(t, err)

	err = r.ApplyMeshCells(cells.NewGrid(3, 2, 2), cache, grid.Vec3{})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestResolveColorFromState(t *testing.T) {
	r, _ := newTestRenderer(t)
	c, err := r.ResolveColor(cells.Value{State: cells.Active})
	require.NoError(t, err)
	assert.Equal(t, "#ffa500", c.Hex())

	r.Options.Colors = cells.ColorTable{"active": cells.MustColor("red")}
	c, err = r.ResolveColor(cells.Value{State: cells.Active})
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Hex())

	_, err = r.ResolveColor(cells.Value{State: "bogus"})
	assert.ErrorIs(t, err, cells.ErrUnknownValue)
}

func TestResolveColorExplicitBlack(t *testing.T) {
	r, _ := newTestRenderer(t)
	g := cells.NewGrid(1, 1, 1)
	p, err := cells.SetState(cells.Active)
	require.NoError(t, err)
	require.NoError(t, g.Update(grid.Coord{}, p, cells.UpdateOptions{}))
	require.NoError(t, g.Update(grid.Coord{}, cells.SetColor(cells.Color{}), cells.UpdateOptions{}))

	v, err := g.Get(grid.Coord{})
	require.NoError(t, err)
	c, err := r.ResolveColor(v)
	require.NoError(t, err)
	assert.Equal(t, "#000000", c.Hex())
}

func TestDropMeshCells(t *testing.T) {
	r, _ := newTestRenderer(t)
	group := scene.NewGroup("g")
	cache, err := r.CreateMeshCells(cells.NewGrid(2, 2, 1), group, grid.Vec3{}, "g")
	require.NoError(t, err)
	other, err := r.CreateMeshCells(cells.NewGrid(1, 1, 1), scene.NewGroup("o"), grid.Vec3{}, "o")
	require.NoError(t, err)

	r.DropMeshCells(cache)
	assert.Empty(t, group.Meshes)
	require.Len(t, r.Surface.Targets(), 1)
	m, _ := other.At(grid.Coord{})
	assert.Same(t, m, r.Surface.Targets()[0])
}

func TestLoopStep(t *testing.T) {
	r, b := newTestRenderer(t)
	s := r.Surface
	s.Controls.State.Forward = 1

	loop := NewLoop(s)
	require.NoError(t, loop.Step(0.1))
	assert.Equal(t, 1, b.Frames)
	assert.InDelta(t, -100, s.Camera.Position.Z, 1e-9)
	assert.Equal(t, s.Camera.Position, s.Scene.Light.Position)
}

func TestResizeRendersImmediately(t *testing.T) {
	r, b := newTestRenderer(t)
	require.NoError(t, r.Surface.Resize(800, 400))
	assert.Equal(t, 1, b.Frames)
	assert.Equal(t, 800, b.Width)
	assert.InDelta(t, 2.0, r.Surface.Camera.Aspect, 1e-9)
}

type stepClock struct{}

func (stepClock) Delta() float64 { return 1.0 / 60 }

func TestLoopRunStopsOnContext(t *testing.T) {
	r, b := newTestRenderer(t)
	b.FPS = 200
	loop := NewLoop(r.Surface)
	loop.Clock = stepClock{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := loop.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Positive(t, b.Frames)
}

func TestLoopRunStopsWhenClosed(t *testing.T) {
	r, b := newTestRenderer(t)
	b.FPS = 200
	loop := NewLoop(r.Surface)
	calls := 0
	loop.BeforeFrame = func() error {
		calls++
		if calls == 3 {
			b.Quit = true
		}
		return nil
	}
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 3, b.Frames)
}

func TestPickScreen(t *testing.T) {
	r, _ := newTestRenderer(t)
	_, err := r.CreateMeshCells(cells.NewGrid(1, 1, 1), scene.NewGroup("g"), grid.Vec3{}, "input")
	require.NoError(t, err)

	r.Surface.Camera.Position = grid.Vec3{Z: 2000}
	r.Surface.Camera.LookAt(grid.Vec3{})
	data, m, ok := r.Surface.PickScreen(200, 100)
	require.True(t, ok)
	assert.NotNil(t, m)
	assert.Equal(t, "input", data.Type)
}
