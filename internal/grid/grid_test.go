package grid

import (
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestIndexRoundTrip(t *testing.T) {
	dims := []Dims{{1, 1, 1}, {4, 3, 2}, {7, 1, 5}, {2, 9, 3}, {10, 10, 1}}
	for _, d := range dims {
		for i := 0; i < d.Len(); i++ {
			c, err := FlatIndexToXyz(i, d)
			if err != nil {
				t.Fatalf("dims %v: FlatIndexToXyz(%d): %v", d, i, err)
			}
			back, err := XyzToFlatIndex(c, d)
			if err != nil {
				t.Fatalf("dims %v: XyzToFlatIndex(%v): %v", d, c, err)
			}
			if back != i {
				t.Fatalf("dims %v: index %d -> %v -> %d", d, i, c, back)
			}
		}
		d.Each(func(c Coord) {
			i, err := XyzToFlatIndex(c, d)
			if err != nil {
				t.Fatalf("dims %v: XyzToFlatIndex(%v): %v", d, c, err)
			}
			if got, _ := FlatIndexToXyz(i, d); got != c {
				t.Errorf("dims %v: %v -> %d -> %v", d, c, i, got)
			}
		})
	}
}

func TestKnownIndex(t *testing.T) {
	d := Dims{4, 3, 2}
	c, err := FlatIndexToXyz(13, d)
	if err != nil {
		t.Fatal(err)
	}
	if c != (Coord{1, 1, 1}) {
		t.Errorf("expected (1,1,1), got %v", c)
	}
	i, err := XyzToFlatIndex(Coord{1, 1, 1}, d)
	if err != nil {
		t.Fatal(err)
	}
	if i != 13 {
		t.Errorf("expected 13, got %d", i)
	}
}

func TestOutOfBounds(t *testing.T) {
	d := Dims{4, 3, 2}
	tests := []struct {
		name string
		c    Coord
		axis string
	}{
		{"negative x", Coord{-1, 0, 0}, "x"},
		{"x too big", Coord{4, 0, 0}, "x"},
		{"y too big", Coord{0, 3, 0}, "y"},
		{"z too big", Coord{0, 0, 2}, "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XyzToFlatIndex(tt.c, d)
			var oob *OutOfBoundsError
			if !errors.As(err, &oob) {
				t.Fatalf("expected *OutOfBoundsError, got %v", err)
			}
			if oob.Axis != tt.axis {
				t.Errorf("expected axis %s, got %s", tt.axis, oob.Axis)
			}
			if !errors.Is(err, ErrOutOfBounds) {
				t.Error("expected error to match ErrOutOfBounds")
			}
		})
	}

	for _, i := range []int{24, -1} {
		if _, err := FlatIndexToXyz(i, d); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("index %d: expected ErrOutOfBounds, got %v", i, err)
		}
	}
}

func TestEachVisitsAll(t *testing.T) {
	d := Dims{3, 2, 4}
	seen := map[Coord]bool{}
	d.Each(func(c Coord) { seen[c] = true })
	if len(seen) != d.Len() {
		t.Errorf("expected %d coords, got %d", d.Len(), len(seen))
	}
}

func near(a, b Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestOffsetCenterPosition(t *testing.T) {
	tests := []struct {
		dims    Dims
		size    float64
		spacing Spacing
		offset  Vec3
		want    Vec3
	}{
		{Dims{10, 4, 2}, 100, Uniform(1.4), Vec3{}, Vec3{-700, 280, 0}},
		{Dims{2, 2, 2}, 10, Spacing{1, 2, 3}, Vec3{1, 1, 1}, Vec3{0, 40, 30}},
	}
	for _, tt := range tests {
		got := OffsetCenterPosition(tt.dims, tt.size, tt.spacing, tt.offset)
		if !near(got, tt.want) {
			t.Errorf("OffsetCenterPosition(%v) = %v, want %v", tt.dims, got, tt.want)
		}
	}
}

func TestCellPosition(t *testing.T) {
	got := CellPosition(Vec3{1, 2, 3}, Coord{1, 1, 1}, 100, Uniform(1.4))
	if want := (Vec3{141, -138, 143}); !near(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSpacingYAML(t *testing.T) {
	var s struct {
		A Spacing `yaml:"a"`
		B Spacing `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte("a: 1.5\nb: {x: 1, y: 2, z: 3}\n"), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.A != Uniform(1.5) {
		t.Errorf("expected uniform 1.5, got %v", s.A)
	}
	if s.B != (Spacing{1, 2, 3}) {
		t.Errorf("expected {1 2 3}, got %v", s.B)
	}
	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &s); err == nil {
		t.Error("expected error for a list spacing")
	}
}
