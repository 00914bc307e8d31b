package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Layout != DefaultLayout {
		t.Errorf("expected layout %s, got %s", DefaultLayout, cfg.Layout)
	}
	if cfg.CubeSize <= 0 {
		t.Error("cube size should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("complete-htm")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Columns.CellsPerRow != 16 {
		t.Errorf("expected 16 cells per row, got %d", cfg.Columns.CellsPerRow)
	}
	if cfg.Width == 0 {
		t.Error("preset should inherit default width")
	}
	cfg.Noise = 0.9
	if Presets["complete-htm"].Noise == 0.9 {
		t.Error("GetPreset must not hand out the shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"complete-htm", "minicolumns", "single", "sp-to-input"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("preset %d: expected %s, got %s", i, want[i], presets[i])
		}
		if err := GetPreset(want[i]).Validate(); err != nil {
			t.Errorf("preset %s: %v", want[i], err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viz.yaml")
	data := `
layout: single
geometry: sphere
spacing: 2
camera: {x: 0, y: 0, z: 5000}
colors:
  active: orange
columns:
  dims: [4, 4]
  cells_per_column: 3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Spacing != grid.Uniform(2) {
		t.Errorf("expected uniform spacing 2, got %+v", cfg.Spacing)
	}
	if cfg.Input.Dims != DefaultConfig().Input.Dims {
		t.Errorf("unset input dims should keep defaults, got %v", cfg.Input.Dims)
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		t.Fatalf("render options: %v", err)
	}
	if opts.Geometry != scene.Sphere {
		t.Errorf("expected sphere geometry, got %v", opts.Geometry)
	}
	if opts.Camera == nil || opts.Camera.Z != 5000 {
		t.Errorf("expected camera z 5000, got %v", opts.Camera)
	}
	if opts.Colors["active"] != cells.MustColor("orange") {
		t.Errorf("expected orange active color, got %v", opts.Colors["active"])
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("minicolumns")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Columns != cfg.Columns || back.Geometry != cfg.Geometry {
		t.Errorf("round trip changed config: %+v vs %+v", back.Columns, cfg.Columns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"geometry", func(c *Config) { c.Geometry = "torus" }},
		{"input dims", func(c *Config) { c.Input.Dims = [2]int{0, 4} }},
		{"cells per column", func(c *Config) { c.Columns.CellsPerColumn = 0 }},
		{"noise", func(c *Config) { c.Noise = 1.5 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestPoolerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pooler.ActiveColumns = 3
	p := cfg.PoolerConfig()
	if p.InputDims != cfg.Input.Dims || p.ColumnDims != cfg.Columns.Dims {
		t.Errorf("pooler dims not taken from config: %+v", p)
	}
	if p.ActiveColumns != 3 {
		t.Errorf("expected 3 active columns, got %d", p.ActiveColumns)
	}
}
