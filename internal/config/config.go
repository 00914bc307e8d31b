package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/htm"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

const (
	DefaultLayout         = "sp-to-input"
	DefaultFPS            = 30
	DefaultTheme          = "default"
	DefaultCellsPerColumn = 4
	DefaultNoise          = 0.1
)

type Config struct {
	Layout       string            `yaml:"layout"`
	Element      string            `yaml:"element"`
	Width        int               `yaml:"width"`
	Height       int               `yaml:"height"`
	Geometry     string            `yaml:"geometry"`
	CubeSize     float64           `yaml:"cube_size"`
	Spacing      grid.Spacing      `yaml:"spacing"`
	Offset       grid.Vec3         `yaml:"offset"`
	LayerSpacing float64           `yaml:"layer_spacing"`
	Camera       *grid.Vec3        `yaml:"camera,omitempty"`
	Colors       map[string]string `yaml:"colors,omitempty"`
	Input        InputConfig       `yaml:"input"`
	Columns      ColumnConfig      `yaml:"columns"`
	Pooler       htm.PoolerConfig  `yaml:"pooler"`
	FPS          int               `yaml:"fps"`
	Theme        string            `yaml:"theme"`
	Seed         int64             `yaml:"seed"`
	Noise        float64           `yaml:"noise"`
}

type InputConfig struct {
	Dims [2]int `yaml:"dims"`
	// Square lays a flat input out as a near-square grid.
	Square bool `yaml:"square"`
}

type ColumnConfig struct {
	Dims           [2]int `yaml:"dims"`
	CellsPerColumn int    `yaml:"cells_per_column"`
	CellsPerRow    int    `yaml:"cells_per_row"`
}

func DefaultConfig() *Config {
	return &Config{
		Layout:   DefaultLayout,
		Element:  "cellviz",
		Width:    render.DefaultWidth,
		Height:   render.DefaultHeight,
		Geometry: "cube",
		CubeSize: render.DefaultCubeSize,
		Spacing:  grid.Uniform(grid.DefaultSpacing),
		Input:    InputConfig{Dims: [2]int{16, 16}},
		Columns: ColumnConfig{
			Dims:           [2]int{8, 8},
			CellsPerColumn: DefaultCellsPerColumn,
		},
		FPS:   DefaultFPS,
		Theme: DefaultTheme,
		Seed:  1,
		Noise: DefaultNoise,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that would otherwise fail deep inside a
// layout.
func (c *Config) Validate() error {
	if _, ok := scene.ParseGeometry(c.Geometry); !ok {
		return &cells.UnknownCellValueError{Value: c.Geometry, Known: []string{"cube", "sphere"}}
	}
	for _, d := range [][2]int{c.Input.Dims, c.Columns.Dims} {
		if d[0] <= 0 || d[1] <= 0 {
			return fmt.Errorf("config: dimensions must be positive, got %v", d)
		}
	}
	if c.Columns.CellsPerColumn <= 0 {
		return fmt.Errorf("config: cells_per_column must be positive, got %d", c.Columns.CellsPerColumn)
	}
	if c.Noise < 0 || c.Noise > 1 {
		return fmt.Errorf("config: noise %v outside [0,1]", c.Noise)
	}
	return nil
}

// RenderOptions resolves geometry and color names.
func (c *Config) RenderOptions() (render.Options, error) {
	g, ok := scene.ParseGeometry(c.Geometry)
	if !ok {
		return render.Options{}, &cells.UnknownCellValueError{Value: c.Geometry, Known: []string{"cube", "sphere"}}
	}
	colors, err := cells.ParseColorTable(c.Colors)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Element:      c.Element,
		Width:        c.Width,
		Height:       c.Height,
		Geometry:     g,
		CubeSize:     c.CubeSize,
		Spacing:      c.Spacing,
		Offset:       c.Offset,
		LayerSpacing: c.LayerSpacing,
		Camera:       c.Camera,
		Colors:       colors,
	}, nil
}

// PoolerConfig sizes the demo pooler from the input and column dims.
func (c *Config) PoolerConfig() htm.PoolerConfig {
	p := c.Pooler
	p.InputDims = c.Input.Dims
	p.ColumnDims = c.Columns.Dims
	return p
}

func (c *Config) NumInputs() int  { return c.Input.Dims[0] * c.Input.Dims[1] }
func (c *Config) NumColumns() int { return c.Columns.Dims[0] * c.Columns.Dims[1] }
