package config

import "sort"

var Presets = map[string]*Config{
	"single": {
		Layout: "single", Geometry: "cube", CubeSize: 100, FPS: 30, Noise: 0.1,
		Input:   InputConfig{Dims: [2]int{10, 10}},
		Columns: ColumnConfig{Dims: [2]int{6, 6}, CellsPerColumn: 6},
	},
	"sp-to-input": {
		Layout: "sp-to-input", Geometry: "cube", CubeSize: 100, FPS: 30, Noise: 0.1,
		Input:   InputConfig{Dims: [2]int{20, 20}},
		Columns: ColumnConfig{Dims: [2]int{12, 12}, CellsPerColumn: 1},
	},
	"complete-htm": {
		Layout: "complete-htm", Geometry: "cube", CubeSize: 100, FPS: 30, Noise: 0.2,
		Input:   InputConfig{Dims: [2]int{1, 400}, Square: true},
		Columns: ColumnConfig{Dims: [2]int{1, 64}, CellsPerColumn: 8, CellsPerRow: 16},
	},
	"minicolumns": {
		Layout: "minicolumns", Geometry: "sphere", CubeSize: 60, FPS: 30, Noise: 0.05,
		Input:   InputConfig{Dims: [2]int{1, 100}, Square: true},
		Columns: ColumnConfig{Dims: [2]int{1, 32}, CellsPerColumn: 10, CellsPerRow: 8},
	},
}

// GetPreset returns a copy of the named preset over the defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Layout = p.Layout
	cfg.Geometry = p.Geometry
	cfg.CubeSize = p.CubeSize
	cfg.FPS = p.FPS
	cfg.Noise = p.Noise
	cfg.Input = p.Input
	cfg.Columns = p.Columns
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
