package grid

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultSpacing is the gap multiplier between adjacent cube centers.
const DefaultSpacing = 1.4

// Spacing is a per-axis multiplier on the cube size. In YAML it may be
// written either as a scalar or as a mapping with x, y and z keys.
type Spacing struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Uniform returns the same spacing on every axis.
func Uniform(s float64) Spacing { return Spacing{s, s, s} }

func (s *Spacing) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("spacing: %w", err)
		}
		*s = Uniform(v)
		return nil
	case yaml.MappingNode:
		type plain Spacing
		p := plain(*s)
		if err := node.Decode(&p); err != nil {
			return fmt.Errorf("spacing: %w", err)
		}
		*s = Spacing(p)
		return nil
	}
	return fmt.Errorf("spacing: expected scalar or mapping, got %v", node.Tag)
}

// OffsetCenterPosition returns the world anchor of a grid with dims d so
// that it is centered about offset (expressed in cube steps). X subtracts
// the half extent and Y adds it, compensating for Y growing downwards.
func OffsetCenterPosition(d Dims, cubeSize float64, spacing Spacing, offset Vec3) Vec3 {
	return Vec3{
		X: offset.X*cubeSize*spacing.X - float64(d.X)*cubeSize*spacing.X/2,
		Y: offset.Y*cubeSize*spacing.Y + float64(d.Y)*cubeSize*spacing.Y/2,
		Z: offset.Z * cubeSize * spacing.Z,
	}
}

// CellPosition places the cube for c relative to origin.
func CellPosition(origin Vec3, c Coord, cubeSize float64, spacing Spacing) Vec3 {
	return Vec3{
		X: origin.X + cubeSize*spacing.X*float64(c.X),
		Y: origin.Y - cubeSize*spacing.Y*float64(c.Y),
		Z: origin.Z + cubeSize*spacing.Z*float64(c.Z),
	}
}
