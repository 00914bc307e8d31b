package cells

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is the color carried by a cell. The zero value is black and counts
// as "unset" for Replace updates.
type Color = colorful.Color

// ParseColor accepts "#rgb", "#rrggbb", "0xrrggbb" or a CSS color name.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "0x"):
		v = "#" + v[2:]
		fallthrough
	case strings.HasPrefix(v, "#"):
		c, err := colorful.Hex(v)
		if err != nil {
			return Color{}, &UnknownCellValueError{Value: s, Known: []string{"#rgb", "#rrggbb", "0xrrggbb"}}
		}
		return c, nil
	}
	if rgba, ok := colornames.Map[v]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	return Color{}, &UnknownCellValueError{Value: s, Known: colornames.Names}
}

// MustColor is ParseColor for package-level tables.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorTable maps keys (state names, layout addresses) to colors.
type ColorTable map[string]Color

// Lookup fails with *UnknownCellValueError instead of defaulting.
func (t ColorTable) Lookup(key string) (Color, error) {
	if c, ok := t[key]; ok {
		return c, nil
	}
	known := make([]string, 0, len(t))
	for k := range t {
		known = append(known, k)
	}
	return Color{}, &UnknownCellValueError{Value: key, Known: known}
}

// ParseColorTable resolves a table of color strings, as found in YAML config.
func ParseColorTable(raw map[string]string) (ColorTable, error) {
	out := make(ColorTable, len(raw))
	for k, v := range raw {
		c, err := ParseColor(v)
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}

// Lerp moves c toward o by t, in RGB.
func Lerp(c, o Color, t float64) Color {
	return c.BlendRgb(o, t)
}

// Average is the midpoint of two colors.
func Average(c, o Color) Color {
	return c.BlendRgb(o, 0.5)
}
