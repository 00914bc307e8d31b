// Package sdrdraw lays out SDRs and permanence vectors as flat grids of
// boxes. A Drawing produces a Picture of primitive shapes that the export
// package turns into SVG, PNG or an HTML chart.
package sdrdraw
