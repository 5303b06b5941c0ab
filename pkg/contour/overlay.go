package contour

import (
	"math"

	"github.com/chazu/swarf/pkg/heightfield"
	"github.com/gogpu/gg"
	"github.com/paulmach/orb"
)

// OverlayCell is one shaded cell of the removal overlay.
type OverlayCell struct {
	Center orb.Point
	Depth  float64 // material removed below the original top, mm
}

// RemovalOverlay returns every cell cut below originalThickness, with its
// depth. Uncut cells are omitted.
func RemovalOverlay(f *heightfield.Field, originalThickness float64) []OverlayCell {
	var out []OverlayCell
	for j := 0; j < f.Rows(); j++ {
		for i := 0; i < f.Cols(); i++ {
			d := originalThickness - f.At(i, j)
			if d <= 0 {
				continue
			}
			x, y := f.CellCenter(i, j)
			out = append(out, OverlayCell{Center: orb.Point{x, y}, Depth: d})
		}
	}
	return out
}

// MaxDepth returns the deepest cell in an overlay.
func MaxDepth(cells []OverlayCell) float64 {
	m := 0.0
	for _, c := range cells {
		m = math.Max(m, c.Depth)
	}
	return m
}

// Palette is a depth colour ramp between two shades of one hue.
type Palette struct {
	Light gg.RGBA // shallowest cut
	Dark  gg.RGBA // deepest cut
	Alpha float64
	// Gamma shapes the ramp; 1 is linear, values above 1 keep shallow
	// cuts lighter for longer. Zero means 1.
	Gamma float64
}

var lightBlue = gg.Hex("#ADD8E6")

// DefaultPalette runs from light blue to the same blue at half brightness,
// half transparent.
var DefaultPalette = Palette{
	Light: lightBlue,
	Dark:  gg.RGB(lightBlue.R/2, lightBlue.G/2, lightBlue.B/2),
	Alpha: 0.5,
	Gamma: 1,
}

// Color maps depth to a colour. Depths at or above maxDepth get the dark
// shade; depth <= 0 is fully transparent.
func (p Palette) Color(depth, maxDepth float64) gg.RGBA {
	if !(depth > 0) {
		return gg.RGBA{}
	}
	t := 0.0
	if maxDepth > 0 {
		t = math.Min(depth/maxDepth, 1)
	}
	if p.Gamma > 0 && p.Gamma != 1 {
		t = math.Pow(t, p.Gamma)
	}
	c := p.Light.Lerp(p.Dark, t)
	c.A = p.Alpha
	return c
}

// DepthToColor shades depth with DefaultPalette.
func DepthToColor(depth, maxDepth float64) gg.RGBA {
	return DefaultPalette.Color(depth, maxDepth)
}
