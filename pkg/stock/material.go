package stock

import "math"

// Vec3 is a point or offset in millimetres.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Material is the stock block: a box of Width × Height × Thickness whose
// bottom-left-front corner sits at Origin. A Material is passed by value and
// never changes once a simulation has started.
//
// Toolpath Z uses the work frame: zero at the top face of the stock and
// negative into material. Grid heights are measured up from the stock
// bottom and range over [0, Thickness].
type Material struct {
	Width     float64 `json:"width"`     // X extent, mm
	Height    float64 `json:"height"`    // Y extent, mm
	Thickness float64 `json:"thickness"` // Z extent, mm
	Origin    Vec3    `json:"origin"`
}

// New returns a validated Material.
func New(width, height, thickness float64, origin Vec3) (Material, error) {
	m := Material{Width: width, Height: height, Thickness: thickness, Origin: origin}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// Validate reports a *ConfigError for the first non-positive or non-finite
// dimension.
func (m Material) Validate() error {
	if err := CheckPositive("stock width", m.Width); err != nil {
		return err
	}
	if err := CheckPositive("stock height", m.Height); err != nil {
		return err
	}
	if err := CheckPositive("stock thickness", m.Thickness); err != nil {
		return err
	}
	if !finite(m.Origin.X) || !finite(m.Origin.Y) || !finite(m.Origin.Z) {
		return &ConfigError{Field: "stock origin", Value: math.NaN(), Reason: "must be finite"}
	}
	return nil
}

// Center returns the center of the block in world coordinates.
func (m Material) Center() Vec3 {
	return Vec3{
		X: m.Origin.X + m.Width/2,
		Y: m.Origin.Y + m.Height/2,
		Z: m.Origin.Z + m.Thickness/2,
	}
}

// TopZ returns the world Z of the top face.
func (m Material) TopZ() float64 {
	return m.Origin.Z + m.Thickness
}

// Volume returns Width × Height × Thickness.
func (m Material) Volume() float64 {
	return m.Width * m.Height * m.Thickness
}

// ContainsXY reports whether (x, y) lies on the stock footprint.
func (m Material) ContainsXY(x, y float64) bool {
	return x >= m.Origin.X && x <= m.Origin.X+m.Width &&
		y >= m.Origin.Y && y <= m.Origin.Y+m.Height
}

// Contains reports whether a world point lies inside the block.
func (m Material) Contains(p Vec3) bool {
	return m.ContainsXY(p.X, p.Y) && p.Z >= m.Origin.Z && p.Z <= m.TopZ()
}

// LocalZ converts a work Z (zero at the top face) into a height above the
// stock bottom. The result is not clamped.
func (m Material) LocalZ(workZ float64) float64 {
	return m.Thickness + workZ
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
