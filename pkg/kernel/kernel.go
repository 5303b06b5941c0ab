// Package kernel defines the geometry contract between the stock
// simulators and mesh generators. A simulator exposes its finished grid as
// a Solid; a Mesher (see the sdfx subpackage) turns any Solid into a
// triangle mesh for rendering.
package kernel

// Solid is a read-only implicit shape.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Evaluate samples the shape at a world point. The result is negative
	// inside material, positive outside and approximately the distance to
	// the surface near it.
	Evaluate(x, y, z float64) float64
}

// Mesher converts a solid to a triangle mesh.
type Mesher interface {
	Mesh(s Solid, name string) (*Mesh, error)
}

// Bounds returns the size of s along each axis.
func Bounds(s Solid) [3]float64 {
	lo, hi := s.BoundingBox()
	return [3]float64{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
}
