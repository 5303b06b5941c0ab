package kernel

import "math"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // label of the solid this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	vertex := func(i uint32) [3]float64 {
		return [3]float64{float64(m.Vertices[i*3]), float64(m.Vertices[i*3+1]), float64(m.Vertices[i*3+2])}
	}
	area := 0.0
	for t := 0; t+2 < len(m.Indices); t += 3 {
		p0, p1, p2 := vertex(m.Indices[t]), vertex(m.Indices[t+1]), vertex(m.Indices[t+2])
		ax, ay, az := p1[0]-p0[0], p1[1]-p0[1], p1[2]-p0[2]
		bx, by, bz := p2[0]-p0[0], p2[1]-p0[1], p2[2]-p0[2]
		cx, cy, cz := ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx
		area += math.Sqrt(cx*cx+cy*cy+cz*cz) / 2
	}
	return area
}
