// Package sdfx implements kernel.Mesher using the github.com/deadsy/sdfx
// SDF library. Finished height fields and voxel volumes are sampled as
// signed distance functions and meshed with uniform marching cubes.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/chazu/swarf/pkg/kernel"
	"github.com/chazu/swarf/pkg/stock"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Mesher = (*Mesher)(nil)
	_ sdf.SDF3      = solidSDF{}
)

// DefaultMeshCells controls marching cubes tessellation resolution: the
// number of cells along the longest bounding box edge.
const DefaultMeshCells = 200

// ErrEmptySolid is returned for solids with a degenerate bounding box.
var ErrEmptySolid = errors.New("sdfx: solid has an empty bounding box")

// solidSDF adapts a kernel.Solid to sdf.SDF3.
type solidSDF struct {
	s  kernel.Solid
	bb sdf.Box3
}

func newSolidSDF(s kernel.Solid) solidSDF {
	lo, hi := s.BoundingBox()
	return solidSDF{
		s: s,
		bb: sdf.Box3{
			Min: v3.Vec{X: lo[0], Y: lo[1], Z: lo[2]},
			Max: v3.Vec{X: hi[0], Y: hi[1], Z: hi[2]},
		},
	}
}

// Evaluate returns the solid's sample at p.
func (a solidSDF) Evaluate(p v3.Vec) float64 {
	return a.s.Evaluate(p.X, p.Y, p.Z)
}

// BoundingBox returns the solid's bounds.
func (a solidSDF) BoundingBox() sdf.Box3 {
	return a.bb
}

// Mesher meshes solids with sdfx marching cubes.
type Mesher struct {
	cells int
}

// New returns a Mesher using cells marching cubes cells along the longest
// axis. Values <= 0 select DefaultMeshCells.
func New(cells int) *Mesher {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &Mesher{cells: cells}
}

// Cells returns the marching cubes resolution.
func (k *Mesher) Cells() int {
	return k.cells
}

// Mesh converts a solid to a triangle mesh using marching cubes.
func (k *Mesher) Mesh(s kernel.Solid, name string) (*kernel.Mesh, error) {
	size := kernel.Bounds(s)
	if !(size[0] > 0 && size[1] > 0 && size[2] > 0) {
		return nil, fmt.Errorf("%w: %v", ErrEmptySolid, size)
	}
	m := k.toMesh(newSolidSDF(s))
	m.PartName = name
	return m, nil
}

// Stock meshes the uncut block, placed at its origin. Previews draw it as
// a translucent ghost around the simulated result.
func (k *Mesher) Stock(m stock.Material) (*kernel.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: m.Width, Y: m.Height, Z: m.Thickness}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: stock box: %w", err)
	}
	// Box3D is centered on the origin; move its min corner to the stock origin.
	c := m.Center()
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: c.X, Y: c.Y, Z: c.Z}))
	mesh := k.toMesh(s)
	mesh.PartName = "stock"
	return mesh, nil
}

// Tool meshes a cylindrical cutter of the given radius and flute length
// with its tip at (x, y, z) in world coordinates.
func (k *Mesher) Tool(radius, length float64, x, y, z float64) (*kernel.Mesh, error) {
	if err := stock.CheckPositive("tool radius", radius); err != nil {
		return nil, err
	}
	if err := stock.CheckPositive("tool length", length); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: tool cylinder: %w", err)
	}
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z + length/2}))
	mesh := k.toMesh(s)
	mesh.PartName = "tool"
	return mesh, nil
}

func (k *Mesher) toMesh(s sdf.SDF3) *kernel.Mesh {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Flat shading: every corner takes the face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
}
