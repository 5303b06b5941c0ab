package voxel

import "github.com/chazu/swarf/pkg/kernel"

// face describes one side of a voxel cube: the neighbour offset, the
// outward normal and the four corners as unit-cube offsets, wound
// counter-clockwise seen from outside.
type face struct {
	di, dj, dk int
	normal     [3]float32
	corners    [4][3]float64
}

var faces = [6]face{
	{-1, 0, 0, [3]float32{-1, 0, 0}, [4][3]float64{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{1, 0, 0, [3]float32{1, 0, 0}, [4][3]float64{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}},
	{0, -1, 0, [3]float32{0, -1, 0}, [4][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{0, 1, 0, [3]float32{0, 1, 0}, [4][3]float64{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}}},
	{0, 0, -1, [3]float32{0, 0, -1}, [4][3]float64{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}}},
	{0, 0, 1, [3]float32{0, 0, 1}, [4][3]float64{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
}

// FaceMesh returns the blocky surface of the volume: one quad for every
// solid voxel face that borders removed space or the outside. Voxels on
// the far edges are trimmed to the stock dimensions.
func (v *Volume) FaceMesh() *kernel.Mesh {
	m := &kernel.Mesh{PartName: "stock"}
	o := v.stock.Origin
	for k := 0; k < v.nz; k++ {
		for j := 0; j < v.ny; j++ {
			for i := 0; i < v.nx; i++ {
				if v.data[v.index(i, j, k)] != Solid {
					continue
				}
				lo := [3]float64{
					o.X + float64(i)*v.res,
					o.Y + float64(j)*v.res,
					o.Z + float64(k)*v.res,
				}
				size := [3]float64{
					v.extent(i, v.stock.Width),
					v.extent(j, v.stock.Height),
					v.extent(k, v.stock.Thickness),
				}
				for _, f := range faces {
					if v.At(i+f.di, j+f.dj, k+f.dk) == Solid {
						continue
					}
					appendQuad(m, lo, size, f)
				}
			}
		}
	}
	return m
}

func appendQuad(m *kernel.Mesh, lo, size [3]float64, f face) {
	base := uint32(len(m.Vertices) / 3)
	for _, c := range f.corners {
		for a := 0; a < 3; a++ {
			m.Vertices = append(m.Vertices, float32(lo[a]+c[a]*size[a]))
		}
		m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}
