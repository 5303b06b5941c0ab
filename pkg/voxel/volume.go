// Package voxel is the 3D stock simulator. The stock is a dense occupancy
// grid, one byte per voxel, carved by a spherical tool envelope. Voxels
// only ever go from Solid to Removed.
package voxel

import (
	"fmt"
	"math"

	"github.com/chazu/swarf/pkg/stock"
)

// Occupancy values.
const (
	Solid   byte = 0xFF
	Removed byte = 0x00
)

// DefaultMaxVoxels is the memory ceiling used when none is given: 64 MiB
// of occupancy bytes.
const DefaultMaxVoxels int64 = 64 << 20

// Volume is the occupancy grid. Voxel (i, j, k) covers
// [Origin+(i,j,k)*res, Origin+(i+1,j+1,k+1)*res); k counts up from the
// stock bottom. Data is laid out Z-major: index = k*nx*ny + j*nx + i.
type Volume struct {
	stock      stock.Material
	res        float64
	nx, ny, nz int
	data       []byte
}

// voxelCount returns the grid size for m at res without allocating.
func voxelCount(m stock.Material, res float64) (nx, ny, nz float64) {
	return math.Ceil(m.Width / res), math.Ceil(m.Height / res), math.Ceil(m.Thickness / res)
}

// New returns a fully solid volume for m. The voxel count is checked
// against maxVoxels (DefaultMaxVoxels when <= 0) before allocation.
func New(m stock.Material, resolution float64, maxVoxels int64) (*Volume, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := stock.CheckPositive("resolution", resolution); err != nil {
		return nil, err
	}
	if maxVoxels <= 0 {
		maxVoxels = DefaultMaxVoxels
	}
	fx, fy, fz := voxelCount(m, resolution)
	if total := fx * fy * fz; total > float64(maxVoxels) {
		return nil, fmt.Errorf("voxel: %gx%gx%g grid: %w", fx, fy, fz, &stock.ResourceError{
			Voxels:     total,
			Limit:      maxVoxels,
			Resolution: resolution,
		})
	}

	v := &Volume{
		stock: m,
		res:   resolution,
		nx:    int(fx),
		ny:    int(fy),
		nz:    int(fz),
	}
	v.data = make([]byte, v.nx*v.ny*v.nz)
	for i := range v.data {
		v.data[i] = Solid
	}
	return v, nil
}

// SuggestResolution returns the finest resolution at which m fits in
// maxVoxels (DefaultMaxVoxels when <= 0).
func SuggestResolution(m stock.Material, maxVoxels int64) float64 {
	if maxVoxels <= 0 {
		maxVoxels = DefaultMaxVoxels
	}
	res := math.Cbrt(m.Volume() / float64(maxVoxels))
	for i := 0; i < 1000; i++ {
		fx, fy, fz := voxelCount(m, res)
		if fx*fy*fz <= float64(maxVoxels) {
			break
		}
		res *= 1.01
	}
	return res
}

// Stock returns the material the volume was built for.
func (v *Volume) Stock() stock.Material { return v.stock }

// Resolution returns the voxel edge length in mm.
func (v *Volume) Resolution() float64 { return v.res }

// Dims returns the voxel counts along X, Y and Z.
func (v *Volume) Dims() (nx, ny, nz int) { return v.nx, v.ny, v.nz }

// Data returns the raw occupancy buffer, suitable for uploading as a 3D
// texture. Callers must not modify it.
func (v *Volume) Data() []byte { return v.data }

func (v *Volume) index(i, j, k int) int {
	return (k*v.ny+j)*v.nx + i
}

// At returns the occupancy of voxel (i, j, k). Out-of-range indices read as
// Removed.
func (v *Volume) At(i, j, k int) byte {
	if i < 0 || j < 0 || k < 0 || i >= v.nx || j >= v.ny || k >= v.nz {
		return Removed
	}
	return v.data[v.index(i, j, k)]
}

// Center returns the world position of the center of voxel (i, j, k).
func (v *Volume) Center(i, j, k int) stock.Vec3 {
	o := v.stock.Origin
	return stock.Vec3{
		X: o.X + (float64(i)+0.5)*v.res,
		Y: o.Y + (float64(j)+0.5)*v.res,
		Z: o.Z + (float64(k)+0.5)*v.res,
	}
}

// extent returns how much of a voxel edge starting at n*res lies inside a
// block dimension.
func (v *Volume) extent(n int, dim float64) float64 {
	return math.Min(v.res, dim-float64(n)*v.res)
}

// voxelVolume returns the part of voxel (i, j, k) inside the stock.
func (v *Volume) voxelVolume(i, j, k int) float64 {
	return v.extent(i, v.stock.Width) * v.extent(j, v.stock.Height) * v.extent(k, v.stock.Thickness)
}

// RemoveSphere clears every voxel whose center lies within radius of
// center (world coordinates). Only the sphere's bounding box is visited.
// It returns the number of voxels newly removed.
func (v *Volume) RemoveSphere(center stock.Vec3, radius float64) int {
	if !(radius > 0) {
		return 0
	}
	o := v.stock.Origin
	lx := (center.X - o.X) / v.res
	ly := (center.Y - o.Y) / v.res
	lz := (center.Z - o.Z) / v.res
	rc := radius / v.res

	i0, i1 := max(0, int(math.Floor(lx-rc-0.5))), min(v.nx-1, int(math.Ceil(lx+rc-0.5)))
	j0, j1 := max(0, int(math.Floor(ly-rc-0.5))), min(v.ny-1, int(math.Ceil(ly+rc-0.5)))
	k0, k1 := max(0, int(math.Floor(lz-rc-0.5))), min(v.nz-1, int(math.Ceil(lz+rc-0.5)))

	r2 := radius * radius
	removed := 0
	for k := k0; k <= k1; k++ {
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				idx := v.index(i, j, k)
				if v.data[idx] == Removed {
					continue
				}
				c := v.Center(i, j, k)
				dx, dy, dz := c.X-center.X, c.Y-center.Y, c.Z-center.Z
				if dx*dx+dy*dy+dz*dz <= r2 {
					v.data[idx] = Removed
					removed++
				}
			}
		}
	}
	return removed
}

// ColumnTop returns the height above the stock bottom of the highest solid
// voxel in column (i, j), or 0 when the column is empty.
func (v *Volume) ColumnTop(i, j int) float64 {
	for k := v.nz - 1; k >= 0; k-- {
		if v.data[v.index(i, j, k)] == Solid {
			return math.Min(float64(k+1)*v.res, v.stock.Thickness)
		}
	}
	return 0
}

// Clone returns a deep copy.
func (v *Volume) Clone() *Volume {
	c := *v
	c.data = make([]byte, len(v.data))
	copy(c.data, v.data)
	return &c
}
