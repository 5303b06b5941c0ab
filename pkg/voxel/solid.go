package voxel

import (
	"math"

	"github.com/chazu/swarf/pkg/kernel"
)

var _ kernel.Solid = (*Volume)(nil)

// BoundingBox returns the stock block in world coordinates.
func (v *Volume) BoundingBox() (min, max [3]float64) {
	o := v.stock.Origin
	return [3]float64{o.X, o.Y, o.Z},
		[3]float64{o.X + v.stock.Width, o.Y + v.stock.Height, o.Z + v.stock.Thickness}
}

// occupancy returns the trilinear blend of voxel occupancy at a world
// point: 1 deep inside material, 0 in removed space or off the grid.
func (v *Volume) occupancy(x, y, z float64) float64 {
	o := v.stock.Origin
	u := (x-o.X)/v.res - 0.5
	w := (y-o.Y)/v.res - 0.5
	s := (z-o.Z)/v.res - 0.5
	i0, j0, k0 := int(math.Floor(u)), int(math.Floor(w)), int(math.Floor(s))
	fu, fw, fs := u-float64(i0), w-float64(j0), s-float64(k0)

	occ := 0.0
	for dk := 0; dk <= 1; dk++ {
		for dj := 0; dj <= 1; dj++ {
			for di := 0; di <= 1; di++ {
				if v.At(i0+di, j0+dj, k0+dk) != Solid {
					continue
				}
				occ += lerpWeight(fu, di) * lerpWeight(fw, dj) * lerpWeight(fs, dk)
			}
		}
	}
	return occ
}

func lerpWeight(f float64, d int) float64 {
	if d == 0 {
		return 1 - f
	}
	return f
}

// Evaluate is negative inside remaining material. The surface sits where
// the interpolated occupancy crosses one half; the value is scaled by the
// resolution so it reads roughly as a distance in mm.
func (v *Volume) Evaluate(x, y, z float64) float64 {
	return (0.5 - v.occupancy(x, y, z)) * v.res
}
