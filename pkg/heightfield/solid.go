package heightfield

import (
	"math"

	"github.com/chazu/swarf/pkg/kernel"
)

var _ kernel.Solid = (*Field)(nil)

// BoundingBox returns the stock block in world coordinates.
func (f *Field) BoundingBox() (min, max [3]float64) {
	o := f.stock.Origin
	return [3]float64{o.X, o.Y, o.Z},
		[3]float64{o.X + f.stock.Width, o.Y + f.stock.Height, o.Z + f.stock.Thickness}
}

// Surface returns the remaining height at (x, y) bilinearly interpolated
// between cell centers.
func (f *Field) Surface(x, y float64) float64 {
	u := (x-f.stock.Origin.X)/f.res - 0.5
	v := (y-f.stock.Origin.Y)/f.res - 0.5
	u = math.Max(0, math.Min(u, float64(f.cols-1)))
	v = math.Max(0, math.Min(v, float64(f.rows-1)))

	i0, j0 := int(u), int(v)
	i1, j1 := min(i0+1, f.cols-1), min(j0+1, f.rows-1)
	fu, fv := u-float64(i0), v-float64(j0)

	bottom := f.At(i0, j0)*(1-fu) + f.At(i1, j0)*fu
	top := f.At(i0, j1)*(1-fu) + f.At(i1, j1)*fu
	return bottom*(1-fv) + top*fv
}

// Evaluate is negative below the remaining surface and inside the stock
// footprint, positive elsewhere.
func (f *Field) Evaluate(x, y, z float64) float64 {
	o := f.stock.Origin
	d := z - (o.Z + f.Surface(x, y))
	d = math.Max(d, o.Z-z)
	d = math.Max(d, o.X-x)
	d = math.Max(d, x-(o.X+f.stock.Width))
	d = math.Max(d, o.Y-y)
	d = math.Max(d, y-(o.Y+f.stock.Height))
	return d
}
