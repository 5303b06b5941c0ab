package heightfield

import (
	"math"

	"github.com/chazu/swarf/pkg/sweep"
)

// Result is the finished 2D simulation. It takes ownership of the field;
// nothing may modify either after NewResult returns.
type Result struct {
	Field         *Field
	RemovedVolume float64 // mm³
	MinZ          float64 // lowest remaining height above the stock bottom
	MaxZ          float64 // highest remaining height above the stock bottom
	Report        sweep.Report
}

// NewResult measures f and wraps it with the sweep report.
func NewResult(f *Field, report sweep.Report) *Result {
	t := f.stock.Thickness
	r := &Result{
		Field:  f,
		MinZ:   math.Inf(1),
		MaxZ:   math.Inf(-1),
		Report: report,
	}
	for j := 0; j < f.rows; j++ {
		for i := 0; i < f.cols; i++ {
			h := f.At(i, j)
			r.RemovedVolume += (t - h) * f.cellArea(i, j)
			r.MinZ = math.Min(r.MinZ, h)
			r.MaxZ = math.Max(r.MaxZ, h)
		}
	}
	return r
}

// RemovalPercentage returns the removed share of the stock volume, 0-100.
func (r *Result) RemovalPercentage() float64 {
	v := r.Field.stock.Volume()
	if v == 0 {
		return 0
	}
	return r.RemovedVolume / v * 100
}

// MaxDepth returns the deepest cut measured from the top face.
func (r *Result) MaxDepth() float64 {
	return r.Field.stock.Thickness - r.MinZ
}
