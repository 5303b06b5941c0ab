package voxel

import (
	"math"
	"time"

	"github.com/chazu/swarf/pkg/sweep"
)

// Result is the finished 3D simulation. It owns the volume; neither may be
// modified after NewResult returns.
type Result struct {
	Volume        *Volume
	RemovedVoxels int
	RemovedVolume float64       // mm³
	MinZ          float64       // lowest column top above the stock bottom
	MaxZ          float64       // highest column top above the stock bottom
	Elapsed       time.Duration // sweep wall time
	Segments      int           // segments processed
	Report        sweep.Report
}

// NewResult measures v and wraps it with the sweep report.
func NewResult(v *Volume, report sweep.Report) *Result {
	r := &Result{
		Volume:   v,
		MinZ:     math.Inf(1),
		MaxZ:     math.Inf(-1),
		Elapsed:  report.Elapsed,
		Segments: report.Diagnostics.Segments,
		Report:   report,
	}
	for k := 0; k < v.nz; k++ {
		for j := 0; j < v.ny; j++ {
			for i := 0; i < v.nx; i++ {
				if v.data[v.index(i, j, k)] == Removed {
					r.RemovedVoxels++
					r.RemovedVolume += v.voxelVolume(i, j, k)
				}
			}
		}
	}
	for j := 0; j < v.ny; j++ {
		for i := 0; i < v.nx; i++ {
			top := v.ColumnTop(i, j)
			r.MinZ = math.Min(r.MinZ, top)
			r.MaxZ = math.Max(r.MaxZ, top)
		}
	}
	return r
}

// RemovalPercentage returns the removed share of the stock volume, 0-100.
func (r *Result) RemovalPercentage() float64 {
	v := r.Volume.stock.Volume()
	if v == 0 {
		return 0
	}
	return r.RemovedVolume / v * 100
}
