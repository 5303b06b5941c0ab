package voxel

import (
	"context"

	"github.com/chazu/swarf/pkg/stock"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/toolpath"
)

// cutter carves a ball of radius r centered on each sample.
type cutter struct {
	v *Volume
	r float64
}

func (c cutter) Cut(p toolpath.Point) bool {
	m := c.v.stock
	center := stock.Vec3{X: p.X, Y: p.Y, Z: m.TopZ() + p.Z}
	c.v.RemoveSphere(center, c.r)
	return !m.Contains(center)
}

// Sweep runs segments over v with a ball tool of radius toolRadius.
// Cutting moves are sampled at the voxel resolution. The volume is carved
// in place; on cancellation it must be discarded.
func Sweep(ctx context.Context, v *Volume, segments []toolpath.Segment, toolRadius float64, opts sweep.Options) (sweep.Report, error) {
	if err := stock.CheckPositive("tool radius", toolRadius); err != nil {
		return sweep.Report{}, err
	}
	return sweep.Run(ctx, segments, cutter{v: v, r: toolRadius}, v.res, opts), nil
}
