package heightfield

import (
	"context"

	"github.com/chazu/swarf/pkg/stock"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/toolpath"
	"github.com/samber/lo"
)

// cutter lowers the field under a cylindrical tool of the given radius.
type cutter struct {
	f *Field
	r float64
}

func (c cutter) Cut(p toolpath.Point) bool {
	m := c.f.stock
	h := lo.Clamp(m.LocalZ(p.Z), 0, m.Thickness)
	if h < m.Thickness {
		c.f.lower(p.X, p.Y, c.r, h)
	}
	return !m.ContainsXY(p.X, p.Y)
}

// Sweep runs segments over f with a flat tool of radius toolRadius.
// Cutting moves are sampled at half the grid resolution, so no cell center
// under the swept path is skipped. The field is modified in place; on
// cancellation it holds whatever was cut so far and must be discarded.
func Sweep(ctx context.Context, f *Field, segments []toolpath.Segment, toolRadius float64, opts sweep.Options) (sweep.Report, error) {
	if err := stock.CheckPositive("tool radius", toolRadius); err != nil {
		return sweep.Report{}, err
	}
	return sweep.Run(ctx, segments, cutter{f: f, r: toolRadius}, f.res/2, opts), nil
}
