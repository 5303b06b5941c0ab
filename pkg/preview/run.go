package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/swarf/pkg/heightfield"
	"github.com/chazu/swarf/pkg/stock"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/voxel"
)

// Run2D simulates job on a fresh height field. Inputs are validated before
// the grid is allocated. A cancelled run returns (nil, Cancelled, nil); the
// outcome is only meaningful when err is nil.
func Run2D(ctx context.Context, job Job, opts Options) (*heightfield.Result, sweep.Outcome, error) {
	if err := stock.CheckPositive("tool radius", job.ToolRadius); err != nil {
		return nil, sweep.Completed, fmt.Errorf("preview: 2d: %w", err)
	}
	f, err := heightfield.NewLimited(job.Stock, job.Resolution2D, opts.MaxCells)
	if err != nil {
		return nil, sweep.Completed, fmt.Errorf("preview: 2d: %w", err)
	}
	report, err := heightfield.Sweep(ctx, f, job.Segments, job.ToolRadius, opts.Sweep)
	if err != nil {
		return nil, sweep.Completed, fmt.Errorf("preview: 2d: %w", err)
	}
	if report.Outcome == sweep.Cancelled {
		return nil, sweep.Cancelled, nil
	}
	return heightfield.NewResult(f, report), sweep.Completed, nil
}

// Run3D simulates job on a fresh voxel volume. When the requested resolution
// would exceed the voxel limit and opts.AutoScale is set, the coarsest
// resolution that fits is used instead and logged.
func Run3D(ctx context.Context, job Job, opts Options) (*voxel.Result, sweep.Outcome, error) {
	if err := stock.CheckPositive("tool radius", job.ToolRadius); err != nil {
		return nil, sweep.Completed, fmt.Errorf("preview: 3d: %w", err)
	}
	v, err := newVolume(job, opts)
	if err != nil {
		return nil, sweep.Completed, fmt.Errorf("preview: 3d: %w", err)
	}
	report, err := voxel.Sweep(ctx, v, job.Segments, job.ToolRadius, opts.Sweep)
	if err != nil {
		return nil, sweep.Completed, fmt.Errorf("preview: 3d: %w", err)
	}
	if report.Outcome == sweep.Cancelled {
		return nil, sweep.Cancelled, nil
	}
	return voxel.NewResult(v, report), sweep.Completed, nil
}

func newVolume(job Job, opts Options) (*voxel.Volume, error) {
	v, err := voxel.New(job.Stock, job.Resolution3D, opts.MaxVoxels)
	if err == nil || !opts.AutoScale || !errors.Is(err, stock.ErrResource) {
		return v, err
	}
	res := voxel.SuggestResolution(job.Stock, opts.MaxVoxels)
	Logger().Warn("preview: coarsening 3d resolution",
		"requested", job.Resolution3D, "used", res, "reason", err)
	return voxel.New(job.Stock, res, opts.MaxVoxels)
}
