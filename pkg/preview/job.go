// Package preview runs stock-removal previews. It turns scripts or move
// lists into jobs, runs the 2D height-field and 3D voxel simulations on
// private grids, and publishes finished, immutable results.
package preview

import (
	"fmt"

	"github.com/chazu/swarf/pkg/config"
	"github.com/chazu/swarf/pkg/stock"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/toolpath"
)

// ErrNoStock is returned for programs that never declare stock.
var ErrNoStock = fmt.Errorf("program defines no stock: %w", stock.ErrConfiguration)

// Job is one preview request.
type Job struct {
	Stock        stock.Material
	ToolRadius   float64
	Resolution2D float64
	Resolution3D float64
	Segments     []toolpath.Segment
	Want3D       bool
}

// Options tunes how jobs run.
type Options struct {
	Sweep     sweep.Options
	MaxCells  int64 // <= 0 means heightfield.DefaultMaxCells
	MaxVoxels int64 // <= 0 means voxel.DefaultMaxVoxels
	AutoScale bool  // coarsen the 3D resolution instead of failing
}

// OptionsFromConfig maps loaded settings onto run options.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		Sweep: sweep.Options{
			ChordTolerance: c.ChordTolerance,
			CheckEvery:     c.CheckEvery,
		},
		MaxCells:  c.MaxCells,
		MaxVoxels: c.MaxVoxels,
		AutoScale: c.AutoScale,
	}
}

// JobFromProgram builds a job from an evaluated script using the configured
// resolutions. Both simulations are requested.
func JobFromProgram(p *toolpath.Program, c config.Config) (Job, error) {
	if p == nil || p.Stock == nil {
		return Job{}, fmt.Errorf("preview: %w", ErrNoStock)
	}
	if err := stock.CheckPositive("tool radius", p.ToolRadius); err != nil {
		return Job{}, fmt.Errorf("preview: %w", err)
	}
	return Job{
		Stock:        *p.Stock,
		ToolRadius:   p.ToolRadius,
		Resolution2D: c.Resolution2D,
		Resolution3D: c.Resolution3D,
		Segments:     p.Segments,
		Want3D:       true,
	}, nil
}
