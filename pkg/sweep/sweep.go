// Package sweep drives a cutting tool along an ordered move list. It owns
// everything the 2D and 3D simulators have in common: rapid/cutting
// dispatch, arc tessellation, resampling, cooperative cancellation, progress
// reporting and diagnostics. The simulators plug in a Cutter that applies
// the tool envelope at each sample.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/chazu/swarf/pkg/tessellate"
	"github.com/chazu/swarf/pkg/toolpath"
)

// DefaultCheckEvery is the number of segments between cancellation checks
// and progress callbacks when Options.CheckEvery is zero.
const DefaultCheckEvery = 64

// samplesPerCheck bounds the work between checks inside one long segment.
const samplesPerCheck = 4096

// Outcome is how a sweep ended. Cancellation is a normal result, not an error.
type Outcome int

const (
	Completed Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Progress is a snapshot passed to Options.OnProgress.
type Progress struct {
	Segment int // segments fully processed
	Total   int
	Samples int // tool positions applied so far
}

// Fraction returns completion in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Segment) / float64(p.Total)
}

// Options tunes a sweep. The zero value is usable.
type Options struct {
	// ChordTolerance bounds arc chord error in mm. Zero means a quarter of
	// the sample step.
	ChordTolerance float64
	// CheckEvery is the cadence, in segments, of cancellation checks and
	// progress callbacks.
	CheckEvery int
	// OnProgress is called from the sweeping goroutine.
	OnProgress func(Progress)
}

// Diagnostics counts what happened during a sweep.
type Diagnostics struct {
	Segments int `json:"segments"` // segments consumed, of any kind
	Rapid    int `json:"rapid"`
	Cutting  int `json:"cutting"`
	Skipped  int `json:"skipped"` // segments with non-finite coordinates
	Samples  int `json:"samples"` // tool positions applied
	Clipped  int `json:"clipped"` // samples outside the stock

	Position toolpath.Point `json:"position"` // last tracked tool position
}

// Report is the outcome of a sweep plus its diagnostics.
type Report struct {
	Outcome     Outcome
	Diagnostics Diagnostics
	Elapsed     time.Duration
}

// Cutter applies the tool at one sample. It reports whether the sample fell
// outside the stock (it is still applied, clipped to the grid).
type Cutter interface {
	Cut(p toolpath.Point) (clipped bool)
}

// CutterFunc adapts a function to Cutter.
type CutterFunc func(p toolpath.Point) bool

// Cut calls f(p).
func (f CutterFunc) Cut(p toolpath.Point) bool { return f(p) }

// Run processes segments in order. Cutting moves are resampled with spacing
// no larger than step and every sample is handed to c. Rapid moves only
// move the tracked position. The context is polled every CheckEvery
// segments and every few thousand samples; when it is done Run stops and
// reports Cancelled.
//
// Run does not validate step; callers derive it from a validated
// resolution.
func Run(ctx context.Context, segments []toolpath.Segment, c Cutter, step float64, opts Options) Report {
	start := time.Now()
	r := runner{
		ctx:   ctx,
		c:     c,
		step:  step,
		opts:  opts,
		total: len(segments),
	}
	if r.opts.CheckEvery <= 0 {
		r.opts.CheckEvery = DefaultCheckEvery
	}
	if r.opts.ChordTolerance <= 0 {
		r.opts.ChordTolerance = step / 4
	}

	outcome := r.run(segments)
	return Report{
		Outcome:     outcome,
		Diagnostics: r.diag,
		Elapsed:     time.Since(start),
	}
}

type runner struct {
	ctx   context.Context
	c     Cutter
	step  float64
	opts  Options
	total int

	diag       Diagnostics
	sinceCheck int
}

func (r *runner) run(segments []toolpath.Segment) Outcome {
	if len(segments) > 0 {
		r.diag.Position = segments[0].Start
	}
	for i, seg := range segments {
		if i%r.opts.CheckEvery == 0 && !r.checkpoint(i) {
			return Cancelled
		}

		r.diag.Segments++
		if !seg.Finite() {
			r.diag.Skipped++
			continue
		}

		switch seg.Kind {
		case toolpath.Rapid:
			r.diag.Rapid++
		case toolpath.Linear, toolpath.Arc:
			r.diag.Cutting++
			pts := tessellate.Polyline(seg, r.opts.ChordTolerance)
			if !tessellate.Resample(pts, r.step, r.apply) {
				return Cancelled
			}
		default:
			r.diag.Skipped++
			continue
		}
		r.diag.Position = seg.End
	}
	if !r.checkpoint(len(segments)) {
		return Cancelled
	}
	return Completed
}

// apply cuts one sample and polls for cancellation on long segments.
func (r *runner) apply(p toolpath.Point) bool {
	if r.c.Cut(p) {
		r.diag.Clipped++
	}
	r.diag.Samples++
	r.sinceCheck++
	if r.sinceCheck >= samplesPerCheck {
		r.sinceCheck = 0
		if r.ctx.Err() != nil {
			return false
		}
	}
	return true
}

// checkpoint polls the context and reports progress. It returns false when
// the sweep must stop.
func (r *runner) checkpoint(done int) bool {
	if r.ctx.Err() != nil {
		return false
	}
	r.sinceCheck = 0
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(Progress{Segment: done, Total: r.total, Samples: r.diag.Samples})
	}
	return true
}
