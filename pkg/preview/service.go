package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/swarf/pkg/config"
	"github.com/chazu/swarf/pkg/engine"
	"github.com/chazu/swarf/pkg/heightfield"
	"github.com/chazu/swarf/pkg/kernel/sdfx"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/voxel"
)

// Preview is a finished run. A cancelled run carries no results.
type Preview struct {
	ID      string
	Job     Job
	Outcome sweep.Outcome
	TwoD    *heightfield.Result
	ThreeD  *voxel.Result // nil unless Job.Want3D
	Elapsed time.Duration
}

// Service runs previews and keeps the latest finished results. It is safe
// for concurrent use.
type Service struct {
	cfg    config.Config
	opts   Options
	engine *engine.Engine
	mesher *sdfx.Mesher

	twoD   Slot[heightfield.Result]
	threeD Slot[voxel.Result]

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the newest submission
}

// NewService creates a service configured by cfg.
func NewService(cfg config.Config) *Service {
	eng := engine.NewEngine()
	eng.SetTimeout(cfg.EvalTimeout)
	return &Service{
		cfg:    cfg,
		opts:   OptionsFromConfig(cfg),
		engine: eng,
		mesher: sdfx.New(cfg.MeshCells),
	}
}

// Latest2D returns the most recently published 2D result, or nil.
func (s *Service) Latest2D() *heightfield.Result { return s.twoD.Load() }

// Latest3D returns the most recently published 3D result, or nil.
func (s *Service) Latest3D() *voxel.Result { return s.threeD.Load() }

// Preview runs job synchronously. The 2D and 3D simulations run
// concurrently on private grids; an error in one cancels the other.
// Completed results are published to Latest2D/Latest3D unless a newer run
// has started meanwhile.
func (s *Service) Preview(ctx context.Context, job Job) (*Preview, error) {
	return s.preview(ctx, uuid.New().String(), job, s.begin(job))
}

// tickets are the publication tickets of one run.
type tickets struct {
	twoD, threeD uint64
}

func (s *Service) begin(job Job) tickets {
	t := tickets{twoD: s.twoD.Begin()}
	if job.Want3D {
		t.threeD = s.threeD.Begin()
	}
	return t
}

func (s *Service) preview(ctx context.Context, id string, job Job, t tickets) (*Preview, error) {
	start := time.Now()
	log := Logger().With("run", id)
	log.Info("preview: start", "segments", len(job.Segments), "want3d", job.Want3D)

	p := &Preview{ID: id, Job: job}
	var out2, out3 sweep.Outcome
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p.TwoD, out2, err = Run2D(gctx, job, s.opts)
		return err
	})
	if job.Want3D {
		g.Go(func() error {
			var err error
			p.ThreeD, out3, err = Run3D(gctx, job, s.opts)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("preview: failed", "err", err)
		return nil, err
	}

	p.Elapsed = time.Since(start)
	if out2 == sweep.Cancelled || out3 == sweep.Cancelled {
		p.Outcome = sweep.Cancelled
		p.TwoD, p.ThreeD = nil, nil
		log.Info("preview: cancelled", "elapsed", p.Elapsed)
		return p, nil
	}

	s.twoD.Publish(t.twoD, p.TwoD)
	if p.ThreeD != nil {
		s.threeD.Publish(t.threeD, p.ThreeD)
	}
	log.Info("preview: done", "elapsed", p.Elapsed)
	log.Debug("preview: diagnostics", "2d", p.TwoD.Report.Diagnostics)
	if d := p.TwoD.Report.Diagnostics; d.Skipped > 0 {
		log.Warn("preview: skipped segments with non-finite coordinates", "count", d.Skipped)
	}
	return p, nil
}

// Handle tracks a submitted preview.
type Handle struct {
	ID     string
	cancel context.CancelFunc
	done   chan struct{}
	res    *Preview
	err    error
}

// Cancel asks the run to stop. It does not wait.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed when the run has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the run has finished and returns its outcome.
func (h *Handle) Wait() (*Preview, error) {
	<-h.done
	return h.res, h.err
}

// Submit starts job on a background goroutine and cancels the previous
// submission, if any. Publication order follows submission order.
func (s *Service) Submit(ctx context.Context, job Job) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{ID: uuid.New().String(), cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	t := s.begin(job)
	s.mu.Unlock()

	go func() {
		defer close(h.done)
		defer cancel()
		h.res, h.err = s.preview(ctx, h.ID, job, t)
	}()
	return h
}

// PreviewScript evaluates source, previews the program it describes and
// converts everything into a Response. Script and validation errors are
// reported in the response, not returned.
func (s *Service) PreviewScript(ctx context.Context, source string) Response {
	resp := newResponse()

	prog, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		Logger().Warn("preview: evaluate fatal error", "err", err)
		resp.addError(0, err.Error())
		return resp
	}
	if len(evalErrs) > 0 {
		resp.Errors = append(resp.Errors, errorData(evalErrs)...)
		return resp
	}

	job, err := JobFromProgram(prog, s.cfg)
	if err != nil {
		resp.addError(0, err.Error())
		return resp
	}
	p, err := s.Preview(ctx, job)
	if err != nil {
		resp.addError(0, err.Error())
		return resp
	}
	if err := s.fill(&resp, p); err != nil {
		resp.addError(0, fmt.Sprintf("meshing failed: %v", err))
	}
	return resp
}
