package preview

import (
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"

	"github.com/chazu/swarf/pkg/contour"
	"github.com/chazu/swarf/pkg/engine"
	"github.com/chazu/swarf/pkg/kernel"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/toolpath"
)

// maxContourLevels caps how many cut depths get contour lines.
const maxContourLevels = 8

// colorPalette assigns distinct colors to meshes.
var colorPalette = []string{
	"#B0B0B0", "#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
}

// MeshData is the JSON mesh format sent to viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// ErrorData is a JSON script or run error.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// OverlayData is one shaded cell of the removal overlay.
type OverlayData struct {
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Depth float64    `json:"depth"`
	RGBA  [4]float64 `json:"rgba"`
}

// Stats summarises both simulations.
type Stats struct {
	RemovedVolume2D    float64            `json:"removedVolume2d"`
	RemovalPercent2D   float64            `json:"removalPercent2d"`
	MaxDepth           float64            `json:"maxDepth"`
	RemovedVolume3D    float64            `json:"removedVolume3d,omitempty"`
	RemovalPercent3D   float64            `json:"removalPercent3d,omitempty"`
	RemovedVoxels      int                `json:"removedVoxels,omitempty"`
	Resolution3D       float64            `json:"resolution3d,omitempty"`
	Diagnostics2D      sweep.Diagnostics  `json:"diagnostics2d"`
	Diagnostics3D      *sweep.Diagnostics `json:"diagnostics3d,omitempty"`
	ElapsedMillisecond int64              `json:"elapsedMs"`
}

// Response is the full result of PreviewScript.
type Response struct {
	ID       string                     `json:"id,omitempty"`
	Outcome  string                     `json:"outcome,omitempty"`
	Meshes   []MeshData                 `json:"meshes"`
	Overlay  []OverlayData              `json:"overlay"`
	Contours *geojson.FeatureCollection `json:"contours,omitempty"`
	Stats    *Stats                     `json:"stats,omitempty"`
	Errors   []ErrorData                `json:"errors"`
	Warnings []ErrorData                `json:"warnings"`
}

func newResponse() Response {
	return Response{
		Meshes:   []MeshData{},
		Overlay:  []OverlayData{},
		Errors:   []ErrorData{},
		Warnings: []ErrorData{},
	}
}

func (r *Response) addError(line int, msg string) {
	r.Errors = append(r.Errors, ErrorData{Line: line, Message: msg})
}

func (r *Response) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, ErrorData{Message: fmt.Sprintf(format, args...)})
}

func errorData(errs []engine.EvalError) []ErrorData {
	return lo.Map(errs, func(e engine.EvalError, _ int) ErrorData {
		return ErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
	})
}

func meshData(meshes []*kernel.Mesh) []MeshData {
	return lo.Map(meshes, func(m *kernel.Mesh, i int) MeshData {
		return MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		}
	})
}

// fill converts a finished preview into resp.
func (s *Service) fill(resp *Response, p *Preview) error {
	resp.ID = p.ID
	resp.Outcome = p.Outcome.String()
	if p.Outcome != sweep.Completed {
		return nil
	}

	job := p.Job
	f := p.TwoD.Field

	stats := &Stats{
		RemovedVolume2D:    p.TwoD.RemovedVolume,
		RemovalPercent2D:   p.TwoD.RemovalPercentage(),
		MaxDepth:           p.TwoD.MaxDepth(),
		Diagnostics2D:      p.TwoD.Report.Diagnostics,
		ElapsedMillisecond: p.Elapsed.Milliseconds(),
	}
	if d := stats.Diagnostics2D; d.Skipped > 0 {
		resp.warn("%d segments skipped: non-finite coordinates", d.Skipped)
	}
	if d := stats.Diagnostics2D; d.Clipped > 0 {
		resp.warn("%d tool positions outside the stock", d.Clipped)
	}

	cells := contour.RemovalOverlay(f, job.Stock.Thickness)
	maxDepth := contour.MaxDepth(cells)
	resp.Overlay = lo.Map(cells, func(c contour.OverlayCell, _ int) OverlayData {
		col := contour.DepthToColor(c.Depth, maxDepth)
		return OverlayData{X: c.Center[0], Y: c.Center[1], Depth: c.Depth, RGBA: [4]float64{col.R, col.G, col.B, col.A}}
	})
	resp.Contours = contour.FeatureCollection(f, contourLevels(job, f.Resolution())...)

	var meshes []*kernel.Mesh
	ghost, err := s.mesher.Stock(job.Stock)
	if err != nil {
		return err
	}
	surface, err := s.mesher.Mesh(f, "heightfield")
	if err != nil {
		return err
	}
	meshes = append(meshes, ghost, surface)

	if r := p.ThreeD; r != nil {
		d := r.Report.Diagnostics
		stats.RemovedVolume3D = r.RemovedVolume
		stats.RemovalPercent3D = r.RemovalPercentage()
		stats.RemovedVoxels = r.RemovedVoxels
		stats.Resolution3D = r.Volume.Resolution()
		stats.Diagnostics3D = &d
		if res := r.Volume.Resolution(); res != job.Resolution3D {
			resp.warn("3d resolution coarsened from %g to %.3g mm to fit the voxel limit", job.Resolution3D, res)
		}
		vm := r.Volume.FaceMesh()
		vm.PartName = "voxels"
		meshes = append(meshes, vm)
	}

	pos := stats.Diagnostics2D.Position
	tool, err := s.mesher.Tool(job.ToolRadius, 2*job.Stock.Thickness, pos.X, pos.Y, job.Stock.TopZ()+pos.Z)
	if err != nil {
		return err
	}
	meshes = append(meshes, tool)

	resp.Meshes = meshData(meshes)
	resp.Stats = stats
	return nil
}

// contourLevels returns one level just above each distinct cutting depth,
// deepest first, so each floor is enclosed by a contour.
func contourLevels(job Job, res float64) []float64 {
	eps := res * 1e-3
	cutting := lo.Filter(job.Segments, func(s toolpath.Segment, _ int) bool {
		return s.Kind.Cutting() && s.Finite()
	})
	heights := lo.FilterMap(cutting, func(s toolpath.Segment, _ int) (float64, bool) {
		h := job.Stock.LocalZ(math.Min(s.Start.Z, s.End.Z))
		h = math.Round(h/eps) * eps
		return h, h < job.Stock.Thickness
	})
	levels := lo.Uniq(heights)
	slices.Sort(levels)
	if len(levels) > maxContourLevels {
		levels = levels[:maxContourLevels]
	}
	return lo.Map(levels, func(h float64, _ int) float64 { return math.Max(h, 0) + eps })
}
