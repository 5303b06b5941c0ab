// Package heightfield is the 2D stock simulator. The stock is a grid of
// columns, each holding the remaining material height above the stock
// bottom. Cutting moves lower columns under the tool footprint; nothing
// ever raises them.
package heightfield

import (
	"fmt"
	"math"

	"github.com/chazu/swarf/pkg/stock"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
)

// Field is a row-major grid of remaining heights. Cell (i, j) covers
// [Origin.X+i*res, Origin.X+(i+1)*res) × [Origin.Y+j*res, Origin.Y+(j+1)*res).
// The last row and column may extend past the stock edge when the stock
// dimensions are not multiples of the resolution.
type Field struct {
	stock   stock.Material
	res     float64
	cols    int
	rows    int
	heights []float64
}

// DefaultMaxCells is the grid ceiling used when none is given: 64 Mi
// columns, 512 MiB of heights.
const DefaultMaxCells int64 = 64 << 20

// New returns a field for m with every cell at full thickness, limited to
// DefaultMaxCells. Invalid stock or resolution is reported before anything
// is allocated.
func New(m stock.Material, resolution float64) (*Field, error) {
	return NewLimited(m, resolution, DefaultMaxCells)
}

// NewLimited is New with the cell count checked against maxCells
// (DefaultMaxCells when <= 0) before allocation.
func NewLimited(m stock.Material, resolution float64, maxCells int64) (*Field, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := stock.CheckPositive("resolution", resolution); err != nil {
		return nil, err
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	fc, fr := math.Ceil(m.Width/resolution), math.Ceil(m.Height/resolution)
	if total := fc * fr; total > float64(maxCells) {
		return nil, fmt.Errorf("heightfield: %gx%g grid: %w", fc, fr, &stock.ResourceError{
			Voxels:     total,
			Limit:      maxCells,
			Resolution: resolution,
		})
	}
	cols, rows := int(fc), int(fr)

	f := &Field{
		stock:   m,
		res:     resolution,
		cols:    cols,
		rows:    rows,
		heights: make([]float64, cols*rows),
	}
	for i := range f.heights {
		f.heights[i] = m.Thickness
	}
	return f, nil
}

// Stock returns the material the field was built for.
func (f *Field) Stock() stock.Material { return f.stock }

// Resolution returns the cell size in mm.
func (f *Field) Resolution() float64 { return f.res }

// Cols returns the number of cells along X.
func (f *Field) Cols() int { return f.cols }

// Rows returns the number of cells along Y.
func (f *Field) Rows() int { return f.rows }

// Heights returns the backing row-major slice. Callers must not modify it.
func (f *Field) Heights() []float64 { return f.heights }

// At returns the height of cell (i, j). Indices must be in range.
func (f *Field) At(i, j int) float64 {
	return f.heights[j*f.cols+i]
}

// CellIndex maps a world point to the cell containing it. Points off the
// grid map to the nearest edge cell.
func (f *Field) CellIndex(x, y float64) (i, j int) {
	i = int(math.Floor((x - f.stock.Origin.X) / f.res))
	j = int(math.Floor((y - f.stock.Origin.Y) / f.res))
	return lo.Clamp(i, 0, f.cols-1), lo.Clamp(j, 0, f.rows-1)
}

// CellCenter returns the world XY of the center of cell (i, j).
func (f *Field) CellCenter(i, j int) (x, y float64) {
	return f.stock.Origin.X + (float64(i)+0.5)*f.res,
		f.stock.Origin.Y + (float64(j)+0.5)*f.res
}

// HeightAt returns the remaining height of the cell under (x, y).
func (f *Field) HeightAt(x, y float64) float64 {
	i, j := f.CellIndex(x, y)
	return f.At(i, j)
}

// SetHeight sets the cell under (x, y) to z clamped into [0, Thickness].
func (f *Field) SetHeight(x, y, z float64) {
	i, j := f.CellIndex(x, y)
	f.heights[j*f.cols+i] = lo.Clamp(z, 0, f.stock.Thickness)
}

// cellArea returns the area of cell (i, j) that lies on the stock.
func (f *Field) cellArea(i, j int) float64 {
	w := math.Min(f.res, f.stock.Width-float64(i)*f.res)
	h := math.Min(f.res, f.stock.Height-float64(j)*f.res)
	return w * h
}

// Bound returns the stock footprint in world XY.
func (f *Field) Bound() orb.Bound {
	o := f.stock.Origin
	return orb.Bound{
		Min: orb.Point{o.X, o.Y},
		Max: orb.Point{o.X + f.stock.Width, o.Y + f.stock.Height},
	}
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := *f
	c.heights = make([]float64, len(f.heights))
	copy(c.heights, f.heights)
	return &c
}

// lower applies a tool at (cx, cy) cutting down to height h: every cell
// whose center lies within r of the tool axis drops to h if it is higher.
func (f *Field) lower(cx, cy, r, h float64) {
	lx := (cx - f.stock.Origin.X) / f.res
	ly := (cy - f.stock.Origin.Y) / f.res
	rc := r / f.res

	i0 := max(0, int(math.Floor(lx-rc-0.5)))
	i1 := min(f.cols-1, int(math.Ceil(lx+rc-0.5)))
	j0 := max(0, int(math.Floor(ly-rc-0.5)))
	j1 := min(f.rows-1, int(math.Ceil(ly+rc-0.5)))

	r2 := r * r
	for j := j0; j <= j1; j++ {
		_, y := f.CellCenter(0, j)
		dy := y - cy
		row := f.heights[j*f.cols : (j+1)*f.cols]
		for i := i0; i <= i1; i++ {
			x, _ := f.CellCenter(i, j)
			dx := x - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			if h < row[i] {
				row[i] = h
			}
		}
	}
}
