package contour

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/chazu/swarf/pkg/heightfield"
	"github.com/chazu/swarf/pkg/stock"
	"github.com/chazu/swarf/pkg/sweep"
	"github.com/chazu/swarf/pkg/toolpath"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func newField(t *testing.T, w, h, th, res float64) *heightfield.Field {
	t.Helper()
	m, err := stock.New(w, h, th, stock.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	f, err := heightfield.New(m, res)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCaseTable(t *testing.T) {
	corner := func(pattern int, c [2]int) bool {
		switch c {
		case [2]int{0, 0}:
			return pattern&bottomLeft != 0
		case [2]int{1, 0}:
			return pattern&bottomRight != 0
		case [2]int{1, 1}:
			return pattern&topRight != 0
		}
		return pattern&topLeft != 0
	}
	for pattern := 0; pattern < 16; pattern++ {
		crossed := map[int]bool{}
		for e := edgeBottom; e <= edgeLeft; e++ {
			a, b := edgeCorners(e)
			if corner(pattern, a) != corner(pattern, b) {
				crossed[e] = true
			}
		}
		used := map[int]int{}
		for _, p := range Case(pattern) {
			used[p.From]++
			used[p.To]++
		}
		if len(used) != len(crossed) {
			t.Errorf("pattern %d: uses %d edges, %d are crossed", pattern, len(used), len(crossed))
		}
		for e, n := range used {
			if !crossed[e] || n != 1 {
				t.Errorf("pattern %d: edge %d used %d times, crossed=%v", pattern, e, n, crossed[e])
			}
		}
	}
}

func TestSingleCellDiamond(t *testing.T) {
	f := newField(t, 10, 10, 10, 1)
	f.SetHeight(4.5, 4.5, 0)

	rings := Collect(f, 5)
	if len(rings) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(rings))
	}
	r := rings[0]
	if len(r) != 5 || !r.Closed() {
		t.Fatalf("expected closed 4-point diamond, got %v", r)
	}
	if a := planar.Area(r); math.Abs(a-0.5) > 1e-9 {
		t.Errorf("area = %g, want 0.5", a)
	}
	if Kind(r) != KindPocket {
		t.Errorf("single cut cell should be a pocket")
	}
	for _, p := range r {
		if d := math.Hypot(p[0]-4.5, p[1]-4.5); math.Abs(d-0.5) > 1e-9 {
			t.Errorf("point %v at distance %g from cell center, want 0.5", p, d)
		}
	}
}

func TestIslandWinding(t *testing.T) {
	f := newField(t, 20, 20, 10, 1)
	for j := 0; j < f.Rows(); j++ {
		for i := 0; i < f.Cols(); i++ {
			x, y := f.CellCenter(i, j)
			if math.Abs(x-10) < 3 && math.Abs(y-10) < 3 {
				continue
			}
			f.SetHeight(x, y, 0)
		}
	}
	var pockets, islands int
	for _, r := range Collect(f, 5) {
		switch Kind(r) {
		case KindPocket:
			pockets++
		case KindIsland:
			islands++
		}
	}
	if pockets != 1 || islands != 1 {
		t.Errorf("pockets, islands = %d, %d, want 1, 1", pockets, islands)
	}
}

func TestQuarterArcContourIsContinuous(t *testing.T) {
	const res = 0.5
	f := newField(t, 60, 60, 10, res)
	segs := []toolpath.Segment{
		toolpath.NewArc(
			toolpath.Point{X: 50, Y: 10, Z: -3},
			toolpath.Point{X: 10, Y: 50, Z: -3},
			toolpath.Point{X: 10, Y: 10},
			toolpath.CounterClockwise,
		),
	}
	if _, err := heightfield.Sweep(context.Background(), f, segs, 2, sweep.Options{}); err != nil {
		t.Fatal(err)
	}

	rings := Collect(f, 8.5)
	if len(rings) != 1 {
		t.Fatalf("expected one continuous boundary, got %d rings", len(rings))
	}
	r := rings[0]
	if !r.Closed() {
		t.Fatal("ring is not closed")
	}
	for i := 1; i < len(r); i++ {
		if d := planar.Distance(r[i-1], r[i]); d > res*math.Sqrt2+1e-9 {
			t.Fatalf("gap %g between points %d and %d", d, i-1, i)
		}
	}
	// The slot is about 4 mm wide along a quarter circle of radius 40.
	want := 4 * 40 * math.Pi / 2
	if a := planar.Area(r); math.Abs(a-want)/want > 0.15 {
		t.Errorf("area = %g, want about %g", a, want)
	}
}

func TestContourAtSampleHeights(t *testing.T) {
	const res = 1.0
	f := newField(t, 100, 100, 10, res)
	segs := []toolpath.Segment{
		toolpath.NewRapid(toolpath.Point{X: 10, Y: 50, Z: 5}, toolpath.Point{X: 10, Y: 50, Z: 0}),
		toolpath.NewLinear(toolpath.Point{X: 10, Y: 50, Z: 0}, toolpath.Point{X: 10, Y: 50, Z: -5}),
		toolpath.NewLinear(toolpath.Point{X: 10, Y: 50, Z: -5}, toolpath.Point{X: 90, Y: 50, Z: -5}),
	}
	if _, err := heightfield.Sweep(context.Background(), f, segs, 2, sweep.Options{}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		level float64
		rings int
	}{
		{"stock top", 10, 1},
		{"between", 7.5, 1},
		{"trough floor", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rings := Collect(f, tt.level)
			if len(rings) != tt.rings {
				t.Fatalf("got %d rings, want %d", len(rings), tt.rings)
			}
			for _, r := range rings {
				if !r.Closed() {
					t.Fatal("ring is not closed")
				}
				if len(r) < 4 {
					t.Fatalf("degenerate ring %v", r)
				}
				for i := 1; i < len(r); i++ {
					if d := planar.Distance(r[i-1], r[i]); d > res*math.Sqrt2+1e-9 || d == 0 {
						t.Fatalf("gap %g between points %d and %d", d, i-1, i)
					}
				}
				if Kind(r) != KindPocket {
					t.Errorf("trough boundary should be a pocket")
				}
			}
		})
	}
}

func TestScannerUncutField(t *testing.T) {
	f := newField(t, 10, 10, 10, 1)
	s := ContoursAt(f, 5)
	if s.Scan() {
		t.Fatalf("uncut field produced a contour: %v", s.Ring())
	}
	if s.Scan() {
		t.Error("exhausted scanner must stay exhausted")
	}
	if s.Ring() != nil {
		t.Error("Ring after exhaustion should be nil")
	}
}

func TestScannerIsLazy(t *testing.T) {
	f := newField(t, 10, 10, 10, 1)
	s := ContoursAt(f, 5)
	f.SetHeight(2.5, 2.5, 0)
	if !s.Scan() {
		t.Fatal("scanner should see cuts made before the first Scan")
	}
}

func TestRemovalOverlay(t *testing.T) {
	f := newField(t, 10, 10, 10, 1)
	f.SetHeight(3.5, 6.5, 4)
	f.SetHeight(7.5, 1.5, 9)

	cells := RemovalOverlay(f, 10)
	if len(cells) != 2 {
		t.Fatalf("expected 2 overlay cells, got %d", len(cells))
	}
	if MaxDepth(cells) != 6 {
		t.Errorf("MaxDepth = %g, want 6", MaxDepth(cells))
	}
	for _, c := range cells {
		if c.Center == (orb.Point{3.5, 6.5}) && c.Depth != 6 {
			t.Errorf("depth at %v = %g, want 6", c.Center, c.Depth)
		}
	}
}

func TestDepthToColor(t *testing.T) {
	shallow := DepthToColor(1, 10)
	deep := DepthToColor(10, 10)
	if !(shallow.R > deep.R && shallow.G > deep.G && shallow.B > deep.B) {
		t.Errorf("deep cut %v should be darker than shallow cut %v", deep, shallow)
	}
	if shallow.A != 0.5 || deep.A != 0.5 {
		t.Errorf("alpha = %g, %g, want 0.5", shallow.A, deep.A)
	}
	if c := DepthToColor(0, 10); c.A != 0 {
		t.Errorf("zero depth should be transparent, got %v", c)
	}
	if c := DepthToColor(20, 10); c != deep {
		t.Errorf("depth beyond max = %v, want %v", c, deep)
	}
	if math.Abs(deep.R-lightBlue.R/2) > 1e-12 {
		t.Errorf("deepest shade R = %g, want %g", deep.R, lightBlue.R/2)
	}
}

func TestPaletteGamma(t *testing.T) {
	p := DefaultPalette
	p.Gamma = 2
	linear := DefaultPalette.Color(5, 10)
	curved := p.Color(5, 10)
	if !(curved.R > linear.R) {
		t.Errorf("gamma 2 should keep mid depths lighter: %v vs %v", curved, linear)
	}
}

func TestFeatureCollection(t *testing.T) {
	f := newField(t, 10, 10, 10, 1)
	f.SetHeight(4.5, 4.5, 0)

	fc := FeatureCollection(f, 5, 20)
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	feat := fc.Features[0]
	if feat.Properties["z"] != 5.0 || feat.Properties["kind"] != KindPocket {
		t.Errorf("properties = %v", feat.Properties)
	}
	if _, err := json.Marshal(fc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}
