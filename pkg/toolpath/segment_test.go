package toolpath

import (
	"math"
	"testing"
)

func TestKindCutting(t *testing.T) {
	if Rapid.Cutting() {
		t.Error("rapid must not cut")
	}
	if !Linear.Cutting() || !Arc.Cutting() {
		t.Error("linear and arc must cut")
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("unexpected String for unknown kind: %s", Kind(9))
	}
}

func TestSegmentFinite(t *testing.T) {
	ok := NewLinear(Point{}, Point{X: 1})
	if !ok.Finite() {
		t.Error("expected finite segment")
	}
	bad := NewLinear(Point{}, Point{X: math.NaN()})
	if bad.Finite() {
		t.Error("NaN end must not be finite")
	}
	arc := NewArc(Point{X: 1}, Point{Y: 1}, Point{X: math.Inf(1)}, CounterClockwise)
	if arc.Finite() {
		t.Error("infinite center must not be finite")
	}
}

func TestPolarQuarterArcs(t *testing.T) {
	tests := []struct {
		name  string
		dir   Direction
		sweep float64
	}{
		{"ccw quarter", CounterClockwise, math.Pi / 2},
		{"cw three quarters", Clockwise, -3 * math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewArc(Point{X: 10}, Point{Y: 10}, Point{}, tt.dir)
			p := s.Polar()
			if math.Abs(p.Sweep-tt.sweep) > 1e-9 {
				t.Errorf("sweep = %g, want %g", p.Sweep, tt.sweep)
			}
			if p.StartRadius != 10 || math.Abs(p.EndRadius-10) > 1e-12 {
				t.Errorf("radii = %g, %g", p.StartRadius, p.EndRadius)
			}
		})
	}
}

func TestPolarFullCircle(t *testing.T) {
	for _, dir := range []Direction{Clockwise, CounterClockwise} {
		s := NewArc(Point{X: 5}, Point{X: 5}, Point{}, dir)
		if got := math.Abs(s.Polar().Sweep); math.Abs(got-2*math.Pi) > 1e-12 {
			t.Errorf("%s: |sweep| = %g, want 2pi", dir, got)
		}
	}
}

func TestSegmentLength(t *testing.T) {
	line := NewLinear(Point{}, Point{X: 3, Y: 4})
	if line.Length() != 5 {
		t.Errorf("line length = %g, want 5", line.Length())
	}
	arc := NewArc(Point{X: 10}, Point{Y: 10}, Point{}, CounterClockwise)
	want := 10 * math.Pi / 2
	if math.Abs(arc.Length()-want) > 1e-9 {
		t.Errorf("arc length = %g, want %g", arc.Length(), want)
	}
}

func TestBuilderTracksPosition(t *testing.T) {
	b := NewBuilder(Point{Z: 5})
	b.Rapid(Point{X: 10, Y: 10, Z: 5}).
		Line(Point{X: 10, Y: 10, Z: -2}).
		Arc(Point{X: 20, Y: 10, Z: -2}, Point{X: 15, Y: 10}, Clockwise)

	segs := b.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[1].Start != segs[0].End || segs[2].Start != segs[1].End {
		t.Error("segments must chain end to start")
	}
	if segs[2].Radius != 5 {
		t.Errorf("arc radius = %g, want 5", segs[2].Radius)
	}
	if b.Position() != (Point{X: 20, Y: 10, Z: -2}) {
		t.Errorf("position = %s", b.Position())
	}

	b.Line(Point{})
	if len(segs) != 3 {
		t.Error("returned slice must not grow with the builder")
	}
}

func TestAxesResolve(t *testing.T) {
	x := 4.0
	got := Axes{X: &x}.Resolve(Point{X: 1, Y: 2, Z: 3})
	if got != (Point{X: 4, Y: 2, Z: 3}) {
		t.Errorf("Resolve = %s", got)
	}
}
