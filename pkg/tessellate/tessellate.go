// Package tessellate turns toolpath moves into polylines and evenly spaced
// samples. Arcs are split into chords whose deviation from the true curve is
// bounded by a chord tolerance; the 2D and 3D simulators both sample through
// this package so their arc handling cannot drift apart.
package tessellate

import (
	"math"

	"github.com/chazu/swarf/pkg/toolpath"
)

// maxStepAngle caps the angular step so very coarse tolerances still give
// a recognisable arc.
const maxStepAngle = math.Pi / 4

// StepAngle returns the largest angular step (radians) for which the chord
// of a circle of the given radius stays within tol of the arc. The sagitta
// of a chord spanning angle a is r(1 - cos(a/2)).
func StepAngle(radius, tol float64) float64 {
	if !(radius > 0) || !(tol > 0) || tol >= radius {
		return maxStepAngle
	}
	a := 2 * math.Acos(1-tol/radius)
	if a > maxStepAngle || math.IsNaN(a) {
		return maxStepAngle
	}
	return a
}

// Arc returns the chord-bounded polyline of an arc segment, including both
// endpoints. Radius and Z are interpolated linearly between the endpoints so
// helical and slightly inconsistent arcs still end exactly on seg.End.
func Arc(seg toolpath.Segment, tol float64) []toolpath.Point {
	p := seg.Polar()
	rmax := math.Max(p.StartRadius, p.EndRadius)
	if rmax == 0 {
		return []toolpath.Point{seg.Start, seg.End}
	}

	n := int(math.Ceil(math.Abs(p.Sweep) / StepAngle(rmax, tol)))
	if n < 1 {
		n = 1
	}

	pts := make([]toolpath.Point, 0, n+1)
	pts = append(pts, seg.Start)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		a := p.StartAngle + p.Sweep*t
		r := p.StartRadius + (p.EndRadius-p.StartRadius)*t
		pts = append(pts, toolpath.Point{
			X: seg.Center.X + r*math.Cos(a),
			Y: seg.Center.Y + r*math.Sin(a),
			Z: seg.Start.Z + (seg.End.Z-seg.Start.Z)*t,
		})
	}
	return append(pts, seg.End)
}

// Polyline returns the vertices of any segment: arcs via Arc, everything
// else as its two endpoints.
func Polyline(seg toolpath.Segment, tol float64) []toolpath.Point {
	if seg.Kind == toolpath.Arc {
		return Arc(seg, tol)
	}
	return []toolpath.Point{seg.Start, seg.End}
}

// Resample walks a polyline and yields points spaced no farther apart than
// maxStep, starting with the first vertex and ending with the last. It
// returns false if yield asked to stop. A non-positive or non-finite maxStep
// yields the vertices only.
func Resample(pts []toolpath.Point, maxStep float64, yield func(toolpath.Point) bool) bool {
	if len(pts) == 0 {
		return true
	}
	if !yield(pts[0]) {
		return false
	}
	valid := maxStep > 0 && !math.IsInf(maxStep, 0)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := a.Dist(b)
		if d == 0 {
			continue
		}
		n := 1
		if valid {
			n = int(math.Ceil(d / maxStep))
		}
		for k := 1; k <= n; k++ {
			q := b
			if k < n {
				q = a.Lerp(b, float64(k)/float64(n))
			}
			if !yield(q) {
				return false
			}
		}
	}
	return true
}

// Count returns how many points Resample would yield.
func Count(pts []toolpath.Point, maxStep float64) int {
	n := 0
	Resample(pts, maxStep, func(toolpath.Point) bool {
		n++
		return true
	})
	return n
}
