// Package toolpath defines the ordered move list consumed by the stock
// simulators. Segments are produced by an external G-code converter (or the
// scripting engine) and are read-only once built.
package toolpath

import (
	"fmt"
	"math"
)

// Point is a tool position. X and Y are world coordinates; Z is the work Z,
// zero at the top face of the stock.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Scale returns p * s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s, p.Z * s} }

// Len returns the Euclidean length of p.
func (p Point) Len() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// DistXY returns the distance between p and q projected on the XY plane.
func (p Point) DistXY(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
		Z: p.Z + (q.Z-p.Z)*t,
	}
}

// Finite reports whether every coordinate is a finite number.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// Kind tags the segment variant.
type Kind uint8

const (
	Rapid  Kind = iota // non-cutting transit
	Linear             // straight cutting move
	Arc                // circular (or helical) cutting move
)

func (k Kind) String() string {
	switch k {
	case Rapid:
		return "rapid"
	case Linear:
		return "linear"
	case Arc:
		return "arc"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Cutting reports whether the move engages the tool.
func (k Kind) Cutting() bool {
	return k == Linear || k == Arc
}

// Direction is the rotation sense of an arc seen from +Z.
type Direction uint8

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == Clockwise {
		return "cw"
	}
	return "ccw"
}

// Segment is one move. Center, Radius and Direction are meaningful for arcs
// only; Center.Z is ignored. A zero Radius means "derive from Start and
// Center", which is also what the simulators do when both are present.
type Segment struct {
	Kind      Kind      `json:"kind"`
	Start     Point     `json:"start"`
	End       Point     `json:"end"`
	Center    Point     `json:"center,omitempty"`
	Radius    float64   `json:"radius,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// NewRapid returns a non-cutting move.
func NewRapid(from, to Point) Segment {
	return Segment{Kind: Rapid, Start: from, End: to}
}

// NewLinear returns a straight cutting move.
func NewLinear(from, to Point) Segment {
	return Segment{Kind: Linear, Start: from, End: to}
}

// NewArc returns an arc cutting move around center.
func NewArc(from, to, center Point, dir Direction) Segment {
	return Segment{
		Kind:      Arc,
		Start:     from,
		End:       to,
		Center:    center,
		Radius:    from.DistXY(center),
		Direction: dir,
	}
}

// Finite reports whether every coordinate the segment uses is finite.
// Segments that fail this check are skipped by the simulators.
func (s Segment) Finite() bool {
	if !s.Start.Finite() || !s.End.Finite() {
		return false
	}
	if s.Kind == Arc {
		return finite(s.Center.X) && finite(s.Center.Y) && finite(s.Radius)
	}
	return true
}

// Polar describes an arc around its center. Sweep is signed: negative
// for clockwise. Coincident endpoints describe a full circle.
type Polar struct {
	StartAngle  float64
	Sweep       float64
	StartRadius float64
	EndRadius   float64
}

// Polar returns the polar form of an arc segment.
func (s Segment) Polar() Polar {
	a0 := math.Atan2(s.Start.Y-s.Center.Y, s.Start.X-s.Center.X)
	a1 := math.Atan2(s.End.Y-s.Center.Y, s.End.X-s.Center.X)
	sweep := a1 - a0
	if s.Direction == Clockwise {
		for sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	}
	return Polar{
		StartAngle:  a0,
		Sweep:       sweep,
		StartRadius: s.Start.DistXY(s.Center),
		EndRadius:   s.End.DistXY(s.Center),
	}
}

// Length returns the path length of the segment. Arcs are measured along
// the curve in XY with the Z change added in quadrature.
func (s Segment) Length() float64 {
	if s.Kind != Arc {
		return s.Start.Dist(s.End)
	}
	p := s.Polar()
	r := (p.StartRadius + p.EndRadius) / 2
	return math.Hypot(r*math.Abs(p.Sweep), s.End.Z-s.Start.Z)
}

func (s Segment) String() string {
	if s.Kind == Arc {
		return fmt.Sprintf("%s %s %s->%s c%s", s.Kind, s.Direction, s.Start, s.End, s.Center)
	}
	return fmt.Sprintf("%s %s->%s", s.Kind, s.Start, s.End)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
