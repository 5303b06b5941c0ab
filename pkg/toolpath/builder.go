package toolpath

import "github.com/chazu/swarf/pkg/stock"

// Program is a complete preview job description: an optional stock block,
// the tool radius and the ordered move list.
type Program struct {
	Stock      *stock.Material `json:"stock,omitempty"`
	ToolRadius float64         `json:"toolRadius"`
	Segments   []Segment       `json:"segments"`
}

// Builder accumulates segments while tracking the current tool position,
// so each move only needs its destination. Axes left unset on a move keep
// their previous value, the way modal machine coordinates behave.
type Builder struct {
	pos      Point
	segments []Segment
}

// NewBuilder returns a builder whose tool starts at start.
func NewBuilder(start Point) *Builder {
	return &Builder{pos: start}
}

// Position returns the current tool position.
func (b *Builder) Position() Point {
	return b.pos
}

// Axes is a partial destination. Nil fields keep the current coordinate.
type Axes struct {
	X, Y, Z *float64
}

// Resolve fills unset axes from p.
func (a Axes) Resolve(p Point) Point {
	if a.X != nil {
		p.X = *a.X
	}
	if a.Y != nil {
		p.Y = *a.Y
	}
	if a.Z != nil {
		p.Z = *a.Z
	}
	return p
}

// Rapid appends a non-cutting move to dst.
func (b *Builder) Rapid(dst Point) *Builder {
	b.segments = append(b.segments, NewRapid(b.pos, dst))
	b.pos = dst
	return b
}

// Line appends a straight cutting move to dst.
func (b *Builder) Line(dst Point) *Builder {
	b.segments = append(b.segments, NewLinear(b.pos, dst))
	b.pos = dst
	return b
}

// Arc appends an arc cutting move to dst around center.
func (b *Builder) Arc(dst, center Point, dir Direction) *Builder {
	b.segments = append(b.segments, NewArc(b.pos, dst, center, dir))
	b.pos = dst
	return b
}

// Segments returns the accumulated moves. The builder keeps no reference to
// the returned slice's future growth, so later moves do not alter it.
func (b *Builder) Segments() []Segment {
	out := make([]Segment, len(b.segments))
	copy(out, b.segments)
	return out
}

// Len returns the number of accumulated moves.
func (b *Builder) Len() int {
	return len(b.segments)
}
