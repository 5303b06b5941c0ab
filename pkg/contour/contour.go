// Package contour extracts renderable geometry from a height field: closed
// material boundaries at a given height (marching squares), a per-cell
// removal overlay and the colour ramp used to shade it.
package contour

import (
	"github.com/chazu/swarf/pkg/heightfield"
	"github.com/paulmach/orb"
)

// edgeKey names a grid edge of the padded sample lattice: the lower-left
// sample (a, b) and whether the edge runs along X (0) or Y (1). Both cells
// sharing an edge compute the same key.
type edgeKey [3]int

// segment is one oriented contour piece between two crossed edges.
type segment struct {
	from, to         orb.Point
	fromEdge, toEdge edgeKey
}

// Scanner yields the closed contours of a field at one level. It follows
// the bufio.Scanner pattern:
//
//	s := contour.ContoursAt(f, z)
//	for s.Scan() {
//		ring := s.Ring()
//	}
//
// The grid is evaluated on the first call to Scan. A Scanner cannot be
// restarted; call ContoursAt again for a fresh pass.
type Scanner struct {
	f     *heightfield.Field
	level float64

	started bool
	segs    []segment
	used    []bool
	byStart map[edgeKey]int
	next    int
	ring    orb.Ring
}

// ContoursAt returns a scanner over the boundaries where the field crosses
// zLevel (a height above the stock bottom). Samples sit at cell centers and
// the grid is framed by a ring of uncut samples, so every boundary closes.
func ContoursAt(f *heightfield.Field, zLevel float64) *Scanner {
	return &Scanner{f: f, level: zLevel}
}

// Collect drains ContoursAt into a slice.
func Collect(f *heightfield.Field, zLevel float64) []orb.Ring {
	var rings []orb.Ring
	s := ContoursAt(f, zLevel)
	for s.Scan() {
		rings = append(rings, s.Ring())
	}
	return rings
}

// Scan advances to the next contour. It returns false when there are no
// more.
func (s *Scanner) Scan() bool {
	if !s.started {
		s.started = true
		s.march()
	}
	s.ring = nil
	for {
		for s.next < len(s.segs) && s.used[s.next] {
			s.next++
		}
		if s.next >= len(s.segs) {
			s.segs, s.used, s.byStart = nil, nil, nil
			return false
		}
		// A level equal to sample heights can pinch a ring down to no area.
		if r := s.chain(s.next); len(r) >= 4 {
			s.ring = r
			return true
		}
	}
}

// Ring returns the contour found by the last call to Scan. The first and
// last points are equal.
func (s *Scanner) Ring() orb.Ring {
	return s.ring
}

// chain follows segments head to tail from segs[first] until it returns to
// the starting edge. Segments are linked by the grid edge they share, so
// crossings that coincide geometrically (level equal to a sample height)
// still chain in order. Repeated points are dropped.
func (s *Scanner) chain(first int) orb.Ring {
	start := s.segs[first]
	ring := orb.Ring{start.from}

	i := first
	for {
		s.used[i] = true
		seg := s.segs[i]
		if seg.toEdge == start.fromEdge {
			break
		}
		if seg.to != ring[len(ring)-1] {
			ring = append(ring, seg.to)
		}
		j, ok := s.byStart[seg.toEdge]
		if !ok || s.used[j] {
			break
		}
		i = j
	}
	if len(ring) > 1 && ring[len(ring)-1] == start.from {
		ring = ring[:len(ring)-1]
	}
	return append(ring, start.from)
}

// edge returns the key of edge e of cell (a, b).
func edge(a, b, e int) edgeKey {
	c0, c1 := edgeCorners(e)
	axis := 0
	if c1[1] != c0[1] {
		axis = 1
	}
	return edgeKey{a + c0[0], b + c0[1], axis}
}

// sample returns the height at padded grid position (a, b). The padding
// ring sits at full thickness.
func (s *Scanner) sample(a, b int) float64 {
	if a == 0 || b == 0 || a > s.f.Cols() || b > s.f.Rows() {
		return s.f.Stock().Thickness
	}
	return s.f.At(a-1, b-1)
}

// position returns the world XY of padded grid position (a, b).
func (s *Scanner) position(a, b int) orb.Point {
	x, y := s.f.CellCenter(a-1, b-1)
	return orb.Point{x, y}
}

// crossing interpolates where the level crosses the edge of cell (a, b).
func (s *Scanner) crossing(a, b, e int) orb.Point {
	c0, c1 := edgeCorners(e)
	a0, b0 := a+c0[0], b+c0[1]
	a1, b1 := a+c1[0], b+c1[1]
	h0, h1 := s.sample(a0, b0), s.sample(a1, b1)
	p0, p1 := s.position(a0, b0), s.position(a1, b1)
	t := (s.level - h0) / (h1 - h0)
	return orb.Point{
		p0[0] + (p1[0]-p0[0])*t,
		p0[1] + (p1[1]-p0[1])*t,
	}
}

// march runs marching squares over the padded grid and indexes the
// resulting segments by the edge they start on.
func (s *Scanner) march() {
	cols, rows := s.f.Cols()+2, s.f.Rows()+2
	for b := 0; b < rows-1; b++ {
		for a := 0; a < cols-1; a++ {
			pattern := 0
			if s.sample(a, b) < s.level {
				pattern |= bottomLeft
			}
			if s.sample(a+1, b) < s.level {
				pattern |= bottomRight
			}
			if s.sample(a+1, b+1) < s.level {
				pattern |= topRight
			}
			if s.sample(a, b+1) < s.level {
				pattern |= topLeft
			}
			for _, e := range Case(pattern) {
				s.segs = append(s.segs, segment{
					from:     s.crossing(a, b, e.From),
					to:       s.crossing(a, b, e.To),
					fromEdge: edge(a, b, e.From),
					toEdge:   edge(a, b, e.To),
				})
			}
		}
	}
	s.used = make([]bool, len(s.segs))
	s.byStart = make(map[edgeKey]int, len(s.segs))
	for i, seg := range s.segs {
		s.byStart[seg.fromEdge] = i
	}
}
