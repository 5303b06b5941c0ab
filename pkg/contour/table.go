package contour

// Corner bits of a marching-squares cell. A bit is set when the sample at
// that corner lies below the contour level.
const (
	bottomLeft  = 1 << 0
	bottomRight = 1 << 1
	topRight    = 1 << 2
	topLeft     = 1 << 3
)

// Cell edges.
const (
	edgeBottom = iota
	edgeRight
	edgeTop
	edgeLeft
)

// EdgePair is one contour segment inside a cell, running from the crossing
// on edge From to the crossing on edge To. Segments are oriented so the
// region below the level lies on their left; rings around cut pockets come
// out counter-clockwise and rings around uncut islands clockwise.
type EdgePair struct {
	From, To int
}

// cases maps the 4-bit corner pattern to the cell's contour segments.
// The saddles (5 and 10) keep the two below-level corners apart.
var cases = [16][]EdgePair{
	0:  nil,
	1:  {{edgeBottom, edgeLeft}},
	2:  {{edgeRight, edgeBottom}},
	3:  {{edgeRight, edgeLeft}},
	4:  {{edgeTop, edgeRight}},
	5:  {{edgeBottom, edgeLeft}, {edgeTop, edgeRight}},
	6:  {{edgeTop, edgeBottom}},
	7:  {{edgeTop, edgeLeft}},
	8:  {{edgeLeft, edgeTop}},
	9:  {{edgeBottom, edgeTop}},
	10: {{edgeRight, edgeBottom}, {edgeLeft, edgeTop}},
	11: {{edgeRight, edgeTop}},
	12: {{edgeLeft, edgeRight}},
	13: {{edgeBottom, edgeRight}},
	14: {{edgeLeft, edgeBottom}},
	15: nil,
}

// Case returns the segments for a corner pattern. The result must not be
// modified.
func Case(pattern int) []EdgePair {
	return cases[pattern&0xF]
}

// edgeCorners returns the two corners an edge joins as (dx, dy) offsets
// from the cell's bottom-left sample, lower sample first. Both cells
// sharing an edge see the same ordering, so they compute bit-identical
// crossing points.
func edgeCorners(edge int) (a, b [2]int) {
	switch edge {
	case edgeBottom:
		return [2]int{0, 0}, [2]int{1, 0}
	case edgeRight:
		return [2]int{1, 0}, [2]int{1, 1}
	case edgeTop:
		return [2]int{0, 1}, [2]int{1, 1}
	default:
		return [2]int{0, 0}, [2]int{0, 1}
	}
}
