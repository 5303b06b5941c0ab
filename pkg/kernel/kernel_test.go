package kernel

import (
	"math"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshSurfaceArea(t *testing.T) {
	// Unit square in the XY plane as two triangles.
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
	if got := m.SurfaceArea(); math.Abs(got-1) > 1e-9 {
		t.Errorf("SurfaceArea() = %g, want 1", got)
	}
	if got := (&Mesh{}).SurfaceArea(); got != 0 {
		t.Errorf("empty SurfaceArea() = %g, want 0", got)
	}
}

// --- Solid helpers ---

// slab is a Solid filling z <= top inside a unit footprint.
type slab struct {
	top float64
}

func (s slab) BoundingBox() (min, max [3]float64) {
	return [3]float64{0, 0, 0}, [3]float64{1, 2, s.top}
}

func (s slab) Evaluate(x, y, z float64) float64 {
	return z - s.top
}

var _ Solid = slab{}

func TestBounds(t *testing.T) {
	got := Bounds(slab{top: 3})
	if got != [3]float64{1, 2, 3} {
		t.Errorf("Bounds() = %v, want [1 2 3]", got)
	}
}

func TestSlabSign(t *testing.T) {
	s := slab{top: 3}
	tests := []struct {
		name   string
		z      float64
		inside bool
	}{
		{"below top", 1, true},
		{"above top", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Evaluate(0.5, 0.5, tt.z) < 0; got != tt.inside {
				t.Errorf("inside = %v, want %v", got, tt.inside)
			}
		})
	}
}
