package stock

import (
	"errors"
	"math"
	"testing"
)

func TestNewMaterial(t *testing.T) {
	m, err := New(100, 200, 10, Vec3{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Center() != (Vec3{X: 50, Y: 100, Z: 5}) {
		t.Errorf("Center = %+v", m.Center())
	}
	if m.TopZ() != 10 {
		t.Errorf("TopZ = %g, want 10", m.TopZ())
	}
	if m.Volume() != 200000 {
		t.Errorf("Volume = %g, want 200000", m.Volume())
	}
}

func TestMaterialContains(t *testing.T) {
	m := Material{Width: 100, Height: 100, Thickness: 10}
	tests := []struct {
		p    Vec3
		want bool
	}{
		{Vec3{X: 50, Y: 50, Z: 5}, true},
		{Vec3{X: -1, Y: 50, Z: 5}, false},
		{Vec3{X: 50, Y: 101, Z: 5}, false},
		{Vec3{X: 50, Y: 50, Z: 11}, false},
	}
	for _, tt := range tests {
		if got := m.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestMaterialValidate(t *testing.T) {
	tests := []struct {
		name  string
		m     Material
		field string
	}{
		{"zero width", Material{Width: 0, Height: 1, Thickness: 1}, "stock width"},
		{"negative height", Material{Width: 1, Height: -2, Thickness: 1}, "stock height"},
		{"zero thickness", Material{Width: 1, Height: 1, Thickness: 0}, "stock thickness"},
		{"nan width", Material{Width: math.NaN(), Height: 1, Thickness: 1}, "stock width"},
		{"inf height", Material{Width: 1, Height: math.Inf(1), Thickness: 1}, "stock height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestResourceErrorIs(t *testing.T) {
	err := error(&ResourceError{Voxels: 1e12, Limit: 1 << 20, Resolution: 0.01})
	if !errors.Is(err, ErrResource) {
		t.Fatal("expected ErrResource")
	}
	if errors.Is(err, ErrConfiguration) {
		t.Fatal("resource error must not match ErrConfiguration")
	}
}

func TestLocalZ(t *testing.T) {
	m := Material{Width: 1, Height: 1, Thickness: 10}
	if got := m.LocalZ(-5); got != 5 {
		t.Errorf("LocalZ(-5) = %g, want 5", got)
	}
	if got := m.LocalZ(0); got != 10 {
		t.Errorf("LocalZ(0) = %g, want 10", got)
	}
}
