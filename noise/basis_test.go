package noise

import (
	"errors"
	"math"
	"testing"
)

func TestNewSourceBases(t *testing.T) {
	for _, basis := range []string{"", BasisPerlin, BasisOpenSimplex, BasisGEGL} {
		t.Run(basis, func(t *testing.T) {
			a, err := NewSource(basis, nil, 42)
			if err != nil {
				t.Fatalf("NewSource(%q) failed: %v", basis, err)
			}
			b, err := NewSource(basis, nil, 42)
			if err != nil {
				t.Fatalf("NewSource(%q) failed: %v", basis, err)
			}
			for i := 0; i < 50; i++ {
				x, y, z := float64(i)*0.731, float64(i)*-0.277, 3.5
				va, vb := a.Sample3D(x, y, z), b.Sample3D(x, y, z)
				if math.IsNaN(va) || math.IsInf(va, 0) {
					t.Fatalf("non-finite sample %v at (%v,%v,%v)", va, x, y, z)
				}
				if va != vb {
					t.Fatalf("same seed disagrees at (%v,%v,%v): %v vs %v", x, y, z, va, vb)
				}
			}
		})
	}
}

func TestNewSourcePerlinUsesTable(t *testing.T) {
	src, err := NewSource(BasisPerlin, nil, 0)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	f, ok := src.(*Field)
	if !ok {
		t.Fatalf("expected *Field, got %T", src)
	}
	if f.Table() != CanonicalTable() {
		t.Error("nil table did not select the canonical table")
	}
	if v := src.Sample3D(0.5, 0.5, 0.5); v != -0.25 {
		t.Errorf("Sample3D(0.5,0.5,0.5) = %v, want -0.25", v)
	}
}

func TestNewSourceUnknownBasis(t *testing.T) {
	_, err := NewSource("worley", nil, 0)
	if !errors.Is(err, ErrUnknownBasis) {
		t.Errorf("expected ErrUnknownBasis, got %v", err)
	}
}

func TestFractalOverOpenSimplex(t *testing.T) {
	src, err := NewSource(BasisOpenSimplex, nil, 7)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	fr := Fractal{Octaves: 1, Persistence: 2, Gain: 0.5}
	v, err := fr.Sample(src, 0.4, 0.8, 1.2)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if want := src.Sample3D(0.4, 0.8, 1.2); v != want {
		t.Errorf("single octave over opensimplex: got %v, want %v", v, want)
	}
}
