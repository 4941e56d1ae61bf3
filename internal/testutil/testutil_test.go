package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 0.5, 48)
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-0.5) > 1e-12 {
		t.Fatalf("quarter period = %v, want 0.5", s[12])
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(7, 1, 64)
	b := DeterministicNoise(7, 1, 64)
	RequireSliceNearlyEqual(t, a, b, 0)

	for _, v := range a {
		if v < -1 || v > 1 {
			t.Fatalf("sample %v out of range", v)
		}
	}
}

func TestImpulseAndDC(t *testing.T) {
	RequireSliceNearlyEqual(t, Impulse(3, 1), []float64{0, 1, 0}, 0)
	RequireSilent(t, Impulse(3, 5))
	RequireSliceNearlyEqual(t, DC(0.25, 2), []float64{0.25, 0.25}, 0)
}

func TestPlanarCopies(t *testing.T) {
	src := []float64{1, 2}
	p := Planar(src, src)
	p[0][0] = 9
	if src[0] != 1 || p[1][0] != 1 {
		t.Fatal("Planar must copy each channel")
	}
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Fatalf("diff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
