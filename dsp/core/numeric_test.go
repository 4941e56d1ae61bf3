package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo, hi   float64
		expected float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, expected: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, expected: 0},
		{name: "above", value: 2, lo: 0, hi: 1, expected: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, expected: 1},
		{name: "nan", value: math.NaN(), lo: 10, hi: 20000, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDBConversions(t *testing.T) {
	db := LinearToDB(DBToLinear(-6))
	if math.Abs(db+6) > 1e-10 {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if DBToLinear(0) != 1 {
		t.Fatalf("DBToLinear(0) = %v, want 1", DBToLinear(0))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestGainToDB(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 1, want: 0},
		{in: 0.5, want: 20 * math.Log10(0.5)},
		{in: 0, want: SilenceDB},
		{in: -1, want: SilenceDB},
		{in: math.NaN(), want: SilenceDB},
		{in: 1e-9, want: SilenceDB},
	}

	for _, tt := range tests {
		if got := GainToDB(tt.in, SilenceDB); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("GainToDB(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFlushDenormals(t *testing.T) {
	if FlushDenormals(1e-35) != 0 {
		t.Fatal("expected tiny value to flush")
	}
	if FlushDenormals(1e-3) != 1e-3 {
		t.Fatal("expected normal value to pass")
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite([]float64{0, 1, -1, 1e300}) {
		t.Fatal("finite block reported non-finite")
	}
	if AllFinite([]float64{0, math.NaN()}) {
		t.Fatal("NaN not detected")
	}
	if AllFinite([]float64{math.Inf(1), math.Inf(-1)}) {
		t.Fatal("opposite infinities not detected")
	}
	if !AllFinite(nil) {
		t.Fatal("empty block should be finite")
	}
}
