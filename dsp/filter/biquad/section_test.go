package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-cutdrive/internal/testutil"
)

const eps = 1e-12

func TestProcessSample_Identity(t *testing.T) {
	s := NewSection(Identity)
	for i, x := range []float64{1, 0, -1, 0.5, 0.25} {
		if y := s.ProcessSample(x); y != x {
			t.Fatalf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced with x = [1, 0, 0, 0]:
	//   n=0: y=0.25   d0=0.55   d1=0.24
	//   n=1: y=0.55   d0=0.35   d1=-0.022
	//   n=2: y=0.35   d0=0.048  d1=-0.014
	//   n=3: y=0.048
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); math.Abs(y-w) > eps {
			t.Fatalf("n=%d: got %.15f, want %.15f", i, y, w)
		}
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.5, A2: 0.3}
	in := testutil.DeterministicSine(440, 48000, 0.8, 257)

	ref := NewSection(c)
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = ref.ProcessSample(x)
	}

	got := append([]float64(nil), in...)
	blk := NewSection(c)
	blk.ProcessBlock(got[:100])
	blk.ProcessBlock(got[100:])

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
	if blk.State() != ref.State() {
		t.Fatalf("state mismatch: got %v, want %v", blk.State(), ref.State())
	}
}

func TestPackageProcessBlockUsesExternalState(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.5}
	var st State

	buf := []float64{1, 1, 1}
	ProcessBlock(&c, &st, buf)
	testutil.RequireSliceNearlyEqual(t, buf, []float64{0.5, 1, 1}, eps)

	if st[0] != 0.5 {
		t.Fatalf("d0 = %v, want 0.5", st[0])
	}

	st.Reset()
	if st != (State{}) {
		t.Fatalf("Reset left %v", st)
	}
}

func TestCoefficientChecks(t *testing.T) {
	tests := []struct {
		name   string
		c      Coefficients
		finite bool
		stable bool
		silent bool
	}{
		{name: "identity", c: Identity, finite: true, stable: true},
		{name: "zero", c: Coefficients{}, finite: true, stable: true, silent: true},
		{name: "nan", c: Coefficients{B0: math.NaN()}, finite: false, stable: true},
		{name: "pole on circle", c: Coefficients{B0: 1, A2: 1}, finite: true, stable: false},
		{name: "pole outside", c: Coefficients{B0: 1, A1: -2.1, A2: 1.05}, finite: true, stable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsFinite(); got != tt.finite {
				t.Fatalf("IsFinite = %v, want %v", got, tt.finite)
			}
			if got := tt.c.IsStable(); got != tt.stable {
				t.Fatalf("IsStable = %v, want %v", got, tt.stable)
			}
			if got := tt.c.IsSilent(); got != tt.silent {
				t.Fatalf("IsSilent = %v, want %v", got, tt.silent)
			}
		})
	}
}

func TestKernelName(t *testing.T) {
	if KernelName() == "" {
		t.Fatal("no kernel selected")
	}
}
