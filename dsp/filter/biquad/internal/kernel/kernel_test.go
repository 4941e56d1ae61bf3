package kernel

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-cutdrive/internal/cpu"
)

func refProcess(c Coefficients, d0, d1 float64, buf []float64) (float64, float64) {
	for i, x := range buf {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[i] = y
	}

	return d0, d1
}

func TestKernelsMatchReference(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	in := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, -0.1}

	for _, entry := range Global.Entries() {
		t.Run(entry.Name, func(t *testing.T) {
			for n := 0; n <= len(in); n++ {
				got := append([]float64(nil), in[:n]...)
				want := append([]float64(nil), in[:n]...)

				d0g, d1g := entry.ProcessBlock(c, 0.1, -0.05, got)
				d0w, d1w := refProcess(c, 0.1, -0.05, want)

				if math.Abs(d0g-d0w) > 1e-12 || math.Abs(d1g-d1w) > 1e-12 {
					t.Fatalf("n=%d state mismatch: got (%g,%g), want (%g,%g)", n, d0g, d1g, d0w, d1w)
				}
				for i := range got {
					if math.Abs(got[i]-want[i]) > 1e-12 {
						t.Fatalf("n=%d sample %d: got %.15f, want %.15f", n, i, got[i], want[i])
					}
				}
			}
		})
	}
}

func TestLookupForceGeneric(t *testing.T) {
	entry := Global.Lookup(cpu.Features{ForceGeneric: true, HasAVX2: true, HasNEON: true})
	if entry == nil {
		t.Fatal("Lookup returned nil")
	}
	if entry.Name != "generic" {
		t.Fatalf("got %q, want generic", entry.Name)
	}
}

func TestLookupPrefersPriority(t *testing.T) {
	r := &OpRegistry{}
	r.Register(OpEntry{Name: "low", SIMDLevel: cpu.SIMDNone, Priority: 0})
	r.Register(OpEntry{Name: "high", SIMDLevel: cpu.SIMDAVX2, Priority: 20})

	if got := r.Lookup(cpu.Features{HasAVX2: true}); got == nil || got.Name != "high" {
		t.Fatalf("Lookup with AVX2 = %v, want high", got)
	}
	if got := r.Lookup(cpu.Features{}); got == nil || got.Name != "low" {
		t.Fatalf("Lookup without AVX2 = %v, want low", got)
	}
}
