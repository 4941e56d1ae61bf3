package cut

import (
	"testing"

	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
	"github.com/cwbudde/algo-cutdrive/internal/testutil"
)

func TestChainActiveStagesFollowSlope(t *testing.T) {
	var d Designer

	for _, slope := range Slopes {
		var c Chain
		c.Update(d.Design(LowCut, 100, slope, 48000), slope)

		if got := c.ActiveStages(); got != int(slope)+1 {
			t.Fatalf("%v: %d active stages, want %d", slope, got, int(slope)+1)
		}
		for i := range MaxStages {
			if c.Stage(i).Bypassed() != (i > int(slope)) {
				t.Fatalf("%v: stage %d bypass=%v", slope, i, c.Stage(i).Bypassed())
			}
		}
	}
}

func TestChainMatchesSectionCascade(t *testing.T) {
	const sr = 48000.0
	var d Designer
	var c Chain

	c.Update(d.Design(HighCut, 2000, Slope36, sr), Slope36)

	in := testutil.DeterministicNoise(3, 0.5, 600)
	got := append([]float64(nil), in...)
	c.Process(got[:256])
	c.Process(got[256:])

	want := append([]float64(nil), in...)
	for _, coeffs := range Design(HighCut, 2000, Slope36, sr) {
		biquad.NewSection(coeffs).ProcessBlock(want)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestChainKeepsStateAcrossUpdates(t *testing.T) {
	var d Designer
	var c Chain

	c.Update(d.Design(LowCut, 100, Slope24, 48000), Slope24)
	c.Process(testutil.DeterministicSine(50, 48000, 0.7, 128))
	before := c.Stage(0).State()
	if before == (biquad.State{}) {
		t.Fatal("expected non-zero state after processing")
	}

	c.Update(d.Design(LowCut, 400, Slope24, 48000), Slope24)
	if c.Stage(0).State() != before {
		t.Fatal("coefficient update reset delay state")
	}

	c.Reset()
	if c.Stage(0).State() != (biquad.State{}) {
		t.Fatal("Reset left delay state")
	}
}

func TestChainUpdateFilterNilKeepsCoefficients(t *testing.T) {
	var c Chain
	coeffs := &biquad.Coefficients{B0: 0.5}

	c.UpdateFilter(2, coeffs, Slope48)
	c.UpdateFilter(2, nil, Slope24)

	if got := c.Stage(2).Coefficients(); got != *coeffs {
		t.Fatalf("coefficients = %+v, want %+v", got, *coeffs)
	}
	if !c.Stage(2).Bypassed() {
		t.Fatal("stage 2 should be bypassed at 24 dB/oct")
	}

	// Out-of-range slots are ignored.
	c.UpdateFilter(MaxStages, coeffs, Slope48)
	c.UpdateFilter(-1, coeffs, Slope48)
}

func TestEmptyStagePassesThrough(t *testing.T) {
	var c Chain
	in := testutil.DeterministicNoise(1, 1, 32)
	got := append([]float64(nil), in...)

	c.Process(got)
	testutil.RequireSliceNearlyEqual(t, got, in, 0)

	if c.Stage(0).Coefficients() != biquad.Identity {
		t.Fatal("empty stage should report identity")
	}
}

func TestChainProcessDoesNotAllocate(t *testing.T) {
	var d Designer
	var c Chain
	c.Update(d.Design(LowCut, 80, Slope48, 48000), Slope48)
	buf := make([]float64, 512)

	allocs := testing.AllocsPerRun(100, func() {
		c.Process(buf)
	})
	if allocs != 0 {
		t.Fatalf("Chain.Process allocated %v times", allocs)
	}
}

func TestStageTailFlushesToZero(t *testing.T) {
	var st Stage
	c := Design(LowCut, 100, Slope12, 48000)[0]
	st.SetCoefficients(&c)

	buf := make([]float64, 512)
	buf[0] = 1
	st.Process(buf)

	if st.State() == (biquad.State{}) {
		t.Fatal("impulse left no state")
	}

	for range 60 {
		clear(buf)
		st.Process(buf)
	}

	if got := st.State(); got != (biquad.State{}) {
		t.Fatalf("state after a long silence = %v, want exact zero", got)
	}
}
