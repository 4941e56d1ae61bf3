package cut

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/design/pass"
)

// Cutoff limits in Hz.
const (
	MinFreq = 10.0
	MaxFreq = 20000.0
)

// ChainSettings is the cut-filter part of one parameter snapshot.
type ChainSettings struct {
	LowCutFreq      float64
	HighCutFreq     float64
	LowCutSlope     Slope
	HighCutSlope    Slope
	LowCutBypassed  bool
	HighCutBypassed bool
}

// DefaultChainSettings returns a fully open filter pair.
func DefaultChainSettings() ChainSettings {
	return ChainSettings{
		LowCutFreq:  MinFreq,
		HighCutFreq: MaxFreq,
	}
}

// Design returns slope.Sections() biquad sections of an order
// 2*slope.Sections() Butterworth highpass (LowCut) or lowpass (HighCut).
//
// freq must lie in [MinFreq, MaxFreq] and sampleRate must be positive. In
// release builds out-of-range values are clamped, a NaN cutoff takes the
// kind's open position and a bad sample rate yields identity sections;
// builds tagged cutdebug panic instead. Sections that come out degenerate
// (cutoff at or above Nyquist, non-finite, silent or unstable) are replaced
// by biquad.Identity.
//
// The result depends only on the arguments.
func Design(kind Kind, freq float64, slope Slope, sampleRate float64) []biquad.Coefficients {
	var bank [MaxStages]biquad.Coefficients
	n := designInto(&bank, kind, freq, slope, sampleRate)

	out := make([]biquad.Coefficients, n)
	copy(out, bank[:n])

	return out
}

func designInto(dst *[MaxStages]biquad.Coefficients, kind Kind, freq float64, slope Slope, sampleRate float64) int {
	freq, slope, ok := checkArgs(kind, freq, slope, sampleRate)
	n := slope.Sections()

	if !ok {
		for i := range n {
			dst[i] = biquad.Identity
		}

		return n
	}

	if kind == HighCut {
		pass.ButterworthLPInto(dst[:n], freq, slope.Order(), sampleRate)
	} else {
		pass.ButterworthHPInto(dst[:n], freq, slope.Order(), sampleRate)
	}

	for i := range n {
		if !usable(&dst[i]) {
			dst[i] = biquad.Identity
		}
	}

	return n
}

func usable(c *biquad.Coefficients) bool {
	return c.IsFinite() && c.IsStable() && !c.IsSilent()
}

// checkArgs enforces the factory preconditions. ok is false when no usable
// design exists for sampleRate.
func checkArgs(kind Kind, freq float64, slope Slope, sampleRate float64) (float64, Slope, bool) {
	if !slope.Valid() {
		if debugContracts {
			panic(fmt.Sprintf("cut: slope %d out of range", int(slope)))
		}

		slope = slope.clamp()
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		if debugContracts {
			panic(fmt.Sprintf("cut: sample rate %v must be positive and finite", sampleRate))
		}

		return freq, slope, false
	}

	if math.IsNaN(freq) || freq < MinFreq || freq > MaxFreq {
		if debugContracts {
			panic(fmt.Sprintf("cut: %v cutoff %v outside [%v, %v]", kind, freq, MinFreq, MaxFreq))
		}

		switch {
		case math.IsNaN(freq) && kind == HighCut:
			freq = MaxFreq
		case math.IsNaN(freq), freq < MinFreq:
			freq = MinFreq
		default:
			freq = MaxFreq
		}
	}

	return freq, slope, true
}
