package pass

import (
	"math"

	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
)

// butterworthQ returns the Q of biquad section index (0 .. order/2-1) of an
// order-N Butterworth prototype: 1 / (2 sin(pi (2i+1) / 2N)).
func butterworthQ(order, index int) float64 {
	s := math.Sin(math.Pi * float64(2*index+1) / (2 * float64(order)))
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// firstOrder designs the real-pole section of an odd-order cascade.
func firstOrder(freq, sampleRate float64, highpass bool) biquad.Coefficients {
	if !(sampleRate > 0) || !(freq > 0) || freq >= sampleRate/2 {
		return biquad.Coefficients{}
	}

	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	if highpass {
		return biquad.Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm}
	}

	return biquad.Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm}
}
