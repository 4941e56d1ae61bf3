package pass

import (
	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/design"
)

// Sections returns the number of biquad sections of an order-N cascade.
func Sections(order int) int {
	if order <= 0 {
		return 0
	}

	return (order + 1) / 2
}

// ButterworthLP designs an order-N lowpass Butterworth cascade. Odd orders
// end with a first-order section (B2 = A2 = 0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	out := make([]biquad.Coefficients, Sections(order))
	ButterworthLPInto(out, freq, order, sampleRate)

	return out
}

// ButterworthHP designs an order-N highpass Butterworth cascade.
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	out := make([]biquad.Coefficients, Sections(order))
	ButterworthHPInto(out, freq, order, sampleRate)

	return out
}

// ButterworthLPInto writes the lowpass cascade into dst and returns the number
// of sections written. It does not allocate; dst must hold Sections(order)
// entries or the design is truncated.
func ButterworthLPInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) int {
	return butterworthInto(dst, freq, order, sampleRate, false)
}

// ButterworthHPInto is the highpass counterpart of ButterworthLPInto.
func ButterworthHPInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) int {
	return butterworthInto(dst, freq, order, sampleRate, true)
}

func butterworthInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64, highpass bool) int {
	n := 0

	// Sections run from the lowest to the highest Q so early stages do not
	// carry the resonant peak.
	for i := order/2 - 1; i >= 0 && n < len(dst); i-- {
		q := butterworthQ(order, i)
		if highpass {
			dst[n] = design.Highpass(freq, q, sampleRate)
		} else {
			dst[n] = design.Lowpass(freq, q, sampleRate)
		}
		n++
	}

	if order%2 != 0 && n < len(dst) {
		dst[n] = firstOrder(freq, sampleRate, highpass)
		n++
	}

	return n
}
