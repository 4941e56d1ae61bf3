package cut

import (
	"math"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
)

// Response is a read-only copy of a filter pair for drawing its magnitude
// curve. It is built from settings on the UI side and shares nothing with
// the chains on the audio thread.
type Response struct {
	low, high                 []biquad.Coefficients
	lowBypassed, highBypassed bool
	sampleRate                float64
}

// NewResponse designs both filters for s at sampleRate.
func NewResponse(s ChainSettings, sampleRate float64) *Response {
	return &Response{
		low:          Design(LowCut, s.LowCutFreq, s.LowCutSlope, sampleRate),
		high:         Design(HighCut, s.HighCutFreq, s.HighCutSlope, sampleRate),
		lowBypassed:  s.LowCutBypassed,
		highBypassed: s.HighCutBypassed,
		sampleRate:   sampleRate,
	}
}

// Sections returns the designed sections for kind.
func (r *Response) Sections(kind Kind) []biquad.Coefficients {
	if kind == HighCut {
		return r.high
	}

	return r.low
}

// Magnitude returns the combined linear gain at freq.
func (r *Response) Magnitude(freq float64) float64 {
	mag := 1.0
	if !r.lowBypassed {
		mag *= biquad.CascadeMagnitude(r.low, freq, r.sampleRate)
	}

	if !r.highBypassed {
		mag *= biquad.CascadeMagnitude(r.high, freq, r.sampleRate)
	}

	return mag
}

// MagnitudeDB returns the combined gain at freq in dB, floored at
// core.SilenceDB.
func (r *Response) MagnitudeDB(freq float64) float64 {
	return core.GainToDB(r.Magnitude(freq), core.SilenceDB)
}

// Curve writes MagnitudeDB for each of freqs into dst and returns dst.
func (r *Response) Curve(dst, freqs []float64) []float64 {
	dst = core.EnsureLen(dst, len(freqs))
	for i, f := range freqs {
		dst[i] = r.MagnitudeDB(f)
	}

	return dst
}

// LogFrequencies returns n frequencies spaced evenly on a log axis from lo to
// hi inclusive.
func LogFrequencies(n int, lo, hi float64) []float64 {
	if n <= 0 || !(lo > 0) || !(hi > lo) {
		return nil
	}

	if n == 1 {
		return []float64{lo}
	}

	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}

	return out
}
