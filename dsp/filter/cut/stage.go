package cut

import (
	"sync/atomic"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
)

// Stage is one biquad slot: delay registers, the current coefficients and a
// bypass flag. A Stage with no coefficients passes audio through.
type Stage struct {
	coeffs   atomic.Pointer[biquad.Coefficients]
	bypassed atomic.Bool
	state    biquad.State
}

// SetCoefficients swaps in c. The pointed-to value must not change after the
// call.
func (s *Stage) SetCoefficients(c *biquad.Coefficients) {
	s.coeffs.Store(c)
}

// Coefficients returns a copy of the current coefficients, Identity if none
// are installed.
func (s *Stage) Coefficients() biquad.Coefficients {
	if c := s.coeffs.Load(); c != nil {
		return *c
	}

	return biquad.Identity
}

// SetBypassed sets the bypass flag.
func (s *Stage) SetBypassed(b bool) {
	s.bypassed.Store(b)
}

// Bypassed reports the bypass flag.
func (s *Stage) Bypassed() bool {
	return s.bypassed.Load()
}

// Process filters buf in place unless the stage is bypassed. The delay
// registers are flushed to zero once a decaying tail falls below the
// denormal guard.
func (s *Stage) Process(buf []float64) {
	if s.bypassed.Load() {
		return
	}

	c := s.coeffs.Load()
	if c == nil {
		return
	}

	biquad.ProcessBlock(c, &s.state, buf)

	s.state[0] = core.FlushDenormals(s.state[0])
	s.state[1] = core.FlushDenormals(s.state[1])
}

// State returns the delay registers.
func (s *Stage) State() biquad.State {
	return s.state
}

// Reset clears the delay registers.
func (s *Stage) Reset() {
	s.state.Reset()
}
