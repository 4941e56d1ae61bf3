package biquad

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/algo-cutdrive/internal/cpu"
)

// Coefficients holds the transfer function of one biquad section with a0
// normalised to 1.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Identity is the pass-through section.
var Identity = Coefficients{B0: 1}

// IsFinite reports whether every coefficient is finite.
func (c *Coefficients) IsFinite() bool {
	return finite(c.B0) && finite(c.B1) && finite(c.B2) && finite(c.A1) && finite(c.A2)
}

// IsStable reports whether both poles lie strictly inside the unit circle
// (the stability triangle |A2| < 1, |A1| < 1 + A2).
func (c *Coefficients) IsStable() bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// IsSilent reports whether the numerator is all zero.
func (c *Coefficients) IsSilent() bool {
	return c.B0 == 0 && c.B1 == 0 && c.B2 == 0
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// State is the two-register delay line of a DF2T section.
type State [2]float64

// Reset clears the delay line.
func (s *State) Reset() {
	s[0], s[1] = 0, 0
}

var (
	processBlockImpl     kernel.ProcessBlockFn
	processBlockInitOnce sync.Once
)

func initProcessBlockKernel() {
	entry := kernel.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.ProcessBlock == nil {
		panic("biquad: no ProcessBlock kernel registered")
	}

	processBlockImpl = entry.ProcessBlock
}

// KernelName returns the name of the block kernel selected for this CPU.
func KernelName() string {
	processBlockInitOnce.Do(initProcessBlockKernel)

	return kernel.Global.Lookup(cpu.DetectFeatures()).Name
}

// ProcessBlock filters buf in place through one section with coefficients c
// and delay line st. It does not allocate.
func ProcessBlock(c *Coefficients, st *State, buf []float64) {
	processBlockInitOnce.Do(initProcessBlockKernel)

	st[0], st[1] = processBlockImpl(kernel.Coefficients(*c), st[0], st[1], buf)
}

// Section is a single biquad with its own coefficients and state. The cut
// filters hold coefficients behind an atomic pointer instead; Section is the
// plain form used for offline analysis.
type Section struct {
	Coefficients

	state State
}

// NewSection returns a Section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.state[0]
	s.state[0] = s.B1*x - s.A1*y + s.state[1]
	s.state[1] = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	ProcessBlock(&s.Coefficients, &s.state, buf)
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.state.Reset()
}

// State returns the delay-line registers.
func (s *Section) State() State {
	return s.state
}

// SetState restores delay-line registers.
func (s *Section) SetState(st State) {
	s.state = st
}
