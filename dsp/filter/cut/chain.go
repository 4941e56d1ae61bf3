package cut

import "github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"

// Chain is one cut filter: MaxStages slots processed in order.
type Chain struct {
	stages [MaxStages]Stage
}

// UpdateFilter installs coeffs in slot index (a nil coeffs keeps the current
// ones) and bypasses the slot when index > slope. Delay state is kept, so a
// moving cutoff is approximate for a few samples but does not click.
func (c *Chain) UpdateFilter(index int, coeffs *biquad.Coefficients, slope Slope) {
	if index < 0 || index >= MaxStages {
		return
	}

	st := &c.stages[index]
	if coeffs != nil {
		st.SetCoefficients(coeffs)
	}

	st.SetBypassed(index > int(slope.clamp()))
}

// Update applies a designed set to all slots.
func (c *Chain) Update(set Set, slope Slope) {
	for i := range MaxStages {
		var coeffs *biquad.Coefficients
		if i < set.N {
			coeffs = set.Sections[i]
		}

		c.UpdateFilter(i, coeffs, slope)
	}
}

// Process runs buf through every active slot.
func (c *Chain) Process(buf []float64) {
	for i := range c.stages {
		c.stages[i].Process(buf)
	}
}

// Stage returns slot i.
func (c *Chain) Stage(i int) *Stage {
	return &c.stages[i]
}

// ActiveStages counts slots that are not bypassed.
func (c *Chain) ActiveStages() int {
	n := 0
	for i := range c.stages {
		if !c.stages[i].Bypassed() {
			n++
		}
	}

	return n
}

// Reset clears the delay state of every slot.
func (c *Chain) Reset() {
	for i := range c.stages {
		c.stages[i].Reset()
	}
}
