package cut

import "github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"

// Set is one designed cascade. Sections[:N] point into the Designer's banks
// and must be treated as read-only.
type Set struct {
	Sections [MaxStages]*biquad.Coefficients
	N        int
}

// Designer is the allocation-free form of Design for the audio thread. It
// rotates through a fixed set of banks so the set that was just installed is
// not rewritten by the next design. A Designer belongs to one goroutine.
type Designer struct {
	banks [3][MaxStages]biquad.Coefficients
	next  int
}

// Design fills the next bank and returns pointers to its sections.
func (d *Designer) Design(kind Kind, freq float64, slope Slope, sampleRate float64) Set {
	bank := &d.banks[d.next]
	d.next = (d.next + 1) % len(d.banks)

	var s Set
	s.N = designInto(bank, kind, freq, slope, sampleRate)
	for i := range s.N {
		s.Sections[i] = &bank[i]
	}

	return s
}
