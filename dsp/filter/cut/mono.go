package cut

import "sync/atomic"

// MonoChain is the per-channel filter path: low-cut then high-cut.
type MonoChain struct {
	chains   [2]Chain
	bypassed [2]atomic.Bool
}

// Chain returns the chain at position kind.
func (m *MonoChain) Chain(kind Kind) *Chain {
	return &m.chains[kind]
}

// SetBypassed bypasses the whole chain at position kind.
func (m *MonoChain) SetBypassed(kind Kind, b bool) {
	m.bypassed[kind].Store(b)
}

// Bypassed reports whether the chain at position kind is bypassed.
func (m *MonoChain) Bypassed(kind Kind) bool {
	return m.bypassed[kind].Load()
}

// Apply installs designed sets and the bypass flags from s.
func (m *MonoChain) Apply(s ChainSettings, low, high Set) {
	m.chains[LowCut].Update(low, s.LowCutSlope)
	m.chains[HighCut].Update(high, s.HighCutSlope)
	m.ApplyBypass(s)
}

// ApplyBypass copies only the bypass flags from s.
func (m *MonoChain) ApplyBypass(s ChainSettings) {
	m.SetBypassed(LowCut, s.LowCutBypassed)
	m.SetBypassed(HighCut, s.HighCutBypassed)
}

// Process filters buf in place.
func (m *MonoChain) Process(buf []float64) {
	for k := range m.chains {
		if !m.bypassed[k].Load() {
			m.chains[k].Process(buf)
		}
	}
}

// Reset clears the delay state of both chains.
func (m *MonoChain) Reset() {
	m.chains[LowCut].Reset()
	m.chains[HighCut].Reset()
}
