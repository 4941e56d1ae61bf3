package analysis

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/tphakala/simd/f64"
)

// Level is a float64 shared between one writer and any number of readers.
// The zero value reads as 0 dB; call Reset to start at silence.
type Level struct {
	bits atomic.Uint64
}

// Store publishes db.
func (l *Level) Store(db float64) {
	l.bits.Store(math.Float64bits(db))
}

// Load returns the last published value.
func (l *Level) Load() float64 {
	return math.Float64frombits(l.bits.Load())
}

// Reset publishes core.SilenceDB.
func (l *Level) Reset() {
	l.Store(core.SilenceDB)
}

// RMS returns the root mean square of block, or 0 for an empty block.
func RMS(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}

	return math.Sqrt(f64.DotProductUnsafe(block, block) / float64(len(block)))
}

// RMSdB returns the RMS of block in dBFS, floored at core.SilenceDB.
func RMSdB(block []float64) float64 {
	return core.GainToDB(RMS(block), core.SilenceDB)
}
