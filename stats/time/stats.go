// Package time summarises rendered audio in the time domain: level, peak,
// crest factor and clipping counts.
package time

import (
	"math"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Stats holds time-domain statistics of a signal. dB fields are floored at
// core.SilenceDB.
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64
	Max           float64
	Min           float64
	Peak          float64 // max(|Max|, |Min|)
	PeakdB        float64
	CrestFactorDB float64 // PeakdB - RMSdB, 0 for silence
	ZeroCrossings int
	Clipped       int // samples with |x| >= 1
}

func emptyStats() Stats {
	return Stats{
		RMSdB:  core.SilenceDB,
		PeakdB: core.SilenceDB,
	}
}

func finish(s Stats, sum, sumSq float64) Stats {
	n := float64(s.Length)
	s.DC = sum / n
	s.RMS = math.Sqrt(sumSq / n)
	s.RMSdB = core.GainToDB(s.RMS, core.SilenceDB)
	s.Peak = math.Max(math.Abs(s.Max), math.Abs(s.Min))
	s.PeakdB = core.GainToDB(s.Peak, core.SilenceDB)

	if s.RMS > 0 {
		s.CrestFactorDB = 20 * math.Log10(s.Peak/s.RMS)
	}

	return s
}

// Calculate computes all statistics of signal.
func Calculate(signal []float64) Stats {
	if len(signal) == 0 {
		return emptyStats()
	}

	s := Stats{
		Length:        len(signal),
		Max:           floats.Max(signal),
		Min:           floats.Min(signal),
		ZeroCrossings: ZeroCrossings(signal),
		Clipped:       Clipped(signal),
	}

	return finish(s, floats.Sum(signal), f64.DotProductUnsafe(signal, signal))
}

// RMS returns the root mean square of signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(f64.DotProductUnsafe(signal, signal) / float64(len(signal)))
}

// Peak returns the largest absolute sample, 0 when empty.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Max(math.Abs(floats.Max(signal)), math.Abs(floats.Min(signal)))
}

// ZeroCrossings counts sign changes between consecutive samples. Zero samples
// do not count as a sign.
func ZeroCrossings(signal []float64) int {
	n := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			n++
		}
	}

	return n
}

// Clipped counts samples at or beyond full scale.
func Clipped(signal []float64) int {
	n := 0
	for _, x := range signal {
		if math.Abs(x) >= 1 {
			n++
		}
	}

	return n
}

// StreamingStats accumulates Stats over successive blocks, as produced by an
// offline render.
type StreamingStats struct {
	s     Stats
	sum   float64
	sumSq float64
	last  float64
}

// NewStreamingStats returns an empty accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{}
}

// Update folds block into the running statistics.
func (s *StreamingStats) Update(block []float64) {
	if len(block) == 0 {
		return
	}

	if s.s.Length == 0 {
		s.s.Max = block[0]
		s.s.Min = block[0]
	} else if s.last*block[0] < 0 {
		s.s.ZeroCrossings++
	}

	s.s.Length += len(block)
	s.s.Max = math.Max(s.s.Max, floats.Max(block))
	s.s.Min = math.Min(s.s.Min, floats.Min(block))
	s.s.ZeroCrossings += ZeroCrossings(block)
	s.s.Clipped += Clipped(block)
	s.sum += floats.Sum(block)
	s.sumSq += f64.DotProductUnsafe(block, block)
	s.last = block[len(block)-1]
}

// Result returns the statistics of everything seen so far.
func (s *StreamingStats) Result() Stats {
	if s.s.Length == 0 {
		return emptyStats()
	}

	return finish(s.s, s.sum, s.sumSq)
}

// Reset discards all accumulated data.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{}
}
