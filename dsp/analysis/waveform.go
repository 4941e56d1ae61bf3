package analysis

import (
	"fmt"
	"math"
)

const (
	DefaultWaveformPoints  = 512
	DefaultSamplesPerPoint = 8
)

// MinMax is one waveform display point.
type MinMax struct {
	Min, Max float64
}

// Waveform reduces a signal to min/max pairs over groups of samples and keeps
// the latest points in a ring.
type Waveform struct {
	points          []MinMax
	samplesPerPoint int
	write           int
	filled          int

	pending MinMax
	count   int
}

// NewWaveform allocates a waveform of points entries, each covering
// samplesPerPoint samples.
func NewWaveform(points, samplesPerPoint int) (*Waveform, error) {
	if points < 1 || samplesPerPoint < 1 {
		return nil, fmt.Errorf("analysis: waveform needs positive points and samples per point: %d, %d",
			points, samplesPerPoint)
	}

	w := &Waveform{
		points:          make([]MinMax, points),
		samplesPerPoint: samplesPerPoint,
	}
	w.resetPending()

	return w, nil
}

func (w *Waveform) resetPending() {
	w.pending = MinMax{Min: math.Inf(1), Max: math.Inf(-1)}
	w.count = 0
}

// Write feeds samples. A point is emitted every samplesPerPoint samples; a
// partial group carries over to the next call.
func (w *Waveform) Write(samples []float64) {
	for _, s := range samples {
		w.pending.Min = math.Min(w.pending.Min, s)
		w.pending.Max = math.Max(w.pending.Max, s)

		w.count++
		if w.count < w.samplesPerPoint {
			continue
		}

		w.points[w.write] = w.pending
		w.write = (w.write + 1) % len(w.points)
		w.filled = min(w.filled+1, len(w.points))
		w.resetPending()
	}
}

// Snapshot appends the stored points to dst oldest first.
func (w *Waveform) Snapshot(dst []MinMax) []MinMax {
	if w.filled < len(w.points) {
		return append(dst, w.points[:w.filled]...)
	}

	dst = append(dst, w.points[w.write:]...)

	return append(dst, w.points[:w.write]...)
}

// Len returns the number of stored points.
func (w *Waveform) Len() int { return w.filled }

// Reset clears all points.
func (w *Waveform) Reset() {
	clear(w.points)
	w.write = 0
	w.filled = 0
	w.resetPending()
}
