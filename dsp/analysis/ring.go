package analysis

import "fmt"

// Ring keeps the most recent Size samples of a mono signal.
type Ring struct {
	buf    []float64
	write  int
	filled int
}

// NewRing allocates a ring of size samples.
func NewRing(size int) (*Ring, error) {
	if size < 1 {
		return nil, fmt.Errorf("analysis: ring size must be positive: %d", size)
	}

	return &Ring{buf: make([]float64, size)}, nil
}

// Write appends samples, overwriting the oldest ones once the ring is full.
func (r *Ring) Write(samples []float64) {
	if len(samples) >= len(r.buf) {
		copy(r.buf, samples[len(samples)-len(r.buf):])
		r.write = 0
		r.filled = len(r.buf)

		return
	}

	n := copy(r.buf[r.write:], samples)
	if n < len(samples) {
		copy(r.buf, samples[n:])
	}

	r.write = (r.write + len(samples)) % len(r.buf)
	r.filled = min(r.filled+len(samples), len(r.buf))
}

// CopyLatest writes the ring contents into dst oldest first and returns the
// number of samples written. dst should be at least Size long.
func (r *Ring) CopyLatest(dst []float64) int {
	if r.filled < len(r.buf) {
		return copy(dst, r.buf[:r.filled])
	}

	n := copy(dst, r.buf[r.write:])
	n += copy(dst[n:], r.buf[:r.write])

	return n
}

// Full reports whether Size samples have been written.
func (r *Ring) Full() bool { return r.filled == len(r.buf) }

// Size returns the ring capacity.
func (r *Ring) Size() int { return len(r.buf) }

// Reset forgets all samples.
func (r *Ring) Reset() {
	clear(r.buf)
	r.write = 0
	r.filled = 0
}
