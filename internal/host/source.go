package host

import (
	"fmt"
	"math"
)

// Source fills planar buffers with the next frames of a signal. Every
// buffer in bufs has the same length.
type Source interface {
	Read(bufs [][]float64)
}

// DefaultToneFreq is the test oscillator frequency.
const DefaultToneFreq = 50.0

// Tone is a sine oscillator written identically to every channel.
type Tone struct {
	step  float64
	amp   float64
	phase float64
}

// NewTone returns a sine at freq Hz and linear amplitude amp.
func NewTone(freq, amp, sampleRate float64) (*Tone, error) {
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("host: tone sample rate must be positive: %v", sampleRate)
	}

	if !(freq > 0) || freq >= sampleRate/2 {
		return nil, fmt.Errorf("host: tone frequency must be in (0, %v): %v", sampleRate/2, freq)
	}

	return &Tone{step: 2 * math.Pi * freq / sampleRate, amp: amp}, nil
}

func (t *Tone) Read(bufs [][]float64) {
	if len(bufs) == 0 {
		return
	}

	phase := t.phase
	first := bufs[0]

	for i := range first {
		first[i] = t.amp * math.Sin(phase)

		phase += t.step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}

	t.phase = phase

	for _, buf := range bufs[1:] {
		copy(buf, first)
	}
}

// ClipSource loops a clip. A mono clip feeds every output channel; extra
// clip channels are ignored.
type ClipSource struct {
	clip *Clip
	pos  int
}

// NewClipSource loops clip from its start.
func NewClipSource(clip *Clip) (*ClipSource, error) {
	if clip == nil || clip.Frames() == 0 {
		return nil, fmt.Errorf("host: clip is empty")
	}

	return &ClipSource{clip: clip}, nil
}

func (s *ClipSource) Read(bufs [][]float64) {
	if len(bufs) == 0 {
		return
	}

	frames := s.clip.Frames()
	n := len(bufs[0])
	start := s.pos

	for ch, buf := range bufs {
		src := s.clip.Channels[min(ch, len(s.clip.Channels)-1)]

		pos := start
		for off := 0; off < n; {
			c := copy(buf[off:], src[pos:])
			off += c
			pos = (pos + c) % frames
		}
	}

	s.pos = (start + n) % frames
}
