package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/f64"
)

// ErrNoChannels is returned when an Analyzer is built without fifos.
var ErrNoChannels = errors.New("analysis: analyzer needs at least one fifo")

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerConfig)

type analyzerConfig struct {
	fftSize         int
	overlap         float64
	smoothing       float64
	estimator       Estimator
	spectrumOpts    []SpectrumOption
	waveformPoints  int
	samplesPerPoint int
}

// WithFFTSize sets the spectrum frame length.
func WithFFTSize(n int) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.fftSize = n
	}
}

// WithOverlap sets the frame overlap, clamped to [0.25, 0.95].
func WithOverlap(overlap float64) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.overlap = core.Clamp(overlap, 0.25, 0.95)
	}
}

// WithSmoothing sets the Smoother factor.
func WithSmoothing(s float64) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.smoothing = s
	}
}

// WithEstimator replaces the default FFTEstimator. The FFT size follows
// est.Size().
func WithEstimator(est Estimator) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.estimator = est
	}
}

// WithSpectrumOptions passes options to the default estimator.
func WithSpectrumOptions(opts ...SpectrumOption) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.spectrumOpts = append(c.spectrumOpts, opts...)
	}
}

// WithWaveform sets the waveform resolution.
func WithWaveform(points, samplesPerPoint int) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.waveformPoints = points
		c.samplesPerPoint = samplesPerPoint
	}
}

// Analyzer is the consumer side of the analysis taps. It drains one Fifo per
// channel, keeps a waveform per channel and computes spectra of the mono
// downmix. It is not safe for concurrent use; call it from one display
// goroutine.
type Analyzer struct {
	fifos     []*Fifo
	blocks    [][]float64
	mono      []float64
	ring      *Ring
	est       Estimator
	smoother  *Smoother
	raw       []float64
	frame     []float64
	waveforms []*Waveform

	hop      int
	sinceHop int
	frames   uint64
}

// NewAnalyzer builds an analyzer over fifos, one per channel.
func NewAnalyzer(fifos []*Fifo, opts ...AnalyzerOption) (*Analyzer, error) {
	if len(fifos) == 0 {
		return nil, ErrNoChannels
	}

	cfg := analyzerConfig{
		fftSize:         DefaultFFTSize,
		overlap:         0.75,
		smoothing:       0.5,
		waveformPoints:  DefaultWaveformPoints,
		samplesPerPoint: DefaultSamplesPerPoint,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	est := cfg.estimator
	if est == nil {
		fe, err := NewFFTEstimator(cfg.fftSize, cfg.spectrumOpts...)
		if err != nil {
			return nil, err
		}

		est = fe
	}

	n := est.Size()

	ring, err := NewRing(n)
	if err != nil {
		return nil, err
	}

	blockSize := 0
	for i, f := range fifos {
		if f == nil {
			return nil, fmt.Errorf("analysis: fifo %d is nil", i)
		}

		blockSize = max(blockSize, f.BlockSize())
	}

	a := &Analyzer{
		fifos:    fifos,
		blocks:   make([][]float64, len(fifos)),
		mono:     make([]float64, blockSize),
		ring:     ring,
		est:      est,
		smoother: NewSmoother(Bins(n), cfg.smoothing),
		raw:      make([]float64, Bins(n)),
		frame:    make([]float64, n),
		hop:      max(1, int(math.Round(float64(n)*(1-cfg.overlap)))),
	}

	for i := range a.blocks {
		a.blocks[i] = make([]float64, blockSize)
	}

	for range fifos {
		w, err := NewWaveform(cfg.waveformPoints, cfg.samplesPerPoint)
		if err != nil {
			return nil, err
		}

		a.waveforms = append(a.waveforms, w)
	}

	return a, nil
}

// Update drains every block that is available on all channels and reports
// whether a new spectrum frame was produced.
func (a *Analyzer) Update() (bool, error) {
	fresh := false

	for a.available() {
		n := a.pullBlock()
		if n == 0 {
			continue
		}

		a.ring.Write(a.mono[:n])

		a.sinceHop += n
		if !a.ring.Full() || a.sinceHop < a.hop {
			continue
		}

		a.sinceHop = 0
		a.ring.CopyLatest(a.frame)

		if err := a.est.Estimate(a.raw, a.frame); err != nil {
			return fresh, err
		}

		a.smoother.Apply(a.raw)
		a.frames++
		fresh = true
	}

	return fresh, nil
}

func (a *Analyzer) available() bool {
	for _, f := range a.fifos {
		if f.Len() == 0 {
			return false
		}
	}

	return true
}

// pullBlock pulls one block per channel, feeds the waveforms and leaves the
// downmix in a.mono. It returns the shortest block length.
func (a *Analyzer) pullBlock() int {
	n := len(a.mono)

	for ch, f := range a.fifos {
		got, _ := f.Pull(a.blocks[ch])
		a.waveforms[ch].Write(a.blocks[ch][:got])
		n = min(n, got)
	}

	mono := a.mono[:n]
	copy(mono, a.blocks[0][:n])

	if len(a.fifos) == 1 || n == 0 {
		return n
	}

	for ch := 1; ch < len(a.blocks); ch++ {
		vecmath.AddBlockInPlace(mono, a.blocks[ch][:n])
	}

	f64.Scale(mono, mono, 1/float64(len(a.blocks)))

	return n
}

// Spectrum returns the smoothed spectrum in dBFS, one value per bin, or nil
// before the first frame. The slice is reused by later Update calls.
func (a *Analyzer) Spectrum() []float64 { return a.smoother.Frame() }

// BinHz returns the bin spacing for sampleRate.
func (a *Analyzer) BinHz(sampleRate float64) float64 {
	return sampleRate / float64(a.est.Size())
}

// Waveform returns channel ch's waveform.
func (a *Analyzer) Waveform(ch int) *Waveform { return a.waveforms[ch] }

// Channels returns the channel count.
func (a *Analyzer) Channels() int { return len(a.fifos) }

// Frames returns how many spectrum frames have been computed.
func (a *Analyzer) Frames() uint64 { return a.frames }

// Reset clears the ring, spectrum history and waveforms. The fifos are left
// alone.
func (a *Analyzer) Reset() {
	a.ring.Reset()
	a.smoother.Reset()
	a.sinceHop = 0
	a.frames = 0

	for _, w := range a.waveforms {
		w.Reset()
	}
}

// CurveDB samples the smoothed spectrum at freqs with linear interpolation
// between bins and writes the result into dst, which must be as long as
// freqs. Before the first frame every value is FloorDB.
func (a *Analyzer) CurveDB(dst, freqs []float64, sampleRate float64) {
	spec := a.Spectrum()
	if spec == nil || sampleRate <= 0 {
		for i := range dst {
			dst[i] = FloorDB
		}

		return
	}

	binHz := a.BinHz(sampleRate)
	last := len(spec) - 1

	for i, f := range freqs {
		bin := core.Clamp(f, 0, sampleRate/2) / binHz
		if bin >= float64(last) {
			dst[i] = spec[last]
			continue
		}

		base := int(bin)
		frac := bin - float64(base)
		dst[i] = spec[base] + frac*(spec[base+1]-spec[base])
	}
}
