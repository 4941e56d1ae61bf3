package analysis

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FloorDB is the lowest magnitude an estimator reports.
const FloorDB = -130.0

const (
	MinFFTSize     = 256
	MaxFFTSize     = 8192
	DefaultFFTSize = 2048
)

// Estimator turns a frame of Size samples into Size/2+1 magnitude bins in
// dBFS. A full-scale sine centred on a bin reads 0 dB.
type Estimator interface {
	Size() int
	Estimate(dst, samples []float64) error
}

// Bins returns the bin count for an FFT of size n.
func Bins(n int) int { return n/2 + 1 }

// SpectrumOption configures an estimator.
type SpectrumOption func(*spectrumConfig)

type spectrumConfig struct {
	window window.Type
}

// WithWindow selects the analysis window. The default is 4-term
// Blackman-Harris.
func WithWindow(t window.Type) SpectrumOption {
	return func(c *spectrumConfig) {
		c.window = t
	}
}

func validFFTSize(n int) error {
	if n < MinFFTSize || n > MaxFFTSize || n&(n-1) != 0 {
		return fmt.Errorf("analysis: fft size must be a power of two in [%d, %d]: %d",
			MinFFTSize, MaxFFTSize, n)
	}

	return nil
}

// frame holds what both estimators share: the window, its normalisation and
// scratch for the magnitude pass.
type frame struct {
	win  []float64
	norm float64
	buf  []float64
	re   []float64
	im   []float64
	mag  []float64
}

func newFrame(n int, opts []SpectrumOption) frame {
	cfg := spectrumConfig{window: window.TypeBlackmanHarris4Term}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	win := window.Generate(cfg.window, n, window.WithPeriodic())
	bins := Bins(n)

	return frame{
		win:  win,
		norm: float64(n) * math.Max(window.CoherentGain(win), 1e-12),
		buf:  make([]float64, n),
		re:   make([]float64, bins),
		im:   make([]float64, bins),
		mag:  make([]float64, bins),
	}
}

func (f *frame) load(samples []float64) error {
	if len(samples) != len(f.win) {
		return fmt.Errorf("analysis: frame length %d, want %d", len(samples), len(f.win))
	}

	copy(f.buf, samples)

	return window.Apply(f.buf, f.win)
}

// toDB converts the re/im scratch into single-sided dB magnitudes.
func (f *frame) toDB(dst []float64) {
	vecmath.Magnitude(f.mag, f.re, f.im)

	last := len(f.mag) - 1
	for k, m := range f.mag {
		m /= f.norm
		if k > 0 && k < last {
			m *= 2
		}

		dst[k] = core.GainToDB(m, FloorDB)
	}
}

// FFTEstimator computes spectra with an algo-fft complex plan.
type FFTEstimator struct {
	frame
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
}

// NewFFTEstimator prepares an estimator for frames of size samples.
func NewFFTEstimator(size int, opts ...SpectrumOption) (*FFTEstimator, error) {
	if err := validFFTSize(size); err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analysis: fft plan: %w", err)
	}

	return &FFTEstimator{
		frame: newFrame(size, opts),
		plan:  plan,
		in:    make([]complex128, size),
		out:   make([]complex128, size),
	}, nil
}

// Size returns the frame length.
func (e *FFTEstimator) Size() int { return len(e.win) }

// Estimate writes Bins(Size()) dB values into dst.
func (e *FFTEstimator) Estimate(dst, samples []float64) error {
	if len(dst) < len(e.mag) {
		return fmt.Errorf("analysis: spectrum dst has %d bins, want %d", len(dst), len(e.mag))
	}

	if err := e.load(samples); err != nil {
		return err
	}

	for i, s := range e.buf {
		e.in[i] = complex(s, 0)
	}

	if err := e.plan.Forward(e.out, e.in); err != nil {
		return fmt.Errorf("analysis: fft forward: %w", err)
	}

	for k := range e.re {
		e.re[k] = real(e.out[k])
		e.im[k] = imag(e.out[k])
	}

	e.toDB(dst)

	return nil
}

// GonumEstimator computes spectra with gonum's real FFT.
type GonumEstimator struct {
	frame
	fft    *fourier.FFT
	coeffs []complex128
}

// NewGonumEstimator prepares an estimator for frames of size samples.
func NewGonumEstimator(size int, opts ...SpectrumOption) (*GonumEstimator, error) {
	if err := validFFTSize(size); err != nil {
		return nil, err
	}

	return &GonumEstimator{
		frame:  newFrame(size, opts),
		fft:    fourier.NewFFT(size),
		coeffs: make([]complex128, Bins(size)),
	}, nil
}

// Size returns the frame length.
func (e *GonumEstimator) Size() int { return len(e.win) }

// Estimate writes Bins(Size()) dB values into dst.
func (e *GonumEstimator) Estimate(dst, samples []float64) error {
	if len(dst) < len(e.mag) {
		return fmt.Errorf("analysis: spectrum dst has %d bins, want %d", len(dst), len(e.mag))
	}

	if err := e.load(samples); err != nil {
		return err
	}

	e.coeffs = e.fft.Coefficients(e.coeffs, e.buf)
	for k, c := range e.coeffs {
		e.re[k] = real(c)
		e.im[k] = imag(c)
	}

	e.toDB(dst)

	return nil
}

// Smoother blends successive spectrum frames: s*previous + (1-s)*current.
type Smoother struct {
	factor float64
	frame  []float64
	ready  bool
}

// NewSmoother allocates a smoother for bins values. factor is clamped to
// [0, 0.95].
func NewSmoother(bins int, factor float64) *Smoother {
	return &Smoother{
		factor: core.Clamp(factor, 0, 0.95),
		frame:  make([]float64, bins),
	}
}

// Apply folds current into the running frame and returns it. The returned
// slice is owned by the smoother.
func (s *Smoother) Apply(current []float64) []float64 {
	if !s.ready {
		copy(s.frame, current)
		s.ready = true

		return s.frame
	}

	for i := range min(len(s.frame), len(current)) {
		s.frame[i] = s.factor*s.frame[i] + (1-s.factor)*current[i]
	}

	return s.frame
}

// Frame returns the running frame, or nil before the first Apply.
func (s *Smoother) Frame() []float64 {
	if !s.ready {
		return nil
	}

	return s.frame
}

// Reset discards history.
func (s *Smoother) Reset() { s.ready = false }
