// Package window generates the cosine-sum analysis windows used by the
// spectrum analyzer.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type selects a window shape.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeFlatTop
)

// cosine-sum terms a0, a1, ... for w(x) = a0 - a1 cos(2πx) + a2 cos(4πx) - ...
var cosineTerms = map[Type][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, 0.5},
	TypeHamming:             {0.54, 0.46},
	TypeBlackman:            {0.42, 0.5, 0.08},
	TypeBlackmanHarris4Term: {0.35875, 0.48829, 0.14128, 0.01168},
	TypeFlatTop:             {0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368},
}

var typeNames = map[Type]string{
	TypeRectangular:         "rectangular",
	TypeHann:                "hann",
	TypeHamming:             "hamming",
	TypeBlackman:            "blackman",
	TypeBlackmanHarris4Term: "blackmanharris",
	TypeFlatTop:             "flattop",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a window name such as "hann" or "blackmanharris" to a Type.
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t, tn := range typeNames {
		if tn == n {
			return t, nil
		}
	}

	return 0, fmt.Errorf("window: unsupported type %q", name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic (DFT-even) form used for FFT framing
// instead of the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns length window coefficients. Unknown types fall back to
// rectangular.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	terms, ok := cosineTerms[t]
	if !ok {
		terms = cosineTerms[TypeRectangular]
	}

	den := float64(length - 1)
	if cfg.periodic || length == 1 {
		den = float64(length)
	}

	out := make([]float64, length)
	for n := range out {
		phase := 2 * math.Pi * float64(n) / den

		sum, sign := 0.0, 1.0
		for k, a := range terms {
			sum += sign * a * math.Cos(float64(k)*phase)
			sign = -sign
		}

		out[n] = sum
	}

	return out
}

// Apply multiplies buf in place by precomputed coefficients. Lengths must
// match.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return fmt.Errorf("window: length mismatch %d != %d", len(buf), len(coeffs))
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// CoherentGain returns the mean coefficient, the amplitude scale a window
// applies to a bin-centred sinusoid.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}
