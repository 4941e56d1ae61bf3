//go:build fastmath

package effects

import approx "github.com/meko-christian/algo-approx"

// ExactTanh reports whether tanh is computed with the standard library.
const ExactTanh = false

// tanh uses tanh(x) = 1 - 2/(e^(2x)+1). Past |x| = 20 the result is ±1 to
// double precision, so the exponential is skipped.
func tanh(x float64) float64 {
	switch {
	case x > 20:
		return 1
	case x < -20:
		return -1
	}

	return 1 - 2/(approx.FastExp(2*x)+1)
}
