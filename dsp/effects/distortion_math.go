//go:build !fastmath

package effects

import "math"

// ExactTanh reports whether tanh is computed with the standard library.
const ExactTanh = true

func tanh(x float64) float64 {
	return math.Tanh(x)
}
