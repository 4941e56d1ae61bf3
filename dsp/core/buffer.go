package core

// EnsureLen returns a slice of length n, reusing buf's capacity when possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// AllFinite reports whether buf contains neither NaN nor Inf. x*0 is zero
// for every finite sample and NaN otherwise, so one branch-free pass suffices.
func AllFinite(buf []float64) bool {
	var sum float64
	for _, x := range buf {
		sum += x * 0
	}

	return sum == 0
}
