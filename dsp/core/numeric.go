package core

import "math"

// SilenceDB is the level reported for silent or non-finite signals.
const SilenceDB = -100.0

// Clamp limits value to the inclusive range [lo, hi]. Swapped bounds are
// accepted. NaN maps to lo.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	switch {
	case value != value:
		return lo
	case value < lo:
		return lo
	case value > hi:
		return hi
	}

	return value
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FlushDenormals converts tiny values to exact zero.
func FlushDenormals(x float64) float64 {
	if x > -1e-30 && x < 1e-30 {
		return 0
	}

	return x
}

// DBToLinear converts a gain in dB to linear amplitude, 10^(db/20).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB. Zero gives -Inf, negative
// values give NaN.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// GainToDB converts linear amplitude to dB and never reports less than
// floorDB. Zero, negative and NaN inputs return floorDB.
func GainToDB(linear, floorDB float64) float64 {
	if !(linear > 0) {
		return floorDB
	}

	db := LinearToDB(linear)
	if db < floorDB {
		return floorDB
	}

	return db
}
