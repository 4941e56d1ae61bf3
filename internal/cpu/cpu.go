// Package cpu reports the SIMD capabilities of the running processor so the
// biquad package can pick a block kernel once at startup.
package cpu

import "sync"

// SIMDLevel names an instruction-set tier a kernel requires.
type SIMDLevel int

const (
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDNEON
)

func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Features is a snapshot of detected (or forced) CPU capabilities.
type Features struct {
	HasSSE2 bool
	HasAVX  bool
	HasAVX2 bool
	HasNEON bool

	// ForceGeneric disables every SIMD tier.
	ForceGeneric bool

	Architecture string
}

var (
	detectOnce sync.Once
	detected   Features

	forcedMu sync.RWMutex
	forced   *Features
)

// DetectFeatures returns the forced feature set if one is installed, and the
// detected one otherwise. Detection runs once.
func DetectFeatures() Features {
	forcedMu.RLock()
	f := forced
	forcedMu.RUnlock()

	if f != nil {
		return *f
	}

	detectOnce.Do(func() {
		detected = detectFeaturesImpl()
	})

	return detected
}

// SetForcedFeatures overrides detection. Intended for tests and for the
// CUTDRIVE_FORCE_GENERIC escape hatch in the CLI.
func SetForcedFeatures(f Features) {
	forcedMu.Lock()
	defer forcedMu.Unlock()

	forced = &f
}

// ResetForcedFeatures removes an override installed by SetForcedFeatures.
func ResetForcedFeatures() {
	forcedMu.Lock()
	defer forcedMu.Unlock()

	forced = nil
}

// Supports reports whether features satisfy level.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE2:
		return features.HasSSE2
	case SIMDAVX:
		return features.HasAVX
	case SIMDAVX2:
		return features.HasAVX2
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}
