package effects

import (
	"testing"

	"github.com/cwbudde/algo-cutdrive/internal/testutil"
)

func benchmarkShape(b *testing.B, shape Shape) {
	d, _ := NewDistortion(WithDistortionShape(shape), WithDistortionDrive(3), WithDistortionMix(0.8))
	buf := testutil.DeterministicSine(220, 48000, 0.5, 512)

	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		d.ProcessInPlace(buf)
	}
}

func BenchmarkDistortionTanh(b *testing.B)     { benchmarkShape(b, ShapeTanh) }
func BenchmarkDistortionSine(b *testing.B)     { benchmarkShape(b, ShapeSine) }
func BenchmarkDistortionTanSine(b *testing.B)  { benchmarkShape(b, ShapeTanSine) }
func BenchmarkDistortionHardClip(b *testing.B) { benchmarkShape(b, ShapeHardClip) }
