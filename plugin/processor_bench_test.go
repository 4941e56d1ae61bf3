package plugin

import (
	"testing"

	"github.com/cwbudde/algo-cutdrive/internal/testutil"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

func BenchmarkProcessBlock(b *testing.B) {
	for _, slope := range []float64{0, 3} {
		b.Run(map[float64]string{0: "12dB", 3: "48dB"}[slope], func(b *testing.B) {
			store := param.NewStore()
			_ = store.Set(param.LowCutSlope, slope)
			_ = store.Set(param.HighCutSlope, slope)
			_ = store.Set(param.HighCutFreq, 8000)

			p := prepared(b, store, 512, 2)
			bufs := testutil.Planar(
				testutil.DeterministicNoise(1, 0.5, 512),
				testutil.DeterministicNoise(2, 0.5, 512),
			)

			b.ReportAllocs()
			b.SetBytes(2 * 512 * 8)

			for b.Loop() {
				_ = p.ProcessBlock(bufs)
			}
		})
	}
}
