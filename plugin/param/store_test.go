package param

import (
	"bytes"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-cutdrive/dsp/effects"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()
	got := s.Snapshot()

	assert.Equal(t, cut.DefaultChainSettings(), got.Chain)
	assert.Equal(t, 1.0, got.Drive)
	assert.Equal(t, 1.0, got.Mix)
	assert.Equal(t, 0.0, got.PostGainDB)
	assert.Equal(t, effects.ShapeTanh, got.Shape)
	assert.Equal(t, got, DefaultSettings())
}

func TestStoreSetClampsAndMarksDirty(t *testing.T) {
	s := NewStore()
	require.True(t, s.TakeDirty(), "a new store starts dirty")
	require.False(t, s.TakeDirty())

	require.NoError(t, s.Set(LowCutFreq, 5))
	assert.Equal(t, cut.MinFreq, s.Get(LowCutFreq))
	assert.True(t, s.TakeDirty())

	require.NoError(t, s.Set(Drive, 42))
	assert.Equal(t, 10.0, s.Get(Drive))

	require.NoError(t, s.Set(Mix, math.NaN()))
	assert.Equal(t, 1.0, s.Get(Mix), "NaN takes the default")

	err := s.Set(Count, 1)
	require.ErrorIs(t, err, ErrUnknownParameter)
	assert.True(t, math.IsNaN(s.Get(Count)))
}

func TestStoreSnapshot(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(LowCutFreq, 120))
	require.NoError(t, s.Set(HighCutFreq, 8000))
	require.NoError(t, s.Set(LowCutSlope, 3))
	require.NoError(t, s.Set(HighCutSlope, 1))
	require.NoError(t, s.Set(HighCutBypassed, 1))
	require.NoError(t, s.Set(Drive, 4))
	require.NoError(t, s.Set(Mix, 0.5))
	require.NoError(t, s.Set(PostGain, -6))
	require.NoError(t, s.Set(Shape, float64(effects.ShapeSine)))

	want := Settings{
		Chain: cut.ChainSettings{
			LowCutFreq:      120,
			HighCutFreq:     8000,
			LowCutSlope:     cut.Slope48,
			HighCutSlope:    cut.Slope24,
			HighCutBypassed: true,
		},
		Drive:      4,
		Mix:        0.5,
		PostGainDB: -6,
		Shape:      effects.ShapeSine,
	}
	assert.Equal(t, want, s.Snapshot())

	other := NewStore()
	require.NoError(t, other.Apply(want))
	assert.Equal(t, want, other.Snapshot())
	assert.True(t, other.TakeDirty())
}

func TestStoreApplyClamps(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Apply(Settings{
		Chain: cut.ChainSettings{
			LowCutFreq:   1,
			HighCutFreq:  90000,
			LowCutSlope:  cut.Slope(9),
			HighCutSlope: cut.Slope12,
		},
		Drive:      50,
		Mix:        -1,
		PostGainDB: 6,
		Shape:      effects.ShapeTanh,
	}))

	got := s.Snapshot()
	assert.Equal(t, cut.MinFreq, got.Chain.LowCutFreq)
	assert.Equal(t, cut.MaxFreq, got.Chain.HighCutFreq)
	assert.Equal(t, cut.Slope48, got.Chain.LowCutSlope)
	assert.Equal(t, 10.0, got.Drive)
	assert.Equal(t, 0.0, got.Mix)
	assert.Equal(t, 0.0, got.PostGainDB)
}

func TestStoreNormalized(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetNormalized(Mix, 0.25))
	assert.InDelta(t, 0.25, s.Get(Mix), 1e-9)
	assert.InDelta(t, 0.25, s.Normalized(Mix), 1e-9)

	require.NoError(t, s.SetNormalized(HighCutFreq, 1))
	assert.Equal(t, cut.MaxFreq, s.Get(HighCutFreq))

	require.ErrorIs(t, s.SetNormalized(-1, 0), ErrUnknownParameter)
}

func TestStoreSetText(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetText("lowcut-slope", "36"))
	assert.Equal(t, cut.Slope36, s.Snapshot().Chain.LowCutSlope)
	assert.Equal(t, "36 db/Oct", s.Format(LowCutSlope))

	require.ErrorIs(t, s.SetText("bogus", "1"), ErrUnknownParameter)
	require.Error(t, s.SetText("drive", "lots"))
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(Drive, 8))
	s.TakeDirty()

	s.Reset()
	assert.Equal(t, 1.0, s.Get(Drive))
	assert.True(t, s.TakeDirty())
}

func TestPresetRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(LowCutFreq, 95))
	require.NoError(t, s.Set(LowCutSlope, 2))
	require.NoError(t, s.Set(LowCutBypassed, 1))
	require.NoError(t, s.Set(Shape, float64(effects.ShapeTanSine)))

	var buf bytes.Buffer
	require.NoError(t, s.WritePreset(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "36 db/Oct", decoded["LowCut Slope"])
	assert.Equal(t, true, decoded["LowCut Bypassed"])
	assert.InDelta(t, 95.0, decoded["LowCut Freq"], 1e-9)

	loaded := NewStore()
	require.NoError(t, loaded.ReadPreset(&buf))
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
}

func TestPresetPartialAndErrors(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(Drive, 3))

	require.NoError(t, json.Unmarshal([]byte(`{"mix": 0.25, "highcut-freq": "2kHz"}`), s))
	assert.Equal(t, 3.0, s.Get(Drive), "missing keys keep their value")
	assert.InDelta(t, 0.25, s.Get(Mix), 1e-9)
	assert.Equal(t, 2000.0, s.Get(HighCutFreq))

	err := json.Unmarshal([]byte(`{"mix": 0.5, "resonance": 1}`), s)
	require.ErrorIs(t, err, ErrUnknownParameter)
	assert.InDelta(t, 0.25, s.Get(Mix), 1e-9, "a failing preset stores nothing")

	require.Error(t, json.Unmarshal([]byte(`{"drive": [1]}`), s))
	require.Error(t, json.Unmarshal([]byte(`[]`), s))
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := range 1000 {
			_ = s.Set(LowCutFreq, float64(20+i))
		}
	}()

	go func() {
		defer wg.Done()

		for range 1000 {
			got := s.Snapshot().Chain.LowCutFreq
			if got < cut.MinFreq || got > cut.MaxFreq {
				t.Errorf("snapshot out of range: %g", got)
				return
			}
		}
	}()

	wg.Wait()
}

func TestSnapshotDoesNotAllocate(t *testing.T) {
	s := NewStore()

	allocs := testing.AllocsPerRun(100, func() {
		_ = s.Snapshot()
	})
	assert.Zero(t, allocs)
}
