package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveformMinMax(t *testing.T) {
	w, err := NewWaveform(3, 4)
	require.NoError(t, err)

	w.Write([]float64{0, 1, -1, 0.5, 0.2, 0.3})
	assert.Equal(t, 1, w.Len(), "partial groups are not emitted")

	w.Write([]float64{-0.4, 0.1})

	got := w.Snapshot(nil)
	require.Len(t, got, 2)
	assert.Equal(t, MinMax{Min: -1, Max: 1}, got[0])
	assert.Equal(t, MinMax{Min: -0.4, Max: 0.3}, got[1])
}

func TestWaveformWrapsOldestFirst(t *testing.T) {
	w, err := NewWaveform(2, 1)
	require.NoError(t, err)

	w.Write([]float64{1, 2, 3})

	got := w.Snapshot(nil)
	assert.Equal(t, []MinMax{{2, 2}, {3, 3}}, got)

	w.Reset()
	assert.Empty(t, w.Snapshot(nil))
}

func TestNewWaveformRejectsBadSizes(t *testing.T) {
	_, err := NewWaveform(0, 8)
	require.Error(t, err)

	_, err = NewWaveform(8, 0)
	require.Error(t, err)
}
