package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingOrder(t *testing.T) {
	r, err := NewRing(4)
	require.NoError(t, err)

	dst := make([]float64, 4)

	r.Write([]float64{1, 2})
	assert.False(t, r.Full())
	assert.Equal(t, 2, r.CopyLatest(dst))
	assert.Equal(t, []float64{1, 2}, dst[:2])

	r.Write([]float64{3, 4, 5})
	assert.True(t, r.Full())
	assert.Equal(t, 4, r.CopyLatest(dst))
	assert.Equal(t, []float64{2, 3, 4, 5}, dst)

	r.Write([]float64{6, 7, 8, 9, 10, 11})
	r.CopyLatest(dst)
	assert.Equal(t, []float64{8, 9, 10, 11}, dst)

	r.Reset()
	assert.False(t, r.Full())
	assert.Equal(t, 0, r.CopyLatest(dst))
}

func TestNewRingRejectsZero(t *testing.T) {
	_, err := NewRing(0)
	assert.Error(t, err)
}
