package host

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-cutdrive/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVRoundTrip(t *testing.T) {
	for _, bits := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%dbit", bits), func(t *testing.T) {
			src := NewClip(44100, bits, 2, 0)
			src.Channels[0] = testutil.DeterministicSine(440, 44100, 0.5, 5000)
			src.Channels[1] = testutil.DeterministicNoise(3, 0.9, 5000)

			path := filepath.Join(t.TempDir(), "clip.wav")
			require.NoError(t, WriteWAVFile(path, src))

			got, err := ReadWAVFile(path)
			require.NoError(t, err)

			assert.Equal(t, 44100, got.SampleRate)
			assert.Equal(t, bits, got.BitDepth)
			require.Len(t, got.Channels, 2)
			require.Equal(t, 5000, got.Frames())

			// Half an LSB of quantisation error.
			eps := 0.5/(math.Exp2(float64(bits-1))-1) + 1e-12
			for ch := range 2 {
				testutil.RequireSliceNearlyEqual(t, got.Channels[ch], src.Channels[ch], eps)
			}
		})
	}
}

func TestWriteWAVClipsOverload(t *testing.T) {
	src := NewClip(48000, 16, 1, 0)
	src.Channels[0] = []float64{2, -2, 0.5}

	path := filepath.Join(t.TempDir(), "hot.wav")
	require.NoError(t, WriteWAVFile(path, src))

	got, err := ReadWAVFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Channels[0][0], 1e-9)
	assert.InDelta(t, -1.0, got.Channels[0][1], 1e-9)
}

func TestWAVErrors(t *testing.T) {
	_, err := ReadWAV(bytes.NewReader([]byte("definitely not RIFF data")))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	clip := NewClip(48000, 8, 1, 4)
	err = WriteWAVFile(filepath.Join(t.TempDir(), "x.wav"), clip)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	err = WriteWAVFile(filepath.Join(t.TempDir(), "y.wav"), &Clip{SampleRate: 48000, BitDepth: 16})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadWAVFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}

func TestClipFrames(t *testing.T) {
	assert.Equal(t, 0, (&Clip{}).Frames())
	assert.Equal(t, 12, NewClip(48000, 16, 2, 12).Frames())
}
