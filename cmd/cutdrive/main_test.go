package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-cutdrive/dsp/analysis"
	"github.com/cwbudde/algo-cutdrive/internal/host"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err = run(context.Background(), args, &out, &errOut)

	return out.String(), errOut.String(), err
}

func TestToneThenRender(t *testing.T) {
	dir := t.TempDir()
	tone := filepath.Join(dir, "tone.wav")
	out := filepath.Join(dir, "out.wav")

	_, logs, err := runArgs(t, "tone", tone, "--freq", "1000", "--seconds", "0.1", "--bits", "24")
	require.NoError(t, err)
	assert.Contains(t, logs, "tone written")

	_, logs, err = runArgs(t, "render", tone, out,
		"--high-cut", "2kHz", "--high-slope", "48", "--drive", "3", "--block", "128", "--bits", "16")
	require.NoError(t, err)
	assert.Contains(t, logs, "render complete")
	assert.Contains(t, logs, "channel summary")

	clip, err := host.ReadWAVFile(out)
	require.NoError(t, err)
	assert.Equal(t, 48000, clip.SampleRate)
	assert.Equal(t, 16, clip.BitDepth)
	require.Len(t, clip.Channels, 2)
	assert.Equal(t, 4800, clip.Frames())

	for _, x := range clip.Channels[0] {
		require.Less(t, x, 1.0)
		require.Greater(t, x, -1.0)
	}
}

func TestRenderStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	tone := filepath.Join(dir, "tone.wav")

	_, _, err := runArgs(t, "tone", tone, "--seconds", "0.05")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, logs bytes.Buffer
	err = run(ctx, []string{"render", tone, filepath.Join(dir, "out.wav")}, &out, &logs)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, logs.String(), "interrupted")
}

func TestParamsPresetRoundTrip(t *testing.T) {
	preset, _, err := runArgs(t, "params", "--json",
		"--low-cut", "1.2kHz", "--high-slope", "48", "--no-high-cut", "--set", "Post Gain=-6dB")
	require.NoError(t, err)

	store := param.NewStore()
	require.NoError(t, store.UnmarshalJSON([]byte(preset)))
	assert.Equal(t, 1200.0, store.Get(param.LowCutFreq))
	assert.Equal(t, 3.0, store.Get(param.HighCutSlope))
	assert.Equal(t, 1.0, store.Get(param.HighCutBypassed))
	assert.Equal(t, -6.0, store.Get(param.PostGain))

	path := filepath.Join(t.TempDir(), "preset.json")
	require.NoError(t, os.WriteFile(path, []byte(preset), 0o600))

	table, _, err := runArgs(t, "params", "--preset", path, "--drive", "4")
	require.NoError(t, err)
	assert.Contains(t, table, "1.20 kHz")
	assert.Contains(t, table, "-6.00 dB")
	assert.Contains(t, table, "4.00")
}

func TestResponseCommand(t *testing.T) {
	out, _, err := runArgs(t, "response", "--low-cut", "200", "--low-slope", "24", "--points", "8", "--sections")
	require.NoError(t, err)

	assert.Contains(t, out, "Magnitude")
	assert.Contains(t, out, "200 Hz, 24 db/Oct")
	assert.Contains(t, out, "LowCut sections")
	assert.Contains(t, out, "HighCut sections")

	_, _, err = runArgs(t, "response", "--points", "1")
	require.Error(t, err)
}

func TestParamFlagErrors(t *testing.T) {
	_, _, err := runArgs(t, "params", "--set", "Nope=3")
	require.ErrorIs(t, err, param.ErrUnknownParameter)

	_, _, err = runArgs(t, "params", "--set", "Drive")
	require.ErrorContains(t, err, "NAME=VALUE")

	_, _, err = runArgs(t, "params", "--low-slope", "13")
	require.Error(t, err)
}

func TestHelpAndVersion(t *testing.T) {
	out, _, err := runArgs(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "render")
	assert.Contains(t, out, "response")

	out, _, err = runArgs(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := newLogger("info", "json", &buf)
	require.NoError(t, err)

	log.WithField("k", 1).Info("hello")
	log.Debug("hidden")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.NotContains(t, buf.String(), "hidden")

	_, err = newLogger("loud", "text", &buf)
	require.Error(t, err)
}

func TestNewEstimator(t *testing.T) {
	est, err := newEstimator("fft", 1024)
	require.NoError(t, err)
	assert.IsType(t, &analysis.FFTEstimator{}, est)
	assert.Equal(t, 1024, est.Size())

	est, err = newEstimator("gonum", 512)
	require.NoError(t, err)
	assert.IsType(t, &analysis.GonumEstimator{}, est)
	assert.Equal(t, 512, est.Size())

	_, err = newEstimator("gonum", 1000)
	require.Error(t, err)

	_, err = newEstimator("dft", 1024)
	require.Error(t, err)

	_, _, err = runArgs(t, "play", "--estimator", "dft")
	require.Error(t, err)
}
