package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-cutdrive/dsp/analysis"
	"github.com/cwbudde/algo-cutdrive/internal/testutil"
	"github.com/cwbudde/algo-cutdrive/plugin"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *plugin.Processor) {
	t.Helper()

	proc := plugin.New(nil)
	require.NoError(t, proc.Prepare(48000, 512, 2))

	an, err := analysis.NewAnalyzer(proc.Fifos())
	require.NoError(t, err)

	return NewModel(proc.Store(), proc, an), proc
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(k)

		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}

	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func TestSelectionWraps(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, keyUp)
	assert.Equal(t, int(param.Count)-1, m.Selected)

	m = press(t, m, keyDown, keyDown)
	assert.Equal(t, 1, m.Selected)
}

func TestAdjustFrequencyLeavesFloor(t *testing.T) {
	m, proc := newTestModel(t)
	store := proc.Store()

	// LowCut Freq sits at its minimum, where a fine normalised step rounds
	// away; the key must still move it.
	m = press(t, m, keyRight)
	assert.Greater(t, store.Get(param.LowCutFreq), 10.0)

	m = press(t, m, keyLeft, keyLeft, keyLeft)
	assert.Equal(t, 10.0, store.Get(param.LowCutFreq))

	m = press(t, m, keyDown, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Less(t, store.Get(param.HighCutFreq), 20000.0)
	assert.Equal(t, 1, m.Selected)
}

func TestAdjustChoiceSteps(t *testing.T) {
	m, proc := newTestModel(t)
	store := proc.Store()

	m.Selected = int(param.LowCutSlope)
	m = press(t, m, keyRight, keyRight)
	assert.Equal(t, 2.0, store.Get(param.LowCutSlope))

	m = press(t, m, keyRight, keyRight, keyRight)
	assert.Equal(t, 3.0, store.Get(param.LowCutSlope), "clamped at 48 dB/oct")

	press(t, m, keyLeft)
	assert.Equal(t, 2.0, store.Get(param.LowCutSlope))
}

func TestBypassFollowsSelection(t *testing.T) {
	m, proc := newTestModel(t)
	store := proc.Store()

	m = press(t, m, runes("b"))
	assert.Equal(t, 1.0, store.Get(param.LowCutBypassed))
	assert.True(t, m.Settings.Chain.LowCutBypassed)

	m.Selected = int(param.HighCutSlope)
	m = press(t, m, runes("b"))
	assert.Equal(t, 1.0, store.Get(param.HighCutBypassed))

	m.Selected = int(param.Drive)
	press(t, m, runes("b"))
	assert.Equal(t, 1.0, store.Get(param.LowCutBypassed))
	assert.Equal(t, 1.0, store.Get(param.HighCutBypassed))
}

func TestResetRestoresDefaults(t *testing.T) {
	m, proc := newTestModel(t)
	store := proc.Store()

	require.NoError(t, store.Set(param.Drive, 7))
	require.NoError(t, store.Set(param.HighCutFreq, 800))

	m = press(t, m, runes("r"))
	assert.Equal(t, 1.0, store.Get(param.Drive))
	assert.Equal(t, 20000.0, m.Settings.Chain.HighCutFreq)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m, _ := newTestModel(t)

		next, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.True(t, next.(Model).Done)
		assert.Empty(t, next.View())
	}
}

func TestResponseOnlyRebuiltWhenDirty(t *testing.T) {
	m, proc := newTestModel(t)
	require.Len(t, m.Response, DefaultBands)

	before := append([]float64(nil), m.Response...)

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	assert.Equal(t, before, m.Response)

	require.NoError(t, proc.Store().Set(param.HighCutFreq, 1000))

	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	assert.Less(t, m.Response[DefaultBands-1], before[DefaultBands-1]-20)
	assert.Equal(t, 1000.0, m.Settings.Chain.HighCutFreq)
}

func TestTickPollsTaps(t *testing.T) {
	m, proc := newTestModel(t)

	sine := testutil.DeterministicSine(1000, 48000, 0.5, 512*8)
	for off := 0; off < len(sine); off += 512 {
		block := testutil.Planar(sine[off:off+512], sine[off:off+512])
		require.NoError(t, proc.ProcessBlock(block))
	}

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.Greater(t, m.Frames, uint64(0))
	assert.Zero(t, proc.Fifo(0).Len())
	assert.Greater(t, m.Levels[0], -12.0)
	assert.InDelta(t, m.Levels[0], m.Levels[1], 1e-9)
	assert.NotEmpty(t, m.Wave)

	peak := 0
	for i, db := range m.Spectrum {
		if db > m.Spectrum[peak] {
			peak = i
		}
	}

	assert.InDelta(t, 1000, m.freqs[peak], 200)

	view := m.View()
	assert.Contains(t, view, "cutdrive")
	assert.Contains(t, view, "LowCut Freq")
	assert.Contains(t, view, "48000 Hz")
}

func TestErrMsgQuits(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(ErrMsg{Err: errors.New("device lost")})
	require.NotNil(t, cmd)

	m = next.(Model)
	assert.True(t, m.Done)
	assert.True(t, strings.Contains(m.View(), "device lost"))
}

func TestMeterFill(t *testing.T) {
	assert.Equal(t, 0, meterFill(-100, 12))
	assert.Equal(t, 0, meterFill(-60, 12))
	assert.Equal(t, 6, meterFill(-27, 12))
	assert.Equal(t, 12, meterFill(6, 12))
	assert.Equal(t, 12, meterFill(20, 12))
}

func TestWaveformColumns(t *testing.T) {
	points := []analysis.MinMax{
		{Min: -0.1, Max: 0.2}, {Min: -0.5, Max: 0.1}, {Min: -0.2, Max: 0.9}, {Min: 0, Max: 0.3},
	}

	cols := waveformColumns(points, 2)
	require.Len(t, cols, 2)
	assert.Equal(t, analysis.MinMax{Min: -0.5, Max: 0.2}, cols[0])
	assert.Equal(t, analysis.MinMax{Min: -0.2, Max: 0.9}, cols[1])

	assert.Len(t, waveformColumns(points, 10), 4)
	assert.Nil(t, waveformColumns(nil, 4))
}
