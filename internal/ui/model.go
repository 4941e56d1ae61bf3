// Package ui provides the bubbletea terminal analyzer for cutdrive: parameter
// controls, level meters, spectrum and waveform.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-cutdrive/dsp/analysis"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

const (
	// FrameRate is how often the model polls the analysis taps.
	FrameRate = 60

	// DefaultBands is the number of spectrum columns.
	DefaultBands = 64

	minBandHz = 20.0
	maxBandHz = 20000.0

	fineStep   = 0.005
	coarseStep = 0.05
)

// Meters is the level source polled every frame. *plugin.Processor
// satisfies it.
type Meters interface {
	Level(ch int) float64
	Channels() int
	SampleRate() float64
}

// TickMsg drives the display refresh.
type TickMsg time.Time

// ErrMsg reports a failure from the audio side; the model shows it and
// quits.
type ErrMsg struct{ Err error }

// Model is the bubbletea model for the live analyzer.
type Model struct {
	store    *param.Store
	meters   Meters
	analyzer *analysis.Analyzer
	params   []param.Parameter

	// Selected indexes params.
	Selected int

	Levels   []float64
	Spectrum []float64
	Response []float64
	Wave     []analysis.MinMax
	Settings param.Settings
	Frames   uint64

	freqs []float64
	Err   error
	Done  bool

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel builds a model over store, meters and an optional analyzer. The
// analyzer is only touched from the model's goroutine.
func NewModel(store *param.Store, meters Meters, analyzer *analysis.Analyzer) Model {
	m := Model{
		store:    store,
		meters:   meters,
		analyzer: analyzer,
		params:   param.Layout(),
		Levels:   make([]float64, meters.Channels()),
		Spectrum: make([]float64, DefaultBands),
		freqs:    cut.LogFrequencies(DefaultBands, minBandHz, maxBandHz),
	}

	for i := range m.Spectrum {
		m.Spectrum[i] = analysis.FloorDB
	}

	m.refreshResponse()

	return m
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/FrameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		m.poll()
		if m.Err != nil {
			m.Done = true
			return m, tea.Quit
		}

		return m, tick()

	case ErrMsg:
		m.Err = msg.Err
		m.Done = true

		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.Done = true
		return m, tea.Quit

	case "up", "k":
		m.Selected = (m.Selected + len(m.params) - 1) % len(m.params)

	case "down", "j", "tab":
		m.Selected = (m.Selected + 1) % len(m.params)

	case "left", "h":
		m.adjust(-fineStep)

	case "right", "l":
		m.adjust(fineStep)

	case "pgdown", "shift+left":
		m.adjust(-coarseStep)

	case "pgup", "shift+right":
		m.adjust(coarseStep)

	case "b", "enter", " ":
		m.toggleBypass()

	case "r":
		m.store.Reset()
	}

	m.refreshResponse()

	return m, nil
}

// adjust moves the selected parameter by delta in normalised units, or by
// one choice for discrete parameters. A move too small to survive step
// snapping advances by one step instead.
func (m *Model) adjust(delta float64) {
	p := m.params[m.Selected]
	cur := m.store.Get(p.ID)

	switch p.Kind {
	case param.KindChoice, param.KindBool:
		dir := 1.0
		if delta < 0 {
			dir = -1
		}

		_ = m.store.Set(p.ID, cur+dir)

	default:
		next := p.Clamp(p.Denormalize(p.Normalize(cur) + delta))
		if next == cur {
			next = cur + p.Step
			if delta < 0 {
				next = cur - p.Step
			}
		}

		_ = m.store.Set(p.ID, next)
	}
}

// toggleBypass flips the bypass of the filter the selection belongs to.
func (m *Model) toggleBypass() {
	var id param.ID

	switch m.params[m.Selected].ID {
	case param.LowCutFreq, param.LowCutSlope, param.LowCutBypassed:
		id = param.LowCutBypassed
	case param.HighCutFreq, param.HighCutSlope, param.HighCutBypassed:
		id = param.HighCutBypassed
	default:
		return
	}

	_ = m.store.Set(id, 1-m.store.Get(id))
}

// poll reads the levels, drains the analyzer and rebuilds the response curve
// when a parameter changed.
func (m *Model) poll() {
	for ch := range m.Levels {
		m.Levels[ch] = m.meters.Level(ch)
	}

	if m.analyzer != nil {
		if _, err := m.analyzer.Update(); err != nil {
			m.Err = err
			return
		}

		m.analyzer.CurveDB(m.Spectrum, m.freqs, m.meters.SampleRate())
		m.Wave = m.analyzer.Waveform(0).Snapshot(m.Wave[:0])
		m.Frames = m.analyzer.Frames()
	}

	m.refreshResponse()
}

func (m *Model) refreshResponse() {
	if !m.store.TakeDirty() && m.Response != nil {
		return
	}

	m.Settings = m.store.Snapshot()

	sr := m.meters.SampleRate()
	if !(sr > 0) {
		return
	}

	m.Response = cut.NewResponse(m.Settings.Chain, sr).Curve(m.Response, m.freqs)
}

// View renders the UI.
func (m Model) View() string {
	if m.Done {
		if m.Err != nil {
			return errorStyle.Render("error: ") + m.Err.Error() + "\n"
		}

		return ""
	}

	return renderAnalyzer(m)
}
