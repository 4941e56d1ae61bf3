package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cwbudde/algo-cutdrive/dsp/analysis"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

const (
	meterMinDB = -60.0
	meterMaxDB = 6.0
	meterRows  = 12

	spectrumFloorDB = -90.0
	spectrumRows    = 10

	responseFloorDB = -48.0

	waveformCols = 64
	waveformRows = 7
)

var eighths = []rune(" ▁▂▃▄▅▆▇█")

var (
	accentColor = lipgloss.Color("#FFA500")
	mutedColor  = lipgloss.Color("#888888")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	bypassedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	spectrumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAAA"))
	responseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	waveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))

	meterLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	meterHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	meterClipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))
)

// renderAnalyzer renders the main view
func renderAnalyzer(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(renderParams(m)),
		boxStyle.Render(renderMeters(m.Levels)))
	b.WriteString(top)
	b.WriteString("\n")

	b.WriteString(boxStyle.Render(renderSpectrum(m.Spectrum, m.Response, spectrumRows) + "\n" + renderResponseSummary(m)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(renderWaveform(m.Wave, waveformCols, waveformRows)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("↑/↓ select  ←/→ adjust  pgup/pgdn coarse  b bypass  r reset  q quit"))

	return b.String()
}

func renderHeader(m Model) string {
	title := titleStyle.Render("cutdrive")
	sub := subtitleStyle.Render(fmt.Sprintf("%.0f Hz · %d ch · %d frames",
		m.meters.SampleRate(), len(m.Levels), m.Frames))

	return title + "  " + sub
}

// renderParams renders the parameter list with the selection marked
func renderParams(m Model) string {
	var b strings.Builder

	for i, p := range m.params {
		line := fmt.Sprintf("%-16s %12s", p.Name, m.store.Format(p.ID))

		switch {
		case i == m.Selected:
			b.WriteString(selectedStyle.Render("▸ " + line))
		case bypassedSection(m.Settings, p.ID):
			b.WriteString("  " + bypassedStyle.Render(line))
		default:
			b.WriteString("  " + line)
		}

		if i < len(m.params)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func bypassedSection(s param.Settings, id param.ID) bool {
	switch id {
	case param.LowCutFreq, param.LowCutSlope:
		return s.Chain.LowCutBypassed
	case param.HighCutFreq, param.HighCutSlope:
		return s.Chain.HighCutBypassed
	}

	return false
}

// meterFill maps a level in dBFS to a number of lit meter rows.
func meterFill(db float64, rows int) int {
	if math.IsNaN(db) {
		return 0
	}

	frac := (min(max(db, meterMinDB), meterMaxDB) - meterMinDB) / (meterMaxDB - meterMinDB)

	return int(math.Round(frac * float64(rows)))
}

// renderMeters renders one vertical meter per channel
func renderMeters(levels []float64) string {
	var b strings.Builder

	fills := make([]int, len(levels))
	for ch, db := range levels {
		fills[ch] = meterFill(db, meterRows)
	}

	for row := meterRows; row >= 1; row-- {
		rowDB := meterMinDB + float64(row)/meterRows*(meterMaxDB-meterMinDB)

		style := meterLowStyle
		switch {
		case rowDB > 0:
			style = meterClipStyle
		case rowDB > -12:
			style = meterHighStyle
		}

		cells := make([]string, len(levels))
		for ch := range levels {
			cells[ch] = "  "
			if fills[ch] >= row {
				cells[ch] = "██"
			}
		}

		b.WriteString(style.Render(strings.Join(cells, " ")))
		b.WriteString("\n")
	}

	labels := make([]string, len(levels))
	values := make([]string, len(levels))
	for ch, db := range levels {
		labels[ch] = channelLabel(ch, len(levels))
		values[ch] = fmt.Sprintf("%s%6.1f dB", labels[ch], db)
	}

	b.WriteString(strings.Join(labels, " "))
	b.WriteString("\n")
	b.WriteString(strings.Join(values, "\n"))

	return b.String()
}

func channelLabel(ch, channels int) string {
	if channels == 2 {
		return [2]string{"L ", "R "}[ch]
	}

	return fmt.Sprintf("%-2d", ch+1)
}

// levelUnits maps db on [floor, 0] to 0..rows*8 eighth-cells.
func levelUnits(db, floor float64, rows int) int {
	if math.IsNaN(db) {
		return 0
	}

	frac := (min(max(db, floor), 0) - floor) / -floor

	return int(math.Round(frac * float64(rows*8)))
}

// renderSpectrum draws spectrum bars with the filter response overlaid as
// dots.
func renderSpectrum(spectrum, response []float64, rows int) string {
	units := make([]int, len(spectrum))
	for i, db := range spectrum {
		units[i] = levelUnits(db, spectrumFloorDB, rows)
	}

	curve := make([]int, len(response))
	for i, db := range response {
		curve[i] = -1
		if db >= responseFloorDB {
			curve[i] = (rows - 1) - int(math.Round((db-responseFloorDB)/-responseFloorDB*float64(rows-1)))
		}
	}

	var b strings.Builder

	for r := range rows {
		base := (rows - 1 - r) * 8

		for i, u := range units {
			v := min(max(u-base, 0), 8)
			if v == 0 && i < len(curve) && curve[i] == r {
				b.WriteString(responseStyle.Render("·"))
				continue
			}

			b.WriteString(spectrumStyle.Render(string(eighths[v])))
		}

		if r < rows-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderResponseSummary describes the current cut and drive settings.
func renderResponseSummary(m Model) string {
	s := m.Settings

	low := fmt.Sprintf("LowCut %s %s", m.params[param.LowCutFreq].Format(s.Chain.LowCutFreq), s.Chain.LowCutSlope)
	if s.Chain.LowCutBypassed {
		low = bypassedStyle.Render(low)
	}

	high := fmt.Sprintf("HighCut %s %s", m.params[param.HighCutFreq].Format(s.Chain.HighCutFreq), s.Chain.HighCutSlope)
	if s.Chain.HighCutBypassed {
		high = bypassedStyle.Render(high)
	}

	drive := fmt.Sprintf("%s ×%.2f mix %.0f%% %+.1f dB", s.Shape, s.Drive, s.Mix*100, s.PostGainDB)

	return subtitleStyle.Render(low + " │ " + high + " │ " + drive)
}

// waveformColumns reduces points to cols min/max buckets.
func waveformColumns(points []analysis.MinMax, cols int) []analysis.MinMax {
	if len(points) == 0 || cols < 1 {
		return nil
	}

	cols = min(cols, len(points))
	out := make([]analysis.MinMax, cols)

	for c := range out {
		lo := c * len(points) / cols
		hi := (c + 1) * len(points) / cols

		mm := analysis.MinMax{Min: math.Inf(1), Max: math.Inf(-1)}
		for _, p := range points[lo:hi] {
			mm.Min = math.Min(mm.Min, p.Min)
			mm.Max = math.Max(mm.Max, p.Max)
		}

		out[c] = mm
	}

	return out
}

func waveRow(y float64, rows int) int {
	y = min(max(y, -1), 1)

	return int(math.Round((1 - y) / 2 * float64(rows-1)))
}

// renderWaveform draws the min/max envelope of points.
func renderWaveform(points []analysis.MinMax, cols, rows int) string {
	columns := waveformColumns(points, cols)
	center := rows / 2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
		if r == center {
			grid[r] = []rune(strings.Repeat("─", cols))
		}
	}

	for c, mm := range columns {
		top, bottom := waveRow(mm.Max, rows), waveRow(mm.Min, rows)
		for r := top; r <= bottom; r++ {
			grid[r][c] = '█'
		}
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = string(row)
	}

	return waveStyle.Render(strings.Join(lines, "\n"))
}
