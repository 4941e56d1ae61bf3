package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})
}

// ParamRange describes a parameter's domain for display.
func ParamRange(p param.Parameter) string {
	switch p.Kind {
	case param.KindChoice, param.KindBool:
		return strings.Join(p.Choices, " | ")
	}

	r := fmt.Sprintf("%s … %s", p.Format(p.Min), p.Format(p.Max))
	if p.Skew != 1 {
		r += fmt.Sprintf(" (skew %g)", p.Skew)
	}

	return r
}

// PrintParams prints the parameter layout with the store's current values.
func PrintParams(w io.Writer, params []param.Parameter, store *param.Store) {
	t := newTable("ID", "Name", "Range", "Default", "Value")

	for _, p := range params {
		t.Row(
			fmt.Sprint(int(p.ID)),
			p.Name,
			ParamRange(p),
			p.Format(p.Default),
			store.Format(p.ID),
		)
	}

	fmt.Fprintln(w, t.String())
}

// PrintResponse prints the combined cut-filter magnitude at freqs.
func PrintResponse(w io.Writer, resp *cut.Response, freqs []float64) {
	t := newTable("Frequency", "Magnitude")

	for i, db := range resp.Curve(nil, freqs) {
		t.Row(formatFreq(freqs[i]), fmt.Sprintf("%8.2f dB", db))
	}

	fmt.Fprintln(w, t.String())
}

// PrintSections prints the biquad sections designed for kind.
func PrintSections(w io.Writer, kind cut.Kind, sections []biquad.Coefficients) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%s sections", kind)))

	t := newTable("#", "b0", "b1", "b2", "a1", "a2")
	for i, c := range sections {
		t.Row(fmt.Sprint(i),
			fmt.Sprintf("%+.9f", c.B0), fmt.Sprintf("%+.9f", c.B1), fmt.Sprintf("%+.9f", c.B2),
			fmt.Sprintf("%+.9f", c.A1), fmt.Sprintf("%+.9f", c.A2))
	}

	fmt.Fprintln(w, t.String())
}

func formatFreq(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}

	return fmt.Sprintf("%.1f Hz", hz)
}
