// Package param defines the cutdrive parameter layout and a lock-free store
// that a UI or host writes and the audio thread snapshots once per block.
package param

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/dsp/effects"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
)

// ErrUnknownParameter is returned for IDs or names outside the layout.
var ErrUnknownParameter = errors.New("param: unknown parameter")

// ID identifies a parameter. IDs index Layout().
type ID int

const (
	LowCutFreq ID = iota
	HighCutFreq
	LowCutSlope
	HighCutSlope
	Drive
	PostGain
	Mix
	LowCutBypassed
	HighCutBypassed
	Shape

	// Count is the number of parameters.
	Count
)

// Valid reports whether id is part of the layout.
func (id ID) Valid() bool { return id >= 0 && id < Count }

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ID(%d)", int(id))
	}

	return layout[id].Name
}

// Kind is the value type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindChoice
	KindBool
)

// Parameter describes one automatable value. Plain values are stored; the
// normalised form is only used for host-style 0..1 control.
type Parameter struct {
	ID      ID
	Name    string
	Unit    string
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64 // 0 means continuous
	Skew    float64 // normalised = proportion^Skew
	Default float64
	Choices []string
}

func continuous(id ID, name, unit string, lo, hi, step, skew, def float64) Parameter {
	return Parameter{
		ID: id, Name: name, Unit: unit, Kind: KindFloat,
		Min: lo, Max: hi, Step: step, Skew: skew, Default: def,
	}
}

func choice(id ID, name string, def int, choices []string) Parameter {
	return Parameter{
		ID: id, Name: name, Kind: KindChoice,
		Min: 0, Max: float64(len(choices) - 1), Step: 1, Skew: 1,
		Default: float64(def), Choices: choices,
	}
}

func toggle(id ID, name string) Parameter {
	return Parameter{
		ID: id, Name: name, Kind: KindBool,
		Min: 0, Max: 1, Step: 1, Skew: 1,
		Choices: []string{"Off", "On"},
	}
}

func slopeNames() []string {
	names := make([]string, len(cut.Slopes))
	for i, s := range cut.Slopes {
		names[i] = s.String()
	}

	return names
}

func shapeNames() []string {
	names := make([]string, len(effects.Shapes))
	for i, s := range effects.Shapes {
		names[i] = s.String()
	}

	return names
}

var layout = [Count]Parameter{
	LowCutFreq:      continuous(LowCutFreq, "LowCut Freq", "Hz", cut.MinFreq, cut.MaxFreq, 1, 0.25, cut.MinFreq),
	HighCutFreq:     continuous(HighCutFreq, "HighCut Freq", "Hz", cut.MinFreq, cut.MaxFreq, 1, 0.25, cut.MaxFreq),
	LowCutSlope:     choice(LowCutSlope, "LowCut Slope", int(cut.Slope12), slopeNames()),
	HighCutSlope:    choice(HighCutSlope, "HighCut Slope", int(cut.Slope12), slopeNames()),
	Drive:           continuous(Drive, "Drive", "", 1, 10, 0.01, 1, 1),
	PostGain:        continuous(PostGain, "Post Gain", "dB", -12, 0, 0.01, 1, 0),
	Mix:             continuous(Mix, "Mix", "", 0, 1, 0.01, 1, 1),
	LowCutBypassed:  toggle(LowCutBypassed, "LowCut Bypassed"),
	HighCutBypassed: toggle(HighCutBypassed, "HighCut Bypassed"),
	Shape:           choice(Shape, "Drive Shape", int(effects.ShapeTanh), shapeNames()),
}

// Layout returns every parameter in ID order.
func Layout() []Parameter {
	out := make([]Parameter, Count)
	copy(out, layout[:])

	return out
}

// Lookup returns the parameter for id.
func Lookup(id ID) (Parameter, error) {
	if !id.Valid() {
		return Parameter{}, fmt.Errorf("%w: id %d", ErrUnknownParameter, int(id))
	}

	return layout[id], nil
}

// ByName finds a parameter by name, ignoring case, spaces, '-' and '_', so
// "LowCut Freq", "lowcut-freq" and "lowcutfreq" all match.
func ByName(name string) (Parameter, error) {
	key := nameKey(name)
	for _, p := range layout {
		if nameKey(p.Name) == key {
			return p, nil
		}
	}

	return Parameter{}, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

func nameKey(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}

		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Clamp limits v to the range and snaps it to Step. NaN becomes Default.
func (p Parameter) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}

	v = core.Clamp(v, p.Min, p.Max)
	if p.Step > 0 {
		v = p.Min + math.Round((v-p.Min)/p.Step)*p.Step
		v = core.Clamp(v, p.Min, p.Max)
	}

	return v
}

// Normalize maps a plain value to 0..1 through the skew.
func (p Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}

	prop := (p.Clamp(plain) - p.Min) / (p.Max - p.Min)
	if p.Skew > 0 && p.Skew != 1 && prop > 0 {
		prop = math.Pow(prop, p.Skew)
	}

	return prop
}

// Denormalize maps 0..1 back to a clamped plain value.
func (p Parameter) Denormalize(normalized float64) float64 {
	prop := core.Clamp(normalized, 0, 1)
	if p.Skew > 0 && p.Skew != 1 && prop > 0 {
		prop = math.Pow(prop, 1/p.Skew)
	}

	return p.Clamp(p.Min + prop*(p.Max-p.Min))
}

// Format renders a plain value for display.
func (p Parameter) Format(v float64) string {
	switch p.Kind {
	case KindChoice, KindBool:
		i := int(p.Clamp(v))
		return p.Choices[i]
	}

	switch p.Unit {
	case "Hz":
		if v >= 1000 {
			return fmt.Sprintf("%.2f kHz", v/1000)
		}

		return fmt.Sprintf("%.0f Hz", v)
	case "dB":
		return fmt.Sprintf("%.2f dB", v)
	}

	return fmt.Sprintf("%.2f", v)
}

// Parse reads a display string back into a clamped plain value. Frequencies
// accept "Hz" and "kHz" suffixes; choices accept their label or index;
// toggles accept on/off, true/false and 1/0.
func (p Parameter) Parse(text string) (float64, error) {
	t := strings.TrimSpace(text)

	switch p.Kind {
	case KindBool:
		switch strings.ToLower(t) {
		case "on", "true", "yes", "1":
			return 1, nil
		case "off", "false", "no", "0":
			return 0, nil
		}

		return 0, fmt.Errorf("param: %s: invalid toggle %q", p.Name, text)
	case KindChoice:
		for i, c := range p.Choices {
			if strings.EqualFold(c, t) {
				return float64(i), nil
			}
		}

		if p.ID == LowCutSlope || p.ID == HighCutSlope {
			if s, err := cut.ParseSlope(t); err == nil {
				return float64(s), nil
			}
		}

		i, err := strconv.Atoi(t)
		if err != nil || i < 0 || i >= len(p.Choices) {
			return 0, fmt.Errorf("param: %s: invalid choice %q", p.Name, text)
		}

		return float64(i), nil
	}

	scale := 1.0
	lower := strings.ToLower(t)

	switch {
	case strings.HasSuffix(lower, "khz"):
		scale = 1000
		t = t[:len(t)-3]
	case strings.HasSuffix(lower, "hz"), strings.HasSuffix(lower, "db"):
		t = t[:len(t)-2]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
	if err != nil {
		return 0, fmt.Errorf("param: %s: %w", p.Name, err)
	}

	return p.Clamp(v * scale), nil
}
