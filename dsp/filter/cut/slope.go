package cut

import (
	"fmt"
	"strings"
)

// MaxStages is the number of biquad slots in a Chain.
const MaxStages = 4

// Slope is the steepness of a cut filter. Each step adds one biquad section
// and 12 dB/oct.
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// Slopes lists the valid slopes in ascending order.
var Slopes = []Slope{Slope12, Slope24, Slope36, Slope48}

// Sections returns the number of active biquad sections, 1 to 4.
func (s Slope) Sections() int {
	return int(s.clamp()) + 1
}

// Order returns the Butterworth order, twice the section count.
func (s Slope) Order() int {
	return 2 * s.Sections()
}

// DBPerOctave returns the asymptotic roll-off.
func (s Slope) DBPerOctave() int {
	return 12 * s.Sections()
}

// Valid reports whether s is one of the four defined slopes.
func (s Slope) Valid() bool {
	return s >= Slope12 && s <= Slope48
}

func (s Slope) clamp() Slope {
	switch {
	case s < Slope12:
		return Slope12
	case s > Slope48:
		return Slope48
	}

	return s
}

func (s Slope) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slope(%d)", int(s))
	}

	return fmt.Sprintf("%d db/Oct", s.DBPerOctave())
}

// ParseSlope accepts "12", "24 db/Oct", "48dB" and similar spellings.
func ParseSlope(text string) (Slope, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSuffix(t, "/oct")
	t = strings.TrimSpace(strings.TrimSuffix(t, "db"))

	for _, s := range Slopes {
		if t == fmt.Sprint(s.DBPerOctave()) {
			return s, nil
		}
	}

	return Slope12, fmt.Errorf("cut: unknown slope %q (want 12, 24, 36 or 48)", text)
}

// Kind selects the filter response.
type Kind int

const (
	// LowCut removes content below the cutoff (highpass).
	LowCut Kind = iota
	// HighCut removes content above the cutoff (lowpass).
	HighCut
)

func (k Kind) String() string {
	switch k {
	case LowCut:
		return "LowCut"
	case HighCut:
		return "HighCut"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
