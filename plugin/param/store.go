package param

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-cutdrive/dsp/effects"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
)

// Settings is one parameter snapshot, captured once per audio block.
type Settings struct {
	Chain      cut.ChainSettings
	Drive      float64
	Mix        float64
	PostGainDB float64
	Shape      effects.Shape
}

// DefaultSettings returns the snapshot of a freshly reset store.
func DefaultSettings() Settings {
	return NewStore().Snapshot()
}

// Store holds the current plain value of every parameter as atomic float64
// bits. Any goroutine may write; the audio thread reads through Snapshot.
type Store struct {
	values [Count]atomic.Uint64
	dirty  atomic.Bool
}

// NewStore returns a store at default values. The first TakeDirty reports
// true.
func NewStore() *Store {
	s := &Store{}
	s.Reset()

	return s
}

func (s *Store) load(id ID) float64 {
	return math.Float64frombits(s.values[id].Load())
}

// Set clamps v to the parameter's range and step and stores it.
func (s *Store) Set(id ID, v float64) error {
	if !id.Valid() {
		return fmt.Errorf("%w: id %d", ErrUnknownParameter, int(id))
	}

	s.values[id].Store(math.Float64bits(layout[id].Clamp(v)))
	s.dirty.Store(true)

	return nil
}

// Get returns the stored plain value, or NaN for an unknown id.
func (s *Store) Get(id ID) float64 {
	if !id.Valid() {
		return math.NaN()
	}

	return s.load(id)
}

// SetNormalized stores the plain value for a 0..1 control position.
func (s *Store) SetNormalized(id ID, normalized float64) error {
	if !id.Valid() {
		return fmt.Errorf("%w: id %d", ErrUnknownParameter, int(id))
	}

	return s.Set(id, layout[id].Denormalize(normalized))
}

// Normalized returns the 0..1 control position of id.
func (s *Store) Normalized(id ID) float64 {
	if !id.Valid() {
		return 0
	}

	return layout[id].Normalize(s.load(id))
}

// SetText parses text with the parameter's display syntax and stores it.
func (s *Store) SetText(name, text string) error {
	p, err := ByName(name)
	if err != nil {
		return err
	}

	v, err := p.Parse(text)
	if err != nil {
		return err
	}

	return s.Set(p.ID, v)
}

// Format renders the current value of id.
func (s *Store) Format(id ID) string {
	if !id.Valid() {
		return ""
	}

	return layout[id].Format(s.load(id))
}

// Reset restores every default.
func (s *Store) Reset() {
	for id := range Count {
		s.values[id].Store(math.Float64bits(layout[id].Default))
	}

	s.dirty.Store(true)
}

// TakeDirty reports whether any parameter changed since the previous call
// and clears the flag.
func (s *Store) TakeDirty() bool {
	return s.dirty.Swap(false)
}

// Snapshot reads every parameter. It does not allocate or block.
func (s *Store) Snapshot() Settings {
	return Settings{
		Chain: cut.ChainSettings{
			LowCutFreq:      s.load(LowCutFreq),
			HighCutFreq:     s.load(HighCutFreq),
			LowCutSlope:     cut.Slope(s.load(LowCutSlope)),
			HighCutSlope:    cut.Slope(s.load(HighCutSlope)),
			LowCutBypassed:  s.load(LowCutBypassed) >= 0.5,
			HighCutBypassed: s.load(HighCutBypassed) >= 0.5,
		},
		Drive:      s.load(Drive),
		Mix:        s.load(Mix),
		PostGainDB: s.load(PostGain),
		Shape:      effects.Shape(s.load(Shape)),
	}
}

// Apply stores every field of settings, clamping each like Set. It stops at
// the first error.
func (s *Store) Apply(settings Settings) error {
	for id, v := range settingsValues(settings) {
		if err := s.Set(ID(id), v); err != nil {
			return err
		}
	}

	return nil
}

// settingsValues lays settings out by ID.
func settingsValues(settings Settings) [Count]float64 {
	c := settings.Chain

	var v [Count]float64
	v[LowCutFreq] = c.LowCutFreq
	v[HighCutFreq] = c.HighCutFreq
	v[LowCutSlope] = float64(c.LowCutSlope)
	v[HighCutSlope] = float64(c.HighCutSlope)
	v[LowCutBypassed] = boolValue(c.LowCutBypassed)
	v[HighCutBypassed] = boolValue(c.HighCutBypassed)
	v[Drive] = settings.Drive
	v[Mix] = settings.Mix
	v[PostGain] = settings.PostGainDB
	v[Shape] = float64(settings.Shape)

	return v
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// MarshalJSON encodes the store as a preset: an object keyed by parameter
// name. Continuous values are numbers, toggles booleans and choices their
// label.
func (s *Store) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, Count)

	for _, p := range layout {
		v := s.load(p.ID)

		switch p.Kind {
		case KindBool:
			out[p.Name] = v >= 0.5
		case KindChoice:
			out[p.Name] = p.Choices[int(p.Clamp(v))]
		default:
			out[p.Name] = v
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON applies a preset. Parameters missing from the preset keep
// their value; unknown names fail with ErrUnknownParameter before anything
// is stored.
func (s *Store) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("param: preset: %w", err)
	}

	values := make(map[ID]float64, len(raw))

	for name, msg := range raw {
		p, err := ByName(name)
		if err != nil {
			return err
		}

		v, err := decodeValue(p, msg)
		if err != nil {
			return err
		}

		values[p.ID] = v
	}

	for id, v := range values {
		if err := s.Set(id, v); err != nil {
			return err
		}
	}

	return nil
}

func decodeValue(p Parameter, msg json.RawMessage) (float64, error) {
	var b bool
	if p.Kind == KindBool && json.Unmarshal(msg, &b) == nil {
		return boolValue(b), nil
	}

	var text string
	if json.Unmarshal(msg, &text) == nil {
		return p.Parse(text)
	}

	var v float64
	if err := json.Unmarshal(msg, &v); err != nil {
		return 0, fmt.Errorf("param: preset value for %s: %w", p.Name, err)
	}

	return p.Clamp(v), nil
}

// WritePreset encodes the store as indented JSON.
func (s *Store) WritePreset(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("param: write preset: %w", err)
	}

	return nil
}

// ReadPreset decodes a preset written by WritePreset into the store.
func (s *Store) ReadPreset(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("param: read preset: %w", err)
	}

	return s.UnmarshalJSON(data)
}
