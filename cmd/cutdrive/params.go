package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-cutdrive/internal/cli"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

// ParamFlags set processor parameters. Values use the parameter's display
// syntax, so "1.2kHz", "24" or "24 db/Oct" and "-3dB" all work. A preset is
// applied first and individual flags override it.
type ParamFlags struct {
	Preset    string   `help:"JSON preset file." type:"existingfile" placeholder:"FILE"`
	LowCut    string   `help:"Low-cut frequency (Hz or kHz)." placeholder:"FREQ"`
	HighCut   string   `help:"High-cut frequency (Hz or kHz)." placeholder:"FREQ"`
	LowSlope  string   `help:"Low-cut slope: 12, 24, 36 or 48 dB/oct." placeholder:"DB"`
	HighSlope string   `help:"High-cut slope: 12, 24, 36 or 48 dB/oct." placeholder:"DB"`
	Drive     string   `help:"Drive amount, 1 to 10." placeholder:"X"`
	Mix       string   `help:"Dry/wet mix, 0 to 1." placeholder:"X"`
	PostGain  string   `help:"Output gain in dB, -12 to 0." placeholder:"DB"`
	Shape     string   `help:"Drive shape: Tanh, Sine, Sine³, TanSine or HardClip." placeholder:"NAME"`
	NoLowCut  bool     `help:"Bypass the low-cut filter."`
	NoHighCut bool     `help:"Bypass the high-cut filter."`
	Set       []string `help:"Set any parameter by name, e.g. --set 'Post Gain=-6dB'." placeholder:"NAME=VALUE" sep:"none"`
}

// Apply writes the flags into store.
func (f *ParamFlags) Apply(store *param.Store) error {
	if f.Preset != "" {
		file, err := os.Open(f.Preset)
		if err != nil {
			return fmt.Errorf("preset: %w", err)
		}

		err = store.ReadPreset(file)
		file.Close()

		if err != nil {
			return fmt.Errorf("preset %s: %w", f.Preset, err)
		}
	}

	named := []struct {
		id   param.ID
		text string
	}{
		{param.LowCutFreq, f.LowCut},
		{param.HighCutFreq, f.HighCut},
		{param.LowCutSlope, f.LowSlope},
		{param.HighCutSlope, f.HighSlope},
		{param.Drive, f.Drive},
		{param.Mix, f.Mix},
		{param.PostGain, f.PostGain},
		{param.Shape, f.Shape},
	}

	for _, n := range named {
		if n.text == "" {
			continue
		}

		if err := store.SetText(n.id.String(), n.text); err != nil {
			return err
		}
	}

	if f.NoLowCut {
		if err := store.Set(param.LowCutBypassed, 1); err != nil {
			return err
		}
	}

	if f.NoHighCut {
		if err := store.Set(param.HighCutBypassed, 1); err != nil {
			return err
		}
	}

	for _, kv := range f.Set {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--set %q: want NAME=VALUE", kv)
		}

		if err := store.SetText(name, value); err != nil {
			return err
		}
	}

	return nil
}

// ParamsCmd prints the layout, or the resulting preset with --json.
type ParamsCmd struct {
	ParamFlags `embed:""`

	JSON bool `help:"Write the parameters as a JSON preset instead of a table."`
}

func (cmd *ParamsCmd) Run(env *runEnv) error {
	store := param.NewStore()
	if err := cmd.Apply(store); err != nil {
		return err
	}

	if cmd.JSON {
		return store.WritePreset(env.out)
	}

	cli.PrintParams(env.out, param.Layout(), store)

	return nil
}
