package main

import (
	"fmt"

	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
	"github.com/cwbudde/algo-cutdrive/internal/cli"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

// ResponseCmd prints the combined magnitude response of both cut filters.
type ResponseCmd struct {
	ParamFlags `embed:""`

	Rate     float64 `help:"Sample rate in Hz." default:"48000"`
	Points   int     `help:"Number of log-spaced frequencies." default:"31"`
	Sections bool    `help:"Also print the biquad sections."`
}

func (cmd *ResponseCmd) Run(env *runEnv) error {
	if !(cmd.Rate > 0) || cmd.Points < 2 {
		return fmt.Errorf("response: need a positive rate and at least 2 points")
	}

	store := param.NewStore()
	if err := cmd.Apply(store); err != nil {
		return err
	}

	s := store.Snapshot().Chain
	resp := cut.NewResponse(s, cmd.Rate)

	cli.PrintKV(env.out, "Sample rate", fmt.Sprintf("%g Hz", cmd.Rate))
	cli.PrintKV(env.out, "Low cut", describe(s.LowCutFreq, s.LowCutSlope, s.LowCutBypassed))
	cli.PrintKV(env.out, "High cut", describe(s.HighCutFreq, s.HighCutSlope, s.HighCutBypassed))

	hi := min(cut.MaxFreq, cmd.Rate/2)
	cli.PrintResponse(env.out, resp, cut.LogFrequencies(cmd.Points, cut.MinFreq, hi))

	if cmd.Sections {
		cli.PrintSections(env.out, cut.LowCut, resp.Sections(cut.LowCut))
		cli.PrintSections(env.out, cut.HighCut, resp.Sections(cut.HighCut))
	}

	return nil
}

func describe(freq float64, slope cut.Slope, bypassed bool) string {
	if bypassed {
		return "bypassed"
	}

	return fmt.Sprintf("%g Hz, %s", freq, slope)
}
