package main

import (
	"fmt"

	"github.com/cwbudde/algo-cutdrive/internal/host"
	"github.com/sirupsen/logrus"
)

// ToneCmd writes the sine test tone to a WAV file.
type ToneCmd struct {
	Out string `arg:"" help:"Output WAV file." type:"path"`

	Freq     float64 `help:"Frequency in Hz." default:"50"`
	Amp      float64 `help:"Linear amplitude." default:"0.5"`
	Rate     int     `help:"Sample rate in Hz." default:"48000"`
	Seconds  float64 `help:"Length in seconds." default:"2"`
	Bits     int     `help:"Bit depth: 16, 24 or 32." default:"16"`
	Channels int     `help:"Channel count." default:"2"`
}

func (cmd *ToneCmd) Run(env *runEnv) error {
	frames := int(cmd.Seconds * float64(cmd.Rate))
	if frames < 1 || cmd.Channels < 1 {
		return fmt.Errorf("tone: need a positive length and channel count")
	}

	tone, err := host.NewTone(cmd.Freq, cmd.Amp, float64(cmd.Rate))
	if err != nil {
		return err
	}

	clip := host.NewClip(cmd.Rate, cmd.Bits, cmd.Channels, frames)
	tone.Read(clip.Channels)

	if err := host.WriteWAVFile(cmd.Out, clip); err != nil {
		return err
	}

	env.log.WithFields(logrus.Fields{
		"file":     cmd.Out,
		"freq":     cmd.Freq,
		"frames":   frames,
		"channels": cmd.Channels,
		"bits":     cmd.Bits,
	}).Info("tone written")

	return nil
}
