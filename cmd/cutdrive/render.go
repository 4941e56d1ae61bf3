package main

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/biquad"
	"github.com/cwbudde/algo-cutdrive/internal/host"
	"github.com/cwbudde/algo-cutdrive/plugin"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
	"github.com/sirupsen/logrus"
)

// RenderCmd processes a WAV file offline.
type RenderCmd struct {
	In  string `arg:"" help:"Input WAV file." type:"existingfile"`
	Out string `arg:"" help:"Output WAV file." type:"path"`

	ParamFlags `embed:""`

	Block int `help:"Processing block size in frames." default:"512"`
	Bits  int `help:"Output bit depth; 0 keeps the input's." default:"0"`
}

func (cmd *RenderCmd) Run(env *runEnv) error {
	store := param.NewStore()
	if err := cmd.Apply(store); err != nil {
		return err
	}

	clip, err := host.ReadWAVFile(cmd.In)
	if err != nil {
		return err
	}

	log := env.log.WithFields(logrus.Fields{
		"in":          cmd.In,
		"sample_rate": clip.SampleRate,
		"channels":    len(clip.Channels),
		"bits":        clip.BitDepth,
		"frames":      clip.Frames(),
	})
	log.WithField("kernel", biquad.KernelName()).Info("rendering")

	proc := plugin.New(store)
	format := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(clip.SampleRate)),
		core.WithBlockSize(cmd.Block),
		core.WithChannels(len(clip.Channels)),
	)
	if err := proc.PrepareConfig(format); err != nil {
		return fmt.Errorf("render %s: %w", cmd.In, err)
	}

	start := time.Now()
	nextReport := 0

	res, err := host.Render(env.ctx, proc, clip, cmd.Block, func(done, total int) {
		if pct := done * 100 / max(total, 1); pct >= nextReport {
			log.WithField("progress", fmt.Sprintf("%d%%", pct)).Debug("render progress")
			nextReport = pct - pct%10 + 10
		}
	})
	if err != nil {
		return err
	}

	if cmd.Bits != 0 {
		clip.BitDepth = cmd.Bits
	}

	if err := host.WriteWAVFile(cmd.Out, clip); err != nil {
		return err
	}

	for ch := range res.Output {
		in, out := res.Input[ch], res.Output[ch]
		log.WithFields(logrus.Fields{
			"channel":     ch,
			"in_rms_db":   fmt.Sprintf("%.1f", in.RMSdB),
			"out_rms_db":  fmt.Sprintf("%.1f", out.RMSdB),
			"in_peak_db":  fmt.Sprintf("%.1f", in.PeakdB),
			"out_peak_db": fmt.Sprintf("%.1f", out.PeakdB),
			"clipped":     out.Clipped,
		}).Info("channel summary")
	}

	log.WithFields(logrus.Fields{
		"out":        cmd.Out,
		"elapsed":    time.Since(start).Round(time.Millisecond),
		"non_finite": proc.NonFinite(),
	}).Info("render complete")

	return nil
}
