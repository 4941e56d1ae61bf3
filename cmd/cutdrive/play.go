package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-cutdrive/dsp/analysis"
	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/internal/host"
	"github.com/cwbudde/algo-cutdrive/internal/ui"
	"github.com/cwbudde/algo-cutdrive/plugin"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const playChannels = 2

// PlayCmd plays a looped WAV file, or the test tone, through the processor.
type PlayCmd struct {
	In string `arg:"" optional:"" help:"WAV file to loop; the test tone plays when omitted." type:"existingfile"`

	ParamFlags `embed:""`

	Tone     float64       `help:"Test tone frequency in Hz." default:"50"`
	Amp      float64       `help:"Test tone amplitude." default:"0.25"`
	Rate     int           `help:"Sample rate for the test tone." default:"48000"`
	Block    int           `help:"Processing block size in frames." default:"256"`
	Buffer   time.Duration `help:"Output buffer length." default:"40ms"`
	Duration time.Duration `help:"Stop after this long; 0 plays until interrupted." default:"0s"`
	NoUI     bool          `help:"Log levels instead of showing the analyzer."`

	Estimator string `help:"Spectrum FFT backend: fft (algo-fft) or gonum." enum:"fft,gonum" default:"fft"`
	FFTSize   int    `name:"fft-size" help:"Spectrum frame length, a power of two." default:"2048"`
}

func (cmd *PlayCmd) source() (host.Source, int, error) {
	if cmd.In == "" {
		tone, err := host.NewTone(cmd.Tone, cmd.Amp, float64(cmd.Rate))
		return tone, cmd.Rate, err
	}

	clip, err := host.ReadWAVFile(cmd.In)
	if err != nil {
		return nil, 0, err
	}

	src, err := host.NewClipSource(clip)

	return src, clip.SampleRate, err
}

func (cmd *PlayCmd) Run(env *runEnv) error {
	store := param.NewStore()
	if err := cmd.Apply(store); err != nil {
		return err
	}

	src, rate, err := cmd.source()
	if err != nil {
		return err
	}

	proc := plugin.New(store)
	format := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(rate)),
		core.WithBlockSize(cmd.Block),
		core.WithChannels(playChannels),
	)
	if err := proc.PrepareConfig(format); err != nil {
		return err
	}

	player, err := host.NewPlayer(proc, src)
	if err != nil {
		return err
	}

	est, err := newEstimator(cmd.Estimator, cmd.FFTSize)
	if err != nil {
		return err
	}

	an, err := analysis.NewAnalyzer(proc.Fifos(), analysis.WithEstimator(est))
	if err != nil {
		return err
	}

	out, err := host.OpenOutput(rate, playChannels, cmd.Buffer, player)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, cancel := context.WithCancel(env.ctx)
	defer cancel()

	if cmd.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, cmd.Duration)
		defer cancel()
	}

	log := env.log.WithFields(logrus.Fields{
		"sample_rate": rate,
		"block":       cmd.Block,
		"headless":    out.Headless(),
		"estimator":   cmd.Estimator,
	})
	log.Info("playing")

	out.Start()

	g, gctx := errgroup.WithContext(ctx)

	interactive := !cmd.NoUI && isTerminal(env.out)
	if interactive {
		prog := tea.NewProgram(ui.NewModel(store, proc, an), tea.WithAltScreen(), tea.WithOutput(env.out))

		g.Go(func() error {
			defer cancel()

			_, err := prog.Run()
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			prog.Quit()

			return nil
		})
		g.Go(func() error {
			return watchOutput(gctx, out, func(err error) { prog.Send(ui.ErrMsg{Err: err}) })
		})
	} else {
		g.Go(func() error { return watchOutput(gctx, out, nil) })
		g.Go(func() error { return logLevels(gctx, log, proc, an) })
	}

	err = g.Wait()

	log.WithFields(logrus.Fields{
		"frames":     player.Frames(),
		"dropped":    proc.Dropped(),
		"non_finite": proc.NonFinite(),
	}).Info("stopped")

	// Interrupts and --duration end playback normally.
	return err
}

// newEstimator builds the spectrum backend named by --estimator.
func newEstimator(name string, size int) (analysis.Estimator, error) {
	switch name {
	case "fft", "":
		est, err := analysis.NewFFTEstimator(size)
		if err != nil {
			return nil, err
		}

		return est, nil
	case "gonum":
		est, err := analysis.NewGonumEstimator(size)
		if err != nil {
			return nil, err
		}

		return est, nil
	default:
		return nil, fmt.Errorf("unknown estimator %q", name)
	}
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// watchOutput polls the device for an error until ctx ends.
func watchOutput(ctx context.Context, out *host.Output, onErr func(error)) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := out.Err(); err != nil {
				if onErr != nil {
					onErr(err)
				}

				return fmt.Errorf("audio output: %w", err)
			}
		}
	}
}

// logLevels drains the analyzer and logs meters once a second.
func logLevels(ctx context.Context, log logrus.FieldLogger, proc *plugin.Processor, an *analysis.Analyzer) error {
	ticker := time.NewTicker(time.Second / ui.FrameRate)
	defer ticker.Stop()

	binHz := an.BinHz(proc.SampleRate())
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := an.Update(); err != nil {
				return err
			}

			if now.Sub(last) < time.Second {
				continue
			}

			last = now

			fields := logrus.Fields{
				"left_db":  fmt.Sprintf("%.1f", proc.Level(0)),
				"right_db": fmt.Sprintf("%.1f", proc.Level(1)),
				"dropped":  proc.Dropped(),
			}

			if spec := an.Spectrum(); spec != nil {
				fields["peak_hz"] = fmt.Sprintf("%.0f", float64(peakBin(spec))*binHz)
			}

			log.WithFields(fields).Info("levels")
		}
	}
}

func peakBin(spec []float64) int {
	peak := 0
	for i, v := range spec {
		if v > spec[peak] {
			peak = i
		}
	}

	return peak
}
