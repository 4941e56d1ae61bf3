// Command cutdrive runs the cut-filter and distortion processor outside a
// plugin host.
//
// Usage:
//
//	cutdrive <command> [flags]
//
// Examples:
//
//	cutdrive render in.wav out.wav --low-cut 80 --high-cut 8kHz --drive 3
//	cutdrive play loop.wav --high-slope 48
//	cutdrive play --tone 110
//	cutdrive response --low-cut 200 --low-slope 24 --points 16
//	cutdrive params --drive 4 --json > preset.json
//	cutdrive tone test.wav --seconds 5
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-cutdrive/internal/cli"
	"github.com/cwbudde/algo-cutdrive/internal/cpu"
	"github.com/sirupsen/logrus"
)

var version = "0.1.0"

const forceGenericEnv = "CUTDRIVE_FORCE_GENERIC"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel  string           `help:"Log level." enum:"trace,debug,info,warn,error" default:"info"`
	LogFormat string           `help:"Log format." enum:"text,json" default:"text"`
	Config    kong.ConfigFlag  `help:"JSON file with flag defaults." placeholder:"FILE"`
	Version   kong.VersionFlag `short:"v" help:"Show version information."`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Render   RenderCmd   `cmd:"" help:"Process a WAV file offline."`
	Play     PlayCmd     `cmd:"" help:"Play a looped WAV file or test tone through the processor."`
	Response ResponseCmd `cmd:"" help:"Print the cut-filter magnitude response."`
	Params   ParamsCmd   `cmd:"" help:"Print the parameter layout."`
	Tone     ToneCmd     `cmd:"" help:"Write the test tone to a WAV file."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c CLI

	exited := false

	parser, err := kong.New(&c,
		kong.Name("cutdrive"),
		kong.Description("Butterworth low/high cut with tanh drive."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version},
		kong.Help(cli.StyledHelpPrinter()),
		kong.Configuration(kong.JSON),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if exited {
		// --help or --version already printed.
		return nil
	}

	if err != nil {
		return err
	}

	log, err := newLogger(c.LogLevel, c.LogFormat, stderr)
	if err != nil {
		return err
	}

	if os.Getenv(forceGenericEnv) != "" {
		cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true})
		log.WithField("env", forceGenericEnv).Debug("forcing generic kernels")
	}

	err = kctx.Run(&runEnv{ctx: ctx, out: stdout, log: log})
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted")
	}

	return err
}

// runEnv is bound into every command's Run method.
type runEnv struct {
	ctx context.Context
	out io.Writer
	log *logrus.Logger
}

func newLogger(level, format string, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	log.SetLevel(lvl)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log, nil
}
