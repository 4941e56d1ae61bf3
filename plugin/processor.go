// Package plugin wires the cut filters, the distortion stage and the analysis
// taps into one block processor driven by a parameter store.
package plugin

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-cutdrive/dsp/analysis"
	"github.com/cwbudde/algo-cutdrive/dsp/core"
	"github.com/cwbudde/algo-cutdrive/dsp/effects"
	"github.com/cwbudde/algo-cutdrive/dsp/filter/cut"
	"github.com/cwbudde/algo-cutdrive/plugin/param"
)

var (
	// ErrNotPrepared is returned by ProcessBlock before Prepare or after
	// Release.
	ErrNotPrepared = errors.New("plugin: processor not prepared")
	// ErrChannelCount is returned by Prepare for anything but mono or stereo.
	ErrChannelCount = errors.New("plugin: channel count must be 1 or 2")
	// ErrBlockLength is returned by ProcessBlock when the prepared channels
	// hold buffers of different lengths.
	ErrBlockLength = errors.New("plugin: channel buffers differ in length")
)

const (
	MaxChannels       = 2
	defaultFifoBlocks = 32
)

// Option configures a Processor.
type Option func(*config)

type config struct {
	fifoBlocks int
}

// WithFifoBlocks sets how many blocks each analysis fifo holds.
func WithFifoBlocks(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.fifoBlocks = n
		}
	}
}

// Processor runs low-cut, high-cut and distortion on planar audio.
//
// Prepare, Release and Reset must not run concurrently with ProcessBlock.
// The accessors Level, Fifo, Phase, Dropped and NonFinite may be called from
// any goroutine while audio runs.
type Processor struct {
	store *param.Store
	cfg   config

	format   core.ProcessorConfig
	prepared bool

	chains    []cut.MonoChain
	designers [2]cut.Designer
	applied   cut.ChainSettings
	designed  bool
	dist      *effects.Distortion

	fifos  []*analysis.Fifo
	levels [MaxChannels]analysis.Level
	chunk  [MaxChannels][]float64

	phase     atomic.Int32
	nonFinite atomic.Uint64
}

// New returns an unprepared processor reading store. A nil store gets a
// fresh default one.
func New(store *param.Store, opts ...Option) *Processor {
	if store == nil {
		store = param.NewStore()
	}

	cfg := config{fifoBlocks: defaultFifoBlocks}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Processor{store: store, cfg: cfg}
	for i := range p.levels {
		p.levels[i].Reset()
	}

	return p
}

// Prepare allocates everything ProcessBlock needs. It may be called again to
// change the format; previous state is discarded.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	return p.PrepareConfig(core.ProcessorConfig{
		SampleRate: sampleRate,
		BlockSize:  maxBlockSize,
		Channels:   channels,
	})
}

// PrepareConfig is Prepare with the format as a core.ProcessorConfig, where
// BlockSize is the largest chunk ProcessBlock runs at once.
func (p *Processor) PrepareConfig(format core.ProcessorConfig) error {
	if !(format.SampleRate > 0) || !core.IsFinite(format.SampleRate) {
		return fmt.Errorf("plugin: sample rate must be positive: %v", format.SampleRate)
	}

	if format.BlockSize < 1 {
		return fmt.Errorf("plugin: max block size must be positive: %d", format.BlockSize)
	}

	if format.Channels < 1 || format.Channels > MaxChannels {
		return fmt.Errorf("%w: %d", ErrChannelCount, format.Channels)
	}

	channels := format.Channels

	dist, err := effects.NewDistortion()
	if err != nil {
		return fmt.Errorf("plugin: distortion: %w", err)
	}

	fifos := make([]*analysis.Fifo, channels)
	for ch := range fifos {
		f, err := analysis.NewFifo(p.cfg.fifoBlocks, format.BlockSize)
		if err != nil {
			return fmt.Errorf("plugin: analysis fifo: %w", err)
		}

		fifos[ch] = f
	}

	p.format = format
	p.chains = make([]cut.MonoChain, channels)
	p.designers = [2]cut.Designer{}
	p.designed = false
	p.dist = dist
	p.fifos = fifos
	p.prepared = true
	p.nonFinite.Store(0)

	for i := range p.levels {
		p.levels[i].Reset()
	}

	p.phase.Store(int32(PhaseIdle))

	return nil
}

// Release drops everything Prepare allocated.
func (p *Processor) Release() {
	p.prepared = false
	p.chains = nil
	p.fifos = nil
	p.dist = nil
	p.designed = false
	p.format = core.ProcessorConfig{}
	p.phase.Store(int32(PhaseIdle))
}

// Reset clears filter memory and levels. Analysis fifos are left to their
// consumer.
func (p *Processor) Reset() {
	for i := range p.chains {
		p.chains[i].Reset()
	}

	for i := range p.levels {
		p.levels[i].Reset()
	}
}

// ProcessBlock processes planar audio in place. Blocks longer than the
// prepared maximum are split. Buffers beyond the prepared channel count are
// cleared. The prepared channels must all have the same length; otherwise
// ErrBlockLength is returned and no buffer is touched. It never allocates,
// locks or blocks.
func (p *Processor) ProcessBlock(bufs [][]float64) error {
	if !p.prepared {
		return ErrNotPrepared
	}

	active := min(len(bufs), p.format.Channels)
	if active == 0 {
		return nil
	}

	n := len(bufs[0])
	for ch := 1; ch < active; ch++ {
		if len(bufs[ch]) != n {
			return ErrBlockLength
		}
	}

	for ch := p.format.Channels; ch < len(bufs); ch++ {
		clear(bufs[ch])
	}

	step := p.format.BlockSize
	for off := 0; off < n; off += step {
		end := min(off+step, n)
		for ch := range active {
			p.chunk[ch] = bufs[ch][off:end]
		}

		p.process(p.chunk[:active])
	}

	clear(p.chunk[:])

	return nil
}

func (p *Processor) process(bufs [][]float64) {
	p.setPhase(PhaseSnapshotParams)
	s := p.store.Snapshot()

	p.setPhase(PhaseUpdateFilters)
	p.updateFilters(s.Chain)

	for ch, buf := range bufs {
		if ch == 0 {
			p.setPhase(PhaseFilterLeft)
		} else {
			p.setPhase(PhaseFilterRight)
		}

		p.chains[ch].Process(buf)

		if !core.AllFinite(buf) {
			clear(buf)
			p.chains[ch].Reset()
			p.nonFinite.Add(1)
		}
	}

	p.setPhase(PhaseDistort)
	p.dist.Configure(s.Drive, s.Mix, s.PostGainDB, s.Shape)

	for _, buf := range bufs {
		p.dist.ProcessInPlace(buf)
	}

	p.setPhase(PhasePublishAnalysis)

	for ch, buf := range bufs {
		p.fifos[ch].Push(buf)
		p.levels[ch].Store(analysis.RMSdB(buf))
	}

	p.setPhase(PhaseIdle)
}

// updateFilters redesigns only when a cutoff or slope moved; bypass flags
// are copied every block.
func (p *Processor) updateFilters(s cut.ChainSettings) {
	if p.designed && sameDesign(s, p.applied) {
		for i := range p.chains {
			p.chains[i].ApplyBypass(s)
		}

		return
	}

	low := p.designers[cut.LowCut].Design(cut.LowCut, s.LowCutFreq, s.LowCutSlope, p.format.SampleRate)
	high := p.designers[cut.HighCut].Design(cut.HighCut, s.HighCutFreq, s.HighCutSlope, p.format.SampleRate)

	for i := range p.chains {
		p.chains[i].Apply(s, low, high)
	}

	p.applied = s
	p.designed = true
}

func sameDesign(a, b cut.ChainSettings) bool {
	return a.LowCutFreq == b.LowCutFreq && a.LowCutSlope == b.LowCutSlope &&
		a.HighCutFreq == b.HighCutFreq && a.HighCutSlope == b.HighCutSlope
}

func (p *Processor) setPhase(ph Phase) { p.phase.Store(int32(ph)) }

// Phase returns the step the audio thread is in.
func (p *Processor) Phase() Phase { return Phase(p.phase.Load()) }

// Store returns the parameter store the processor reads.
func (p *Processor) Store() *param.Store { return p.store }

// Config returns the prepared format, the zero value when unprepared.
func (p *Processor) Config() core.ProcessorConfig { return p.format }

// SampleRate returns the prepared sample rate, 0 when unprepared.
func (p *Processor) SampleRate() float64 { return p.format.SampleRate }

// Channels returns the prepared channel count, 0 when unprepared.
func (p *Processor) Channels() int { return p.format.Channels }

// MaxBlockSize returns the prepared chunk size.
func (p *Processor) MaxBlockSize() int { return p.format.BlockSize }

// Level returns the last RMS level of channel ch in dBFS. Unknown channels
// read as silence.
func (p *Processor) Level(ch int) float64 {
	if ch < 0 || ch >= MaxChannels {
		return core.SilenceDB
	}

	return p.levels[ch].Load()
}

// Fifo returns channel ch's analysis fifo, or nil.
func (p *Processor) Fifo(ch int) *analysis.Fifo {
	if ch < 0 || ch >= len(p.fifos) {
		return nil
	}

	return p.fifos[ch]
}

// Fifos returns all analysis fifos in channel order.
func (p *Processor) Fifos() []*analysis.Fifo {
	return append([]*analysis.Fifo(nil), p.fifos...)
}

// Dropped sums the blocks every analysis fifo has discarded.
func (p *Processor) Dropped() uint64 {
	var n uint64
	for _, f := range p.fifos {
		n += f.Dropped()
	}

	return n
}

// NonFinite counts channel blocks that were silenced after the filters
// produced NaN or Inf.
func (p *Processor) NonFinite() uint64 { return p.nonFinite.Load() }

// Chain returns channel ch's filter path for inspection, or nil.
func (p *Processor) Chain(ch int) *cut.MonoChain {
	if ch < 0 || ch >= len(p.chains) {
		return nil
	}

	return &p.chains[ch]
}
