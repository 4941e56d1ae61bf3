package host

import (
	"errors"
	"sync/atomic"

	"github.com/cwbudde/algo-cutdrive/plugin"
)

// Player pulls audio from a Source through a prepared Processor and serves
// it as interleaved float32 bytes. Its Read method runs on the output
// device's goroutine and does not allocate.
type Player struct {
	proc   *plugin.Processor
	src    atomic.Pointer[sourceBox]
	il     *Interleaver
	planar [][]float64
	views  [][]float64

	frames atomic.Uint64
	errs   atomic.Uint64
}

type sourceBox struct{ Source }

// NewPlayer wraps proc, which must already be prepared.
func NewPlayer(proc *plugin.Processor, src Source) (*Player, error) {
	channels, block := proc.Channels(), proc.MaxBlockSize()
	if channels == 0 || block == 0 {
		return nil, plugin.ErrNotPrepared
	}

	if src == nil {
		return nil, errors.New("host: player needs a source")
	}

	il, err := NewInterleaver(channels, block)
	if err != nil {
		return nil, err
	}

	p := &Player{
		proc:   proc,
		il:     il,
		planar: make([][]float64, channels),
		views:  make([][]float64, channels),
	}

	for ch := range p.planar {
		p.planar[ch] = make([]float64, block)
	}

	p.src.Store(&sourceBox{src})

	return p, nil
}

// SetSource swaps the signal source. Safe while playing.
func (p *Player) SetSource(src Source) {
	if src != nil {
		p.src.Store(&sourceBox{src})
	}
}

// Read renders len(b)/frameBytes frames. A trailing partial frame and any
// block the processor rejects are written as silence.
func (p *Player) Read(b []byte) (int, error) {
	src := p.src.Load()
	block := len(p.planar[0])
	written := 0

	for written+p.il.FrameBytes() <= len(b) {
		k := min(block, (len(b)-written)/p.il.FrameBytes())
		for ch := range p.planar {
			p.views[ch] = p.planar[ch][:k]
		}

		src.Read(p.views)

		if err := p.proc.ProcessBlock(p.views); err != nil {
			p.errs.Add(1)

			for _, v := range p.views {
				clear(v)
			}
		}

		written += p.il.Interleave(b[written:], p.views, k)
		p.frames.Add(uint64(k))
	}

	clear(b[written:])

	return len(b), nil
}

// Frames returns how many frames have been rendered.
func (p *Player) Frames() uint64 { return p.frames.Load() }

// Errors counts blocks the processor rejected.
func (p *Player) Errors() uint64 { return p.errs.Load() }

// SampleFormat describes the bytes Read produces.
func (p *Player) SampleFormat() (sampleRate float64, channels int) {
	return p.proc.SampleRate(), p.il.Channels()
}
