//go:build !headless

package host

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Output plays an io.Reader of interleaved float32 samples on the default
// audio device. Only one Output may be opened per process.
type Output struct {
	ctx    *oto.Context
	player *oto.Player
}

// OpenOutput creates the device context and a paused player reading r.
func OpenOutput(sampleRate, channels int, buffer time.Duration, r io.Reader) (*Output, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("host: open audio device: %w", err)
	}
	<-ready

	return &Output{ctx: ctx, player: ctx.NewPlayer(r)}, nil
}

// Start begins playback.
func (o *Output) Start() { o.player.Play() }

// Err reports a playback error, if any.
func (o *Output) Err() error { return o.player.Err() }

// Close stops playback.
func (o *Output) Close() error {
	return o.player.Close()
}

// Headless reports whether output is a stub.
func (o *Output) Headless() bool { return false }
